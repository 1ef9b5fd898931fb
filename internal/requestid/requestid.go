package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderKey = "X-Request-Id"

// maxLen bounds client-supplied ids echoed back in headers and logs.
const maxLen = 128

func Gen() string {
	return uuid.NewString()
}

// Middleware honors a client-supplied X-Request-Id and otherwise generates one.
// The id is echoed in the response header and stored in the gin context under HeaderKey.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderKey))
		if id == "" || len(id) > maxLen {
			id = Gen()
		}
		c.Header(HeaderKey, id)
		c.Set(HeaderKey, id)
		c.Next()
	}
}
