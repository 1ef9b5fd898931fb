package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/echopal-relay/internal/config"
	"github.com/r9s-ai/echopal-relay/internal/gemini"
	"github.com/r9s-ai/echopal-relay/internal/logx"
	"github.com/r9s-ai/echopal-relay/internal/relay"
)

// Run listens on cfg.Server.Listen and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Listen, err)
	}
	return Serve(ctx, cfg, ln)
}

// Serve runs the relay on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	if cfg == nil {
		return errors.New("server: nil config")
	}
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	accessLogger, accessClose, accessColor, err := openAccessLogger(cfg)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	pidCleanup, err := writePIDFile(cfg)
	if err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	if pidCleanup != nil {
		defer func() { _ = pidCleanup.Close() }()
	}

	upstreamTimeout := time.Duration(cfg.Upstream.TimeoutMs) * time.Millisecond
	writeTimeout := time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond
	if writeTimeout <= upstreamTimeout {
		log.Printf("warning: server.write_timeout_ms (%d) <= upstream.timeout_ms (%d); slow upstream replies may be cut off", cfg.Server.WriteTimeoutMs, cfg.Upstream.TimeoutMs)
	}

	gc, err := gemini.New(gemini.Options{
		BaseURL: cfg.Upstream.BaseURL,
		Model:   cfg.Upstream.Model,
		APIKey:  cfg.Upstream.APIKey,
		Timeout: upstreamTimeout,
		Proxy:   cfg.Upstream.Proxy,
	})
	if err != nil {
		return fmt.Errorf("init upstream client: %w", err)
	}
	svc := relay.NewService(gc, relay.WithMaxBodyBytes(cfg.Server.MaxBodyBytes))

	srv := &http.Server{
		Handler:           NewRouter(svc, accessLogger, accessColor),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Printf("echopal-relay listening on %s (model=%s upstream=%s)", ln.Addr().String(), cfg.Upstream.Model, gemini.RedactURL(gc.Endpoint()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutMs)*time.Millisecond)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("echopal-relay stopped")
	return nil
}

func openAccessLogger(cfg *config.Config) (*log.Logger, io.Closer, bool, error) {
	if cfg == nil || !cfg.AccessLogEnabled() {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(cfg.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", 0), nil, logx.ColorEnabled(), nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", 0), f, false, nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func writePIDFile(cfg *config.Config) (io.Closer, error) {
	if cfg == nil {
		return nil, nil
	}
	path := strings.TrimSpace(cfg.Server.PidFile)
	if path == "" {
		return nil, nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}

	tmp := path + ".tmp"
	pid := strconv.Itoa(os.Getpid()) + "\n"
	// #nosec G304 -- pid_file comes from trusted config/env.
	if err := os.WriteFile(tmp, []byte(pid), 0o600); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return closerFunc(func() error { return os.Remove(path) }), nil
}
