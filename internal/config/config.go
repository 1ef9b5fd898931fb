package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort    = "3000"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
)

type Config struct {
	Server struct {
		Listen            string `yaml:"listen"`
		ReadTimeoutMs     int    `yaml:"read_timeout_ms"`
		WriteTimeoutMs    int    `yaml:"write_timeout_ms"`
		ShutdownTimeoutMs int    `yaml:"shutdown_timeout_ms"`
		PidFile           string `yaml:"pid_file"`
		// MaxBodyBytes caps the inbound /ask-ai request body.
		MaxBodyBytes int64 `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Upstream struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"api_key"`
		// TimeoutMs bounds a single generateContent call, connect to last body byte.
		TimeoutMs int `yaml:"timeout_ms"`
		// Proxy is an optional outbound proxy URL (http, https or socks5).
		Proxy string `yaml:"proxy"`
	} `yaml:"upstream"`

	Logging struct {
		Level         string `yaml:"level"`
		AccessLog     *bool  `yaml:"access_log"`
		AccessLogPath string `yaml:"access_log_path"`
	} `yaml:"logging"`
}

// Load reads the optional yaml file at path, then applies defaults and
// environment overrides. An empty path means environment-only configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if p := strings.TrimSpace(path); p != "" {
		// #nosec G304 -- path is provided by trusted flag.
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) AccessLogEnabled() bool {
	return c.Logging.AccessLog == nil || *c.Logging.AccessLog
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":" + DefaultPort
	}
	if cfg.Server.ReadTimeoutMs <= 0 {
		cfg.Server.ReadTimeoutMs = 60000
	}
	if cfg.Server.WriteTimeoutMs <= 0 {
		cfg.Server.WriteTimeoutMs = 60000
	}
	if cfg.Server.ShutdownTimeoutMs <= 0 {
		cfg.Server.ShutdownTimeoutMs = 10000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if strings.TrimSpace(cfg.Upstream.BaseURL) == "" {
		cfg.Upstream.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Upstream.Model) == "" {
		cfg.Upstream.Model = DefaultModel
	}
	if cfg.Upstream.TimeoutMs == 0 {
		cfg.Upstream.TimeoutMs = 30000
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Server.Listen = ":" + v
	}
	// explicit listen address wins over PORT
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_UPSTREAM_BASE_URL")); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_MODEL")); v != "" {
		cfg.Upstream.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_UPSTREAM_PROXY")); v != "" {
		cfg.Upstream.Proxy = v
	}
	cfg.Upstream.TimeoutMs = envInt("ECHOPAL_UPSTREAM_TIMEOUT_MS", cfg.Upstream.TimeoutMs)
	cfg.Server.ReadTimeoutMs = envInt("ECHOPAL_READ_TIMEOUT_MS", cfg.Server.ReadTimeoutMs)
	cfg.Server.WriteTimeoutMs = envInt("ECHOPAL_WRITE_TIMEOUT_MS", cfg.Server.WriteTimeoutMs)
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_PID_FILE")); v != "" {
		cfg.Server.PidFile = v
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_ACCESS_LOG")); v != "" {
		on := envBool("ECHOPAL_ACCESS_LOG", cfg.AccessLogEnabled())
		cfg.Logging.AccessLog = &on
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_ACCESS_LOG_PATH")); v != "" {
		cfg.Logging.AccessLogPath = v
	}
	if v := strings.TrimSpace(os.Getenv("ECHOPAL_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Upstream.APIKey) == "" {
		return errors.New("upstream.api_key is required (or set GEMINI_API_KEY)")
	}
	if !strings.Contains(cfg.Upstream.BaseURL, "://") {
		return errors.New("upstream.base_url must be a URL (e.g. https://generativelanguage.googleapis.com)")
	}
	if v := strings.TrimSpace(cfg.Upstream.Proxy); v != "" && !strings.Contains(v, "://") {
		return errors.New("upstream.proxy must be a URL (e.g. http://127.0.0.1:7890)")
	}
	if cfg.Upstream.TimeoutMs < 0 {
		return errors.New("upstream.timeout_ms must be positive")
	}
	if cfg.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must be non-negative")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
