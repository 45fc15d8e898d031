package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 先取默认值，再读可选的 YAML 文件，最后由环境变量覆盖
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Logging     LoggingConfig     `yaml:"logging"`
	Events      EventsConfig      `yaml:"events"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTPConfig struct {
	Port      string `yaml:"port"`
	WebOrigin string `yaml:"web_origin"`
}

type AuthConfig struct {
	// Header 由前置认证代理写入的员工邮箱
	Header                  string `yaml:"header"`
	SessionTTLSeconds       int    `yaml:"session_ttl_seconds"`
	BootstrapTechnician     string `yaml:"bootstrap_technician_email"`
	LastSeenThrottleSeconds int    `yaml:"last_seen_throttle_seconds"`
}

type MaintenanceConfig struct {
	StaleMonths int `yaml:"stale_months"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EventsConfig struct {
	StatusChannel string `yaml:"status_channel"`
}

// Load path 为空时只用默认值和环境变量；.env 缺失不算错误
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    "5432",
			User:    "postgres",
			Name:    "equipment",
			SSLMode: "disable",
		},
		Redis: RedisConfig{Addr: "127.0.0.1:6379"},
		HTTP: HTTPConfig{
			Port:      "3001",
			WebOrigin: "http://localhost:5173",
		},
		Auth: AuthConfig{
			Header:                  "X-Forwarded-Email",
			SessionTTLSeconds:       24 * 60 * 60,
			LastSeenThrottleSeconds: 5 * 60,
		},
		Maintenance: MaintenanceConfig{StaleMonths: 6},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
		Events:      EventsConfig{StatusChannel: "equipment:device-status"},
	}
}

func applyEnvOverrides(cfg *Config) {
	str := func(k string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
		}
	}
	num := func(k string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("DATABASE_URL", &cfg.Database.URL)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)

	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)

	str("PORT", &cfg.HTTP.Port)
	str("WEB_ORIGIN", &cfg.HTTP.WebOrigin)

	str("AUTH_HEADER", &cfg.Auth.Header)
	num("SESSION_TTL_SECONDS", &cfg.Auth.SessionTTLSeconds)
	str("BOOTSTRAP_TECHNICIAN_EMAIL", &cfg.Auth.BootstrapTechnician)

	num("MAINTENANCE_STALE_MONTHS", &cfg.Maintenance.StaleMonths)

	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	str("STATUS_CHANNEL", &cfg.Events.StatusChannel)
}

func (c *Config) Validate() error {
	var errs []string
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		errs = append(errs, "database.url or database.host + database.name is required")
	}
	if c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required")
	}
	if p, err := strconv.Atoi(c.HTTP.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, "http.port must be between 1 and 65535")
	}
	if c.Auth.Header == "" {
		errs = append(errs, "auth.header is required")
	}
	if c.Auth.SessionTTLSeconds <= 0 {
		errs = append(errs, "auth.session_ttl_seconds must be positive")
	}
	if c.Maintenance.StaleMonths <= 0 {
		errs = append(errs, "maintenance.stale_months must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DSN DATABASE_URL 优先，否则由各字段拼接
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.Port, c.Database.SSLMode)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLSeconds) * time.Second
}

func (c *Config) LastSeenThrottle() time.Duration {
	return time.Duration(c.Auth.LastSeenThrottleSeconds) * time.Second
}

// SecureCookies 前端走 https 时会话 Cookie 加 Secure
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.HTTP.WebOrigin, "https://")
}
