package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"society-console/common/config"
)

// SourceMode 上游数据来源
type SourceMode string

const (
	SourceREST     SourceMode = "rest"
	SourcePostgres SourceMode = "postgres"
)

var (
	ErrUnknownSourceMode = errors.New("config: unknown SOURCE_MODE")
	ErrMissingSecret     = errors.New("config: AUTH_TOKEN_SECRET is required")
)

// Config 仪表盘服务配置
type Config struct {
	HTTPAddr   string
	SourceMode SourceMode

	// Upstream REST 数据源（SOURCE_MODE=rest）
	Upstream struct {
		BaseURL    string
		Token      string
		Timeout    time.Duration
		RetryCount int
	}

	Database config.DatabaseConfig
	Redis    config.RedisConfig
	MQTT     config.MQTTConfig

	Cache struct {
		Enabled bool
		TTL     time.Duration
	}

	Trigger struct {
		Enabled bool
		Topic   string
	}

	Refresh struct {
		DashboardInterval    time.Duration // 默认 5 分钟
		NotificationInterval time.Duration // 默认 30 秒
		SessionIdleTTL       time.Duration
	}

	AuthSecret string

	Log struct {
		Level  string
		Format string
		// File 非空时额外写入按天切割的 JSON 日志
		File string
	}
}

// Load 从环境变量加载配置；非法数值回落到默认值，结构性错误直接返回
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.SourceMode = SourceMode(strings.ToLower(getEnv("SOURCE_MODE", string(SourceREST))))

	cfg.Upstream.BaseURL = getEnv("UPSTREAM_BASE_URL", "http://localhost:3000/api")
	cfg.Upstream.Token = getEnv("UPSTREAM_TOKEN", "")
	cfg.Upstream.Timeout = getDuration("UPSTREAM_TIMEOUT", 15*time.Second)
	cfg.Upstream.RetryCount = getInt("UPSTREAM_RETRY_COUNT", 2)

	cfg.Database = config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "society",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = config.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT = config.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "society-console", QoS: 1}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Cache.Enabled = getBool("CACHE_ENABLED", false)
	cfg.Cache.TTL = getDuration("CACHE_TTL", 10*time.Minute)

	cfg.Trigger.Enabled = getBool("MQTT_ENABLED", false)
	cfg.Trigger.Topic = getEnv("MQTT_TOPIC", "society/refresh")

	cfg.Refresh.DashboardInterval = getDuration("DASHBOARD_REFRESH_INTERVAL", 5*time.Minute)
	cfg.Refresh.NotificationInterval = getDuration("NOTIFICATION_REFRESH_INTERVAL", 30*time.Second)
	cfg.Refresh.SessionIdleTTL = getDuration("SESSION_IDLE_TTL", 30*time.Minute)

	cfg.AuthSecret = getEnv("AUTH_TOKEN_SECRET", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.File = getEnv("LOG_FILE", "")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查无法回落到默认值的配置
func (c *Config) Validate() error {
	switch c.SourceMode {
	case SourceREST, SourcePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSourceMode, c.SourceMode)
	}
	if strings.TrimSpace(c.AuthSecret) == "" {
		return ErrMissingSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getDuration 支持 "30s" 这类写法，也接受纯数字（秒）
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
