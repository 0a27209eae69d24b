package config

import (
	"fmt"
	"strings"

	"github.com/GoCleeny/service-booking/pkg/config"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Notification drivers.
const (
	NotifyLog   = "log"
	NotifyQueue = "queue"
)

// NotificationConfig selects how customer and operator messages are delivered.
type NotificationConfig struct {
	Driver            string
	OperatorEmail     string
	Sender            string
	WorkerConcurrency int
}

// RateLimitConfig throttles public form submissions per client IP.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	StoreDriver  string
	DBConfig     config.DatabaseConfig
	JWTConfig    config.JWTConfig
	KafkaConfig  config.KafkaConfig
	RedisConfig  config.RedisConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	CORSOrigins  []string
}

// Load reads configuration from BOOKING_* environment variables and an optional config file.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "gocleeny_booking")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("NOTIFY_DRIVER", NotifyLog)
	v.SetDefault("NOTIFY_OPERATOR_EMAIL", "gocleeny@gmail.com")
	v.SetDefault("NOTIFY_SENDER", "no-reply@gocleeny.com")
	v.SetDefault("NOTIFY_WORKER_CONCURRENCY", 5)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		Notification: NotificationConfig{
			Driver:            strings.ToLower(v.GetString("NOTIFY_DRIVER")),
			OperatorEmail:     v.GetString("NOTIFY_OPERATOR_EMAIL"),
			Sender:            v.GetString("NOTIFY_SENDER"),
			WorkerConcurrency: v.GetInt("NOTIFY_WORKER_CONCURRENCY"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:     v.GetInt("RATE_LIMIT_BURST"),
		},
		CORSOrigins: strings.Split(v.GetString("CORS_ORIGINS"), ","),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.Notification.Driver {
	case NotifyLog, NotifyQueue:
	default:
		return fmt.Errorf("unknown notification driver %q", c.Notification.Driver)
	}
	if c.AppEnv == "production" && c.JWTConfig.Secret == "change-me" {
		return fmt.Errorf("BOOKING_JWT_SECRET must be set in production")
	}
	return nil
}
