package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gstdesk/internal/gst"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Redis      RedisConfig
	Email      EmailConfig
	Reminder   ReminderConfig
	Compliance ComplianceConfig
	Filing     FilingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds settings for the export archive bucket.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RedisConfig holds the liability cache settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// ReminderConfig holds due-date reminder worker settings.
type ReminderConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	LeadDays     int           `mapstructure:"lead_days"`
	Concurrency  int           `mapstructure:"concurrency"`
}

// ComplianceConfig holds the compliance score weights.
type ComplianceConfig struct {
	Base           int `mapstructure:"base"`
	OverduePenalty int `mapstructure:"overdue_penalty"`
	LatePenalty    int `mapstructure:"late_penalty"`
	OnTimeBonus    int `mapstructure:"on_time_bonus"`
	BonusCap       int `mapstructure:"bonus_cap"`
	Excellent      int `mapstructure:"excellent"`
	Good           int `mapstructure:"good"`
	Fair           int `mapstructure:"fair"`
}

// Weights converts the configured values to engine weights.
func (c ComplianceConfig) Weights() gst.Weights {
	return gst.Weights{
		Base:           c.Base,
		OverduePenalty: c.OverduePenalty,
		LatePenalty:    c.LatePenalty,
		OnTimeBonus:    c.OnTimeBonus,
		BonusCap:       c.BonusCap,
		Excellent:      c.Excellent,
		Good:           c.Good,
		Fair:           c.Fair,
	}
}

// FilingConfig holds the calendar settings used for periods and due dates.
type FilingConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location loads the configured filing timezone.
func (f FilingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading filing timezone %q: %w", f.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables with the GSTDESK_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GSTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstdesk")
	v.SetDefault("db.password", "gstdesk_secret")
	v.SetDefault("db.name", "gstdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "gstdesk")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstdesk-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "text")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "reminders@gstdesk.in")
	v.SetDefault("email.from_name", "GSTDesk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Reminder defaults
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.poll_interval", "1h")
	v.SetDefault("reminder.lead_days", 3)
	v.SetDefault("reminder.concurrency", 4)

	// Compliance weights
	w := gst.DefaultWeights()
	v.SetDefault("compliance.base", w.Base)
	v.SetDefault("compliance.overdue_penalty", w.OverduePenalty)
	v.SetDefault("compliance.late_penalty", w.LatePenalty)
	v.SetDefault("compliance.on_time_bonus", w.OnTimeBonus)
	v.SetDefault("compliance.bonus_cap", w.BonusCap)
	v.SetDefault("compliance.excellent", w.Excellent)
	v.SetDefault("compliance.good", w.Good)
	v.SetDefault("compliance.fair", w.Fair)

	v.SetDefault("filing.timezone", "Asia/Kolkata")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "GSTDESK_SERVER_PORT",
		"server.read_timeout":        "GSTDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GSTDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":         "GSTDESK_SERVER_ENVIRONMENT",
		"db.host":                    "GSTDESK_DB_HOST",
		"db.port":                    "GSTDESK_DB_PORT",
		"db.user":                    "GSTDESK_DB_USER",
		"db.password":                "GSTDESK_DB_PASSWORD",
		"db.name":                    "GSTDESK_DB_NAME",
		"db.sslmode":                 "GSTDESK_DB_SSLMODE",
		"db.max_open":                "GSTDESK_DB_MAX_OPEN",
		"db.max_idle":                "GSTDESK_DB_MAX_IDLE",
		"jwt.secret":                 "GSTDESK_JWT_SECRET",
		"jwt.access_expiry":          "GSTDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "GSTDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "GSTDESK_JWT_ISSUER",
		"s3.region":                  "GSTDESK_S3_REGION",
		"s3.bucket":                  "GSTDESK_S3_BUCKET",
		"s3.endpoint":                "GSTDESK_S3_ENDPOINT",
		"s3.access_key":              "GSTDESK_S3_ACCESS_KEY",
		"s3.secret_key":              "GSTDESK_S3_SECRET_KEY",
		"s3.presign_expiry":          "GSTDESK_S3_PRESIGN_EXPIRY",
		"log.level":                  "GSTDESK_LOG_LEVEL",
		"log.format":                 "GSTDESK_LOG_FORMAT",
		"cors.allowed_origins":       "GSTDESK_CORS_ALLOWED_ORIGINS",
		"redis.addr":                 "GSTDESK_REDIS_ADDR",
		"redis.password":             "GSTDESK_REDIS_PASSWORD",
		"redis.db":                   "GSTDESK_REDIS_DB",
		"redis.ttl":                  "GSTDESK_REDIS_TTL",
		"email.provider":             "GSTDESK_EMAIL_PROVIDER",
		"email.region":               "GSTDESK_EMAIL_REGION",
		"email.from_address":         "GSTDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":            "GSTDESK_EMAIL_FROM_NAME",
		"email.frontend_url":         "GSTDESK_EMAIL_FRONTEND_URL",
		"reminder.enabled":           "GSTDESK_REMINDER_ENABLED",
		"reminder.poll_interval":     "GSTDESK_REMINDER_POLL_INTERVAL",
		"reminder.lead_days":         "GSTDESK_REMINDER_LEAD_DAYS",
		"reminder.concurrency":       "GSTDESK_REMINDER_CONCURRENCY",
		"compliance.base":            "GSTDESK_COMPLIANCE_BASE",
		"compliance.overdue_penalty": "GSTDESK_COMPLIANCE_OVERDUE_PENALTY",
		"compliance.late_penalty":    "GSTDESK_COMPLIANCE_LATE_PENALTY",
		"compliance.on_time_bonus":   "GSTDESK_COMPLIANCE_ON_TIME_BONUS",
		"compliance.bonus_cap":       "GSTDESK_COMPLIANCE_BONUS_CAP",
		"compliance.excellent":       "GSTDESK_COMPLIANCE_EXCELLENT",
		"compliance.good":            "GSTDESK_COMPLIANCE_GOOD",
		"compliance.fair":            "GSTDESK_COMPLIANCE_FAIR",
		"filing.timezone":            "GSTDESK_FILING_TIMEZONE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GSTDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		TTL:      v.GetDuration("redis.ttl"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Reminder = ReminderConfig{
		Enabled:      v.GetBool("reminder.enabled"),
		PollInterval: v.GetDuration("reminder.poll_interval"),
		LeadDays:     v.GetInt("reminder.lead_days"),
		Concurrency:  v.GetInt("reminder.concurrency"),
	}
	cfg.Compliance = ComplianceConfig{
		Base:           v.GetInt("compliance.base"),
		OverduePenalty: v.GetInt("compliance.overdue_penalty"),
		LatePenalty:    v.GetInt("compliance.late_penalty"),
		OnTimeBonus:    v.GetInt("compliance.on_time_bonus"),
		BonusCap:       v.GetInt("compliance.bonus_cap"),
		Excellent:      v.GetInt("compliance.excellent"),
		Good:           v.GetInt("compliance.good"),
		Fair:           v.GetInt("compliance.fair"),
	}
	cfg.Filing = FilingConfig{
		Timezone: v.GetString("filing.timezone"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.IsProduction() && c.JWT.Secret == "change-me-in-production" {
		return fmt.Errorf("config: GSTDESK_JWT_SECRET must be set in production")
	}
	w := c.Compliance
	if !(w.Excellent >= w.Good && w.Good >= w.Fair) {
		return fmt.Errorf("config: compliance bands must satisfy excellent >= good >= fair")
	}
	if c.Reminder.Concurrency <= 0 {
		c.Reminder.Concurrency = 1
	}
	if _, err := c.Filing.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
