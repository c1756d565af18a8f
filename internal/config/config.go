package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Email     EmailConfig
	Push      PushConfig
	Notify    NotifyConfig
	Job       JobConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type SchedulerConfig struct {
	Cron     string
	Timezone string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	From     string
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
	TTL             int
}

// NotifyConfig tunes the batch job's time windows
type NotifyConfig struct {
	// MissedGrace is how long a due reminder may stay Pending before it is reaped.
	MissedGrace time.Duration
	// WindowTolerance is the half-width of each EMI ladder window.
	WindowTolerance time.Duration
	// DedupLookback bounds the notification log search for an already sent EMI window.
	DedupLookback time.Duration
	// ReminderDedupWindow suppresses re-notifying a due reminder when a log row
	// newer than this exists. Zero disables the check.
	ReminderDedupWindow time.Duration
}

type JobConfig struct {
	CronSecret string
	LockTTL    time.Duration
	Timeout    time.Duration
}

// Load reads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Missing .env files are fine; the process environment wins either way.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("deployments/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Scheduler: SchedulerConfig{
			Cron:     v.GetString("SCHEDULER_CRON"),
			Timezone: v.GetString("SCHEDULER_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Email: EmailConfig{
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetInt("SMTP_PORT"),
			SMTPUser: v.GetString("SMTP_USER"),
			SMTPPass: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Push: PushConfig{
			VAPIDPublicKey:  v.GetString("VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: v.GetString("VAPID_PRIVATE_KEY"),
			VAPIDSubject:    v.GetString("VAPID_SUBJECT"),
			TTL:             v.GetInt("PUSH_TTL"),
		},
		Notify: NotifyConfig{
			MissedGrace:         v.GetDuration("NOTIFY_MISSED_GRACE"),
			WindowTolerance:     v.GetDuration("NOTIFY_WINDOW_TOLERANCE"),
			DedupLookback:       v.GetDuration("NOTIFY_DEDUP_LOOKBACK"),
			ReminderDedupWindow: v.GetDuration("NOTIFY_REMINDER_DEDUP_WINDOW"),
		},
		Job: JobConfig{
			CronSecret: v.GetString("CRON_SECRET"),
			LockTTL:    v.GetDuration("JOB_LOCK_TTL"),
			Timeout:    v.GetDuration("JOB_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SCHEDULER_CRON", "0 0 * * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "ReminderApp <noreply@reminder.app>")
	v.SetDefault("VAPID_SUBJECT", "mailto:admin@reminder.app")
	v.SetDefault("PUSH_TTL", 86400)
	v.SetDefault("NOTIFY_MISSED_GRACE", "1h")
	v.SetDefault("NOTIFY_WINDOW_TOLERANCE", "30m")
	v.SetDefault("NOTIFY_DEDUP_LOOKBACK", "2h")
	v.SetDefault("NOTIFY_REMINDER_DEDUP_WINDOW", "0s")
	v.SetDefault("JOB_LOCK_TTL", "15m")
	v.SetDefault("JOB_TIMEOUT", "10m")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Job.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET is required")
	}

	if c.Notify.MissedGrace <= 0 {
		return fmt.Errorf("NOTIFY_MISSED_GRACE must be a positive duration")
	}

	if c.Notify.WindowTolerance <= 0 {
		return fmt.Errorf("NOTIFY_WINDOW_TOLERANCE must be a positive duration")
	}

	if c.Notify.DedupLookback <= 0 {
		return fmt.Errorf("NOTIFY_DEDUP_LOOKBACK must be a positive duration")
	}

	if c.Notify.ReminderDedupWindow < 0 {
		return fmt.Errorf("NOTIFY_REMINDER_DEDUP_WINDOW must not be negative")
	}

	if c.Job.LockTTL <= 0 {
		return fmt.Errorf("JOB_LOCK_TTL must be a positive duration")
	}

	if c.Job.Timeout <= 0 {
		return fmt.Errorf("JOB_TIMEOUT must be a positive duration")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// RedisAddr returns host:port of the redis server
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// PushEnabled reports whether VAPID keys are configured
func (c *Config) PushEnabled() bool {
	return c.Push.VAPIDPublicKey != "" && c.Push.VAPIDPrivateKey != ""
}
