package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Logger       LoggerConfig
	SLA          SLAConfig
	Automation   AutomationConfig
	Mail         MailConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig controls optional event mirroring to Kafka.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether event mirroring should be wired.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

// LoggerConfig configures logging behavior. Format is "json" or "console".
type LoggerConfig struct {
	Level  string
	Format string
}

// SLAConfig controls due-date computation.
type SLAConfig struct {
	BusinessHoursOnly bool
	CalendarPath      string
}

// AutomationConfig controls the scheduled ticket jobs.
type AutomationConfig struct {
	AutoCloseIntervalMinutes  int
	ThirdPartyIntervalMinutes int
	EscalationIntervalMinutes int
	AutoCloseAfterHours       int
	ThirdPartyTimeoutHours    int
	TicketLockTTLSeconds      int
}

// MailConfig configures the email builder collaborators.
type MailConfig struct {
	RendererURL            string
	RendererTimeoutSeconds int
	UnsubscribeSecret      string
	UnsubscribeTTLHours    int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_EVENTS_TOPIC", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		SLA: SLAConfig{
			BusinessHoursOnly: getEnvAsBool("SLA_BUSINESS_HOURS_ONLY", true),
			CalendarPath:      getEnv("SLA_CALENDAR_PATH", ""),
		},
		Automation: AutomationConfig{
			AutoCloseIntervalMinutes:  getEnvAsInt("AUTOMATION_AUTO_CLOSE_INTERVAL_MINUTES", 60),
			ThirdPartyIntervalMinutes: getEnvAsInt("AUTOMATION_THIRD_PARTY_INTERVAL_MINUTES", 360),
			EscalationIntervalMinutes: getEnvAsInt("AUTOMATION_ESCALATION_INTERVAL_MINUTES", 30),
			AutoCloseAfterHours:       getEnvAsInt("AUTOMATION_AUTO_CLOSE_AFTER_HOURS", 72),
			ThirdPartyTimeoutHours:    getEnvAsInt("AUTOMATION_THIRD_PARTY_TIMEOUT_HOURS", 72),
			TicketLockTTLSeconds:      getEnvAsInt("AUTOMATION_TICKET_LOCK_TTL_SECONDS", 60),
		},
		Mail: MailConfig{
			RendererURL:            getEnv("MJML_RENDERER_URL", ""),
			RendererTimeoutSeconds: getEnvAsInt("MJML_RENDERER_TIMEOUT_SECONDS", 15),
			UnsubscribeSecret:      getEnv("MAIL_UNSUBSCRIBE_SECRET", "dev-secret"),
			UnsubscribeTTLHours:    getEnvAsInt("MAIL_UNSUBSCRIBE_TTL_HOURS", 720),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AutoCloseInterval returns the auto-close tick interval.
func (a AutomationConfig) AutoCloseInterval() time.Duration {
	return minutes(a.AutoCloseIntervalMinutes, 60)
}

// ThirdPartyInterval returns the pending-third-party tick interval.
func (a AutomationConfig) ThirdPartyInterval() time.Duration {
	return minutes(a.ThirdPartyIntervalMinutes, 360)
}

// EscalationInterval returns the escalation sweep tick interval.
func (a AutomationConfig) EscalationInterval() time.Duration {
	return minutes(a.EscalationIntervalMinutes, 30)
}

// TicketLockTTL bounds how long a per-ticket sweep lock is held.
func (a AutomationConfig) TicketLockTTL() time.Duration {
	if a.TicketLockTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(a.TicketLockTTLSeconds) * time.Second
}

// RendererTimeout returns the MJML renderer request timeout.
func (m MailConfig) RendererTimeout() time.Duration {
	if m.RendererTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(m.RendererTimeoutSeconds) * time.Second
}

// UnsubscribeTTL returns the unsubscribe token lifetime.
func (m MailConfig) UnsubscribeTTL() time.Duration {
	if m.UnsubscribeTTLHours <= 0 {
		return 720 * time.Hour
	}
	return time.Duration(m.UnsubscribeTTLHours) * time.Hour
}

func minutes(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
