package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"meal-service/database"
	"meal-service/sender"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the meal service.
type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string
	Timezone string

	Postgres database.PostgresConfig
	RedisURL string

	JWTSecret          string
	CORSOrigins        []string
	RateLimitPerMinute int

	FrontendURL       string
	ReminderTime      string
	SummaryTime       string
	ReminderDaysAhead []int
	SchedulerEnabled  bool
	TaskToken         string
	TaskQueueURL      string

	WhatsApp sender.WhatsAppConfig
	SMTP     sender.SMTPConfig

	// EventBus is one of sns, kafka or none.
	EventBus            string
	OrderEventsTopicARN string
	KafkaBrokers        []string
	KafkaTopic          string

	UploadBucket    string
	UploadURLExpiry int64

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string

	AWSUseSecrets bool
	AWSSecretName string
}

// secretSource is satisfied by the Secrets Manager client.
type secretSource interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

type envReader struct {
	defaults map[string]string
}

// get returns the environment value, then the config file value, then fallback.
func (r envReader) get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if val, ok := r.defaults[key]; ok && val != "" {
		return val
	}
	return fallback
}

func (r envReader) bool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(r.get(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

func (r envReader) int(key string, fallback int) (int, error) {
	raw := r.get(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

// LoadConfig reads .env, an optional YAML file named by CONFIG_FILE and the environment.
// Environment variables win over the file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	defaults, err := loadConfigFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	r := envReader{defaults: defaults}

	cfg := &Config{
		Port:     r.get("PORT", "8095"),
		Env:      r.get("APP_ENV", "development"),
		LogLevel: r.get("LOG_LEVEL", "info"),
		LogFile:  r.get("LOG_FILE", ""),
		Timezone: r.get("TIMEZONE", "UTC"),
		Postgres: database.PostgresConfig{
			Host:     r.get("POSTGRES_HOST", ""),
			Port:     r.get("POSTGRES_PORT", "5432"),
			User:     r.get("POSTGRES_USER", ""),
			Password: r.get("POSTGRES_PASSWORD", ""),
			DBName:   r.get("POSTGRES_DB", ""),
			SSLMode:  r.get("POSTGRES_SSLMODE", "disable"),
			TimeZone: r.get("POSTGRES_TIMEZONE", "UTC"),
		},
		RedisURL:     r.get("REDIS_URL", ""),
		JWTSecret:    r.get("JWT_SECRET", ""),
		CORSOrigins:  splitList(r.get("CORS_ORIGINS", "")),
		FrontendURL:  r.get("FRONTEND_URL", "http://localhost:3000"),
		ReminderTime: r.get("REMINDER_TIME", "10:00"),
		SummaryTime:  r.get("RESTAURANT_SUMMARY_TIME", "11:00"),
		TaskToken:    r.get("TASK_TRIGGER_TOKEN", ""),
		TaskQueueURL: r.get("TASK_QUEUE_URL", ""),
		WhatsApp: sender.WhatsAppConfig{
			APIURL:        r.get("WHATSAPP_API_URL", "https://graph.facebook.com"),
			APIVersion:    r.get("WHATSAPP_API_VERSION", "v18.0"),
			PhoneNumberID: r.get("WHATSAPP_PHONE_NUMBER_ID", ""),
			Token:         r.get("WHATSAPP_API_TOKEN", ""),
		},
		SMTP: sender.SMTPConfig{
			Host:     r.get("SMTP_HOST", ""),
			Port:     r.get("SMTP_PORT", "587"),
			Username: r.get("SMTP_USER", ""),
			Password: r.get("SMTP_PASS", ""),
			From:     r.get("FROM_EMAIL", ""),
		},
		EventBus:            strings.ToLower(r.get("EVENT_BUS", "none")),
		OrderEventsTopicARN: r.get("ORDER_EVENTS_TOPIC_ARN", ""),
		KafkaBrokers:        splitList(r.get("KAFKA_BROKERS", "")),
		KafkaTopic:          r.get("KAFKA_TOPIC", "meal-orders"),
		UploadBucket:        r.get("UPLOAD_BUCKET", ""),
		CloudWatchEnabled:   r.bool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: r.get("CLOUDWATCH_NAMESPACE", "MealService"),
		CloudWatchLogGroup:  r.get("CLOUDWATCH_LOG_GROUP", "/meal-service"),
		SchedulerEnabled:    r.bool("SCHEDULER_ENABLED", false),
		AWSUseSecrets:       r.bool("AWS_USE_SECRETS", false),
		AWSSecretName:       r.get("AWS_SECRET_NAME", "meal-service/credentials"),
	}

	if cfg.RateLimitPerMinute, err = r.int("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	expiry, err := r.int("UPLOAD_URL_EXPIRY", 900)
	if err != nil {
		return nil, err
	}
	cfg.UploadURLExpiry = int64(expiry)
	if cfg.ReminderDaysAhead, err = parseDaysAhead(r.get("REMINDER_DAYS_AHEAD", "1,2,3")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplySecrets overrides credentials with the JSON secret when running on AWS.
// Keys use the same names as the environment variables.
func (c *Config) ApplySecrets(ctx context.Context, src secretSource) error {
	m, err := src.GetSecretMap(ctx, c.AWSSecretName)
	if err != nil {
		return fmt.Errorf("failed to read secret %s: %w", c.AWSSecretName, err)
	}
	overrides := map[string]*string{
		"POSTGRES_USER":            &c.Postgres.User,
		"POSTGRES_PASSWORD":        &c.Postgres.Password,
		"POSTGRES_DB":              &c.Postgres.DBName,
		"POSTGRES_HOST":            &c.Postgres.Host,
		"POSTGRES_PORT":            &c.Postgres.Port,
		"JWT_SECRET":               &c.JWTSecret,
		"TASK_TRIGGER_TOKEN":       &c.TaskToken,
		"WHATSAPP_API_TOKEN":       &c.WhatsApp.Token,
		"WHATSAPP_PHONE_NUMBER_ID": &c.WhatsApp.PhoneNumberID,
		"SMTP_USER":                &c.SMTP.Username,
		"SMTP_PASS":                &c.SMTP.Password,
	}
	for key, field := range overrides {
		if v, ok := m[key]; ok && v != "" {
			*field = v
		}
	}
	return nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" || c.Postgres.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	switch c.EventBus {
	case "none":
	case "sns":
		if c.OrderEventsTopicARN == "" {
			return fmt.Errorf("EVENT_BUS=sns requires ORDER_EVENTS_TOPIC_ARN")
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("EVENT_BUS=kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("EVENT_BUS must be one of sns, kafka, none, got %q", c.EventBus)
	}
	return nil
}

// WhatsAppConfigured reports whether reminders can be sent.
func (c *Config) WhatsAppConfigured() bool {
	return c.WhatsApp.Token != "" && c.WhatsApp.PhoneNumberID != ""
}

// SMTPConfigured reports whether summary e-mails can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != ""
}

func loadConfigFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return values, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDaysAhead(raw string) ([]int, error) {
	var days []int
	for _, part := range splitList(raw) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("REMINDER_DAYS_AHEAD must be positive integers, got %q", raw)
		}
		days = append(days, n)
	}
	return days, nil
}
