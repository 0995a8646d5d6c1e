package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL          MySQLConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Mail           MailConfig
	ReviewReminder ReviewReminderConfig
	Export         ExportConfig
	Migrate        bool
	HTTPAddr       string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// MailConfig holds outbound mail configuration. Relays are internal SMTP
// hosts used without authentication; the first reachable one wins.
type MailConfig struct {
	Relays     []string
	Port       int
	From       string
	DesignTeam []string
	CITeam     []string
	QueueSize  int
}

// ReviewReminderConfig holds the document review reminder worker configuration
type ReviewReminderConfig struct {
	Enabled      bool
	IntervalHour int
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	Dir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN:          getEnv("MYSQL_DSN", ""),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "go_mes"),
		},
		Mail: MailConfig{
			Relays:     getEnvList("MAIL_RELAYS", nil),
			Port:       getEnvInt("MAIL_PORT", 25),
			From:       getEnv("MAIL_FROM", "mes-portal@factory.local"),
			DesignTeam: getEnvList("MAIL_DESIGN_TEAM", nil),
			CITeam:     getEnvList("MAIL_CI_TEAM", nil),
			QueueSize:  getEnvInt("MAIL_QUEUE_SIZE", 128),
		},
		ReviewReminder: ReviewReminderConfig{
			Enabled:      getEnv("REVIEW_REMINDER_ENABLED", "1") == "1",
			IntervalHour: getEnvInt("REVIEW_REMINDER_INTERVAL_HOUR", 168),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "./exports"),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// LoadFromINI loads configuration from an INI file with environment
// variable override. Priority: ENV > INI > default.
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := getValue(envKey, iniSection, iniKey, ""); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		return defaultValue
	}

	getValueList := func(envKey, iniSection, iniKey string) []string {
		value := getValue(envKey, iniSection, iniKey, "")
		if value == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN:          getValue("MYSQL_DSN", "mysql", "dsn", ""),
			MaxOpenConns: getValueInt("MYSQL_MAX_OPEN_CONNS", "mysql", "max_open_conns", 10),
			MaxIdleConns: getValueInt("MYSQL_MAX_IDLE_CONNS", "mysql", "max_idle_conns", 5),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "password", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "go_mes"),
		},
		Mail: MailConfig{
			Relays:     getValueList("MAIL_RELAYS", "mail", "relays"),
			Port:       getValueInt("MAIL_PORT", "mail", "port", 25),
			From:       getValue("MAIL_FROM", "mail", "from", "mes-portal@factory.local"),
			DesignTeam: getValueList("MAIL_DESIGN_TEAM", "mail", "design_team"),
			CITeam:     getValueList("MAIL_CI_TEAM", "mail", "ci_team"),
			QueueSize:  getValueInt("MAIL_QUEUE_SIZE", "mail", "queue_size", 128),
		},
		ReviewReminder: ReviewReminderConfig{
			Enabled:      getValue("REVIEW_REMINDER_ENABLED", "review_reminder", "enabled", "1") == "1",
			IntervalHour: getValueInt("REVIEW_REMINDER_INTERVAL_HOUR", "review_reminder", "interval_hour", 168),
		},
		Export: ExportConfig{
			Dir: getValue("EXPORT_DIR", "export", "dir", "./exports"),
		},
		Migrate:  getValue("MIGRATE", "app", "migrate", "0") == "1",
		HTTPAddr: getValue("HTTP_ADDR", "app", "http_addr", ":8080"),
	}

	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
