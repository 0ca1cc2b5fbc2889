package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application settings (read through Viper from env and optional files).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Upload  UploadConfig
	Mail    MailConfig
	Docs    DocsConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsDevelopment reports whether the app runs with developer defaults.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig PostgreSQL settings.
// When DatabaseURL is set it is used verbatim.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString returns DATABASE_URL when defined, otherwise the DSN built from the parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a postgres URL, escaping special characters in the credentials.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// SessionConfig cookie session and API token settings.
type SessionConfig struct {
	Secret       string
	IdleTimeout  time.Duration
	CookieName   string
	CookieSecure bool
	Issuer       string
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UploadConfig staging area for stock imports.
type UploadConfig struct {
	Dir      string
	MaxBytes int
}

// MailConfig SMTP settings for the emailed stock report. An empty Host disables mail.
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	Recipient string
}

// Enabled reports whether enough is configured to send mail.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && c.Recipient != ""
}

// DocsConfig location of the OpenAPI document served at /docs.
type DocsConfig struct {
	FilePath string
}

// Load reads configuration from env vars and, optionally, .env / config.env files.
// Env vars take precedence. Expected names: APP_ENV, DB_HOST, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "yarn-inventory"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "yarn_inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		Session: SessionConfig{
			Secret:       getString(v, "SESSION_SECRET", ""),
			IdleTimeout:  time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 10)) * time.Minute,
			CookieName:   getString(v, "SESSION_COOKIE_NAME", "yarn_session"),
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
			Issuer:       getString(v, "TOKEN_ISSUER", "yarn-inventory"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Upload: UploadConfig{
			Dir:      getString(v, "UPLOAD_DIR", os.TempDir()),
			MaxBytes: getInt(v, "UPLOAD_MAX_MB", 5) * 1024 * 1024,
		},
		Mail: MailConfig{
			Host:      getString(v, "SMTP_HOST", ""),
			Port:      getInt(v, "SMTP_PORT", 587),
			User:      getString(v, "SMTP_USER", ""),
			Password:  getString(v, "SMTP_PASSWORD", ""),
			From:      getString(v, "MAIL_FROM", ""),
			Recipient: getString(v, "REPORT_RECIPIENT", ""),
		},
		Docs: DocsConfig{
			FilePath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
		},
	}

	if cfg.Session.Secret == "" && cfg.App.IsDevelopment() {
		cfg.Session.Secret = "dev-only-session-secret"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_MINUTES must be positive"))
	}
	if c.DB.MaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_MB must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
