package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config structure represents the application configuration.
// Priority: environment > YAML file > env-default tags.
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
		Mode            string        `yaml:"mode" env:"SERVER_MODE" env-default:"development"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	} `yaml:"server"`

	Database struct {
		Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
		Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
		User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
		Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
		DBName          string        `yaml:"dbname" env:"DB_NAME" env-default:"placementportal"`
		SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
		MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"20"`
		MinConns        int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"2"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
		AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	} `yaml:"database"`

	JWT struct {
		Secret     string        `yaml:"secret" env:"JWT_SECRET"`
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"24h"`
		Issuer     string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"placementportal"`
	} `yaml:"jwt"`

	Email struct {
		// Provider is one of smtp, sendgrid or log
		Provider       string `yaml:"provider" env:"EMAIL_PROVIDER" env-default:"log"`
		From           string `yaml:"from" env:"EMAIL_FROM" env-default:"no-reply@placementportal.local"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME" env-default:"Placement Portal"`
		SMTPHost       string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort       int    `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
		SMTPUser       string `yaml:"smtp_user" env:"SMTP_USER"`
		SMTPPassword   string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	} `yaml:"email"`

	Frontend struct {
		URL string `yaml:"url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	} `yaml:"frontend"`

	Redis struct {
		// Addr empty disables the forgot-password limiter
		Addr                 string        `yaml:"addr" env:"REDIS_ADDR"`
		Password             string        `yaml:"password" env:"REDIS_PASSWORD"`
		DB                   int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
		ForgotPasswordLimit  int           `yaml:"forgot_password_limit" env:"FORGOT_PASSWORD_LIMIT" env-default:"3"`
		ForgotPasswordWindow time.Duration `yaml:"forgot_password_window" env:"FORGOT_PASSWORD_WINDOW" env-default:"15m"`
	} `yaml:"redis"`

	Rollbar struct {
		Token       string `yaml:"token" env:"ROLLBAR_TOKEN"`
		Environment string `yaml:"environment" env:"ROLLBAR_ENV" env-default:"development"`
	} `yaml:"rollbar"`

	Storage struct {
		UploadDir string `yaml:"upload_dir" env:"UPLOAD_DIR" env-default:"./uploads"`
	} `yaml:"storage"`

	ResumeAnalyzer struct {
		URL           string        `yaml:"url" env:"RESUME_ANALYZER_URL" env-default:"http://localhost:5000/analyze"`
		Timeout       time.Duration `yaml:"timeout" env:"RESUME_ANALYZER_TIMEOUT" env-default:"60s"`
		MaxUploadSize int64         `yaml:"max_upload_size" env:"RESUME_MAX_UPLOAD_SIZE" env-default:"5242880"`
	} `yaml:"resume_analyzer"`

	ProfileScraper struct {
		Command string        `yaml:"command" env:"PROFILE_SCRAPER_COMMAND" env-default:"python3"`
		Args    []string      `yaml:"args" env:"PROFILE_SCRAPER_ARGS" env-separator:"," env-default:"scripts/leetcode_scraper.py"`
		Timeout time.Duration `yaml:"timeout" env:"PROFILE_SCRAPER_TIMEOUT" env-default:"30s"`
	} `yaml:"profile_scraper"`

	Sessions struct {
		ReapInterval time.Duration `yaml:"reap_interval" env:"SESSION_REAP_INTERVAL" env-default:"1m"`
	} `yaml:"sessions"`

	Seed struct {
		// AdminEmail empty skips admin creation
		AdminName     string `yaml:"admin_name" env:"ADMIN_NAME" env-default:"Administrator"`
		AdminEmail    string `yaml:"admin_email" env:"ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
		// SheetPath is a YAML DSA sheet imported on start when set
		SheetPath string `yaml:"sheet_path" env:"DSA_SHEET_PATH"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, a YAML file and
// environment variables. A missing YAML file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if len(config.JWT.Secret) < 16 {
		return fmt.Errorf("JWT secret is required and must be at least 16 characters")
	}

	if config.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT expiration must be positive")
	}

	switch config.Email.Provider {
	case "log", "smtp", "sendgrid":
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}
	if config.Email.Provider == "sendgrid" && config.Email.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid api key is required for the sendgrid provider")
	}
	if config.Email.Provider == "smtp" && config.Email.SMTPHost == "" {
		return fmt.Errorf("smtp host is required for the smtp provider")
	}

	if _, err := url.ParseRequestURI(config.Frontend.URL); err != nil {
		return fmt.Errorf("invalid frontend url: %w", err)
	}

	if config.Sessions.ReapInterval <= 0 {
		return fmt.Errorf("session reap interval must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}
