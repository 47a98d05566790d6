package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Auth      AuthConfig     `mapstructure:"auth"`
	Google    GoogleConfig   `mapstructure:"google"`
	SMTP      SMTPConfig     `mapstructure:"smtp"`
	JWTSecret string         `mapstructure:"jwtsecret"`
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration. An empty URL selects the
// in-process one-time-code store.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig controls token lifetimes and password hashing.
type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"sessionttl"`
	CodeTTL    time.Duration `mapstructure:"codettl"`
	BcryptCost int           `mapstructure:"bcryptcost"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"clientid"`
	ClientSecret string `mapstructure:"clientsecret"`
	RedirectURL  string `mapstructure:"redirecturl"`
}

// CodeFlowEnabled reports whether the server-side authorization-code flow
// can run. ID-token sign-in only needs ClientID.
func (g GoogleConfig) CodeFlowEnabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type SMTPConfig struct {
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
	Username string `mapstructure:"username"`
	Port     int    `mapstructure:"port"`
	Host     string `mapstructure:"host"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// IsProduction reports whether the server runs with SERVER_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

var envBindings = map[string]string{
	"server.port":         "SERVER_PORT",
	"server.env":          "SERVER_ENV",
	"database.url":        "DATABASE_URL",
	"redis.url":           "REDIS_URL",
	"jwtsecret":           "JWT_SECRET",
	"auth.sessionttl":     "AUTH_SESSION_TTL",
	"auth.codettl":        "AUTH_CODE_TTL",
	"auth.bcryptcost":     "AUTH_BCRYPT_COST",
	"google.clientid":     "GOOGLE_CLIENT_ID",
	"google.clientsecret": "GOOGLE_CLIENT_SECRET",
	"google.redirecturl":  "GOOGLE_REDIRECT_URL",
	"smtp.host":           "SMTP_HOST",
	"smtp.port":           "SMTP_PORT",
	"smtp.username":       "SMTP_USERNAME",
	"smtp.password":       "SMTP_PASSWORD",
	"smtp.from":           "SMTP_FROM",
}

// Load reads .env (if present) into the process environment and builds the
// Config from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded, relying on environment variables")
	}

	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.Printf("using config file: %s", v.ConfigFileUsed())
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	log.Printf("configuration loaded (env=%s port=%s redis=%t smtp=%t google=%t)",
		cfg.Server.Env, cfg.Server.Port, cfg.Redis.URL != "", cfg.SMTP.Enabled(), cfg.Google.ClientID != "")
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("auth.sessionttl", 24*time.Hour)
	v.SetDefault("auth.codettl", 5*time.Minute)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("smtp.port", 587)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.Auth.CodeTTL <= 0 {
		errs = append(errs, errors.New("AUTH_CODE_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST %d out of range [4,31]", c.Auth.BcryptCost))
	}
	return errors.Join(errs...)
}
