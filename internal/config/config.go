package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config is the process configuration.
type Config struct {
	AppPort            string
	DBDriver           string
	DatabaseDSN        string
	MongoURI           string
	MongoDatabase      string
	JWTSecret          string
	GoogleClientID     string
	RabbitMQURL        string
	RedisAddr          string
	SMTP               SMTPConfig
	S3                 S3Config
	EventStrictPricing bool
	LogLevel           string
	SeedOnStart        bool
	AdminName          string
	AdminEmail         string
	AdminPassword      string
	CORSOrigins        string
}

// SMTPConfig enables order mail when Host is set.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	SenderName string
}

// S3Config enables review image uploads when Bucket is set.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicURL       string
}

// Load reads a .env file if present, then an optional config.yaml from the working
// directory, then the environment, which takes precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "hotfood.db")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "hotfood")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SENDER_NAME", "Hot Food")
	v.SetDefault("AWS_S3_REGION", "ap-south-1")
	v.SetDefault("EVENT_STRICT_PRICING", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("CORS_ORIGINS", "*")
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	port := v.GetString("APP_PORT")
	if port != "" && !strings.Contains(port, ":") {
		port = ":" + port
	}
	cfg := &Config{
		AppPort:        port,
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		MongoURI:       v.GetString("MONGODB_URI"),
		MongoDatabase:  v.GetString("MONGODB_DATABASE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		GoogleClientID: v.GetString("GOOGLE_CLIENT_ID"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		SMTP: SMTPConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetInt("SMTP_PORT"),
			Username:   v.GetString("SMTP_AUTH_EMAIL"),
			Password:   v.GetString("SMTP_AUTH_PASSWORD"),
			From:       v.GetString("SMTP_FROM"),
			SenderName: v.GetString("SMTP_SENDER_NAME"),
		},
		S3: S3Config{
			Region:          v.GetString("AWS_S3_REGION"),
			Bucket:          v.GetString("AWS_S3_BUCKET"),
			AccessKeyID:     v.GetString("AWS_S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_S3_SECRET_ACCESS_KEY"),
			Endpoint:        v.GetString("AWS_S3_ENDPOINT"),
			PublicURL:       v.GetString("AWS_S3_PUBLIC_URL"),
		},
		EventStrictPricing: v.GetBool("EVENT_STRICT_PRICING"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		SeedOnStart:        v.GetBool("SEED_ON_START"),
		AdminName:          v.GetString("ADMIN_NAME"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		CORSOrigins:        v.GetString("CORS_ORIGINS"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %s", c.DBDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required for driver mongo")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
