package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the service.
type Config struct {
	AppPort       string
	APIPrefix     string
	JWTSecret     string
	StoreDriver   string // postgres, sqlite, mongo or memory
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string
	RabbitMQURL   string // empty disables account events
	CORSOrigins   string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3001")
	v.SetDefault("API_PREFIX", "/api/users")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=akun port=5432 sslmode=disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "akun")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	} else if err == nil {
		log.Println("Loaded environment from file")
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v and checks the required keys.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:       v.GetString("APP_PORT"),
		APIPrefix:     v.GetString("API_PREFIX"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		StoreDriver:   v.GetString("STORE_DRIVER"),
		DatabaseDSN:   v.GetString("DATABASE_DSN"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		CORSOrigins:   v.GetString("CORS_ORIGINS"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	switch cfg.StoreDriver {
	case "postgres", "sqlite", "mongo", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
