package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config centralises runtime configuration. It is constructed once at
// startup and read-only afterwards; the JWT secret must never be logged.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTIssuer        string        `env:"JWT_ISSUER" envDefault:"devconnector"`
	RegisterTokenTTL time.Duration `env:"REGISTER_TOKEN_TTL" envDefault:"24h"`
	LoginTokenTTL    time.Duration `env:"LOGIN_TOKEN_TTL" envDefault:"2h"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"12"`
	AllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	ReadTimeoutSec   int           `env:"HTTP_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSec  int           `env:"HTTP_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSec   int           `env:"HTTP_IDLE_TIMEOUT" envDefault:"60"`
}

// Load reads configuration from the environment, honouring a local .env file.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.HTTPPort == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPPort = port
		} else {
			cfg.HTTPPort = "8080"
		}
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.RegisterTokenTTL <= 0 || cfg.LoginTokenTTL <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf(".env line %d: missing '='", lineNum)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "" {
			return fmt.Errorf(".env line %d: empty key", lineNum)
		}

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		// Process environment wins over .env entries.
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf(".env line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}
