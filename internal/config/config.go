package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the Karinderya backend.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	App      AppConfig      `yaml:"app"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`
}

// AppConfig holds restaurant business settings.
type AppConfig struct {
	OpeningHour      int   `yaml:"opening_hour"`
	ClosingHour      int   `yaml:"closing_hour"`
	DeliveryFeeCents int64 `yaml:"delivery_fee_cents"`
}

// Load reads configuration from a YAML file, then applies environment
// variable overrides. A .env file in the working directory is honored.
func Load(filename string) (*Config, error) {
	// Missing .env is fine, environment may already be populated.
	_ = godotenv.Load()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for section headers
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Parse key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config.applyEnvOverrides()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setValue sets a configuration value based on section and key.
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "database":
		return c.setDatabaseValue(key, value)
	case "server":
		return c.setServerValue(key, value)
	case "app":
		return c.setAppValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setServerValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Server.Port = port
	case "jwt_secret":
		c.Server.JWTSecret = value
	default:
		return fmt.Errorf("unknown server key: %s", key)
	}
	return nil
}

func (c *Config) setAppValue(key, value string) error {
	switch key {
	case "opening_hour":
		hour, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hour value: %w", err)
		}
		c.App.OpeningHour = hour
	case "closing_hour":
		hour, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hour value: %w", err)
		}
		c.App.ClosingHour = hour
	case "delivery_fee_cents":
		fee, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid fee value: %w", err)
		}
		c.App.DeliveryFeeCents = fee
	default:
		return fmt.Errorf("unknown app key: %s", key)
	}
	return nil
}

// applyEnvOverrides lets deployment environments override file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Database = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
}

func (c *Config) validate() error {
	if c.App.OpeningHour < 0 || c.App.OpeningHour > 23 {
		return fmt.Errorf("app.opening_hour must be between 0 and 23")
	}
	if c.App.ClosingHour < 0 || c.App.ClosingHour > 23 {
		return fmt.Errorf("app.closing_hour must be between 0 and 23")
	}
	if c.App.OpeningHour > c.App.ClosingHour {
		return fmt.Errorf("app.opening_hour must not be after app.closing_hour")
	}
	if c.App.DeliveryFeeCents < 0 {
		return fmt.Errorf("app.delivery_fee_cents must not be negative")
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}
