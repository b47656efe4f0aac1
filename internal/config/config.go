package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collaborator driver names.
const (
	DriverCognito  = "cognito"
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration. It is built once
// at startup and passed into the workflow explicitly; nothing reads ambient
// global state after this.
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	AWS struct {
		Region   string `yaml:"region" env:"AWS_REGION"`
		Endpoint string `yaml:"endpoint" env:"AWS_ENDPOINT"`
	} `yaml:"aws"`

	Identity struct {
		Driver     string `yaml:"driver" env:"IDENTITY_DRIVER"`
		UserPoolID string `yaml:"user_pool_id" env:"IDENTITY_USER_POOL_ID"`
	} `yaml:"identity"`

	ProfileStore struct {
		Driver string `yaml:"driver" env:"PROFILE_STORE_DRIVER"`
		Table  string `yaml:"table" env:"PROFILE_STORE_TABLE"`

		Postgres struct {
			Host     string `yaml:"host" env:"DB_HOST"`
			Port     string `yaml:"port" env:"DB_PORT"`
			User     string `yaml:"user" env:"DB_USER"`
			Password string `yaml:"password" env:"DB_PASSWORD"`
			DBName   string `yaml:"dbname" env:"DB_NAME"`
			SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
		} `yaml:"postgres"`
	} `yaml:"profile_store"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.AWS.Region = "us-east-1"

	config.Identity.Driver = DriverMemory

	config.ProfileStore.Driver = DriverMemory
	config.ProfileStore.Table = "user_profiles"
	config.ProfileStore.Postgres.Host = "localhost"
	config.ProfileStore.Postgres.Port = "5432"
	config.ProfileStore.Postgres.User = "postgres"
	config.ProfileStore.Postgres.Password = "postgres"
	config.ProfileStore.Postgres.DBName = "campusgate"
	config.ProfileStore.Postgres.SSLMode = "disable"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Identity.Driver {
	case DriverCognito:
		if config.Identity.UserPoolID == "" {
			return fmt.Errorf("identity user pool id is required for the cognito driver")
		}
		if config.AWS.Region == "" {
			return fmt.Errorf("AWS region is required for the cognito driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown identity driver %q", config.Identity.Driver)
	}

	switch config.ProfileStore.Driver {
	case DriverDynamoDB:
		if config.ProfileStore.Table == "" {
			return fmt.Errorf("profile store table is required for the dynamodb driver")
		}
	case DriverPostgres:
		if config.ProfileStore.Postgres.Host == "" {
			return fmt.Errorf("profile store database host is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown profile store driver %q", config.ProfileStore.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns the profile store postgres DSN.
func (c *Config) GetPostgresConnectionString() string {
	pg := c.ProfileStore.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		sslMode,
	)
}
