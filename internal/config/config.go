package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Sheet fetcher drivers
const (
	SheetsDriverGoogle = "google"
	SheetsDriverXLSX   = "xlsx"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Sheets   SheetsConfig
	Sync     SyncConfig
	Log      LogConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	DBName     string
	SSLMode    string
	TestDBName string // Separate database for testing
}

// MongoConfig holds the document store configuration
type MongoConfig struct {
	URI      string
	Database string
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// SheetsConfig holds the spreadsheet provider configuration
type SheetsConfig struct {
	Driver          string
	CredentialsFile string
	CredentialsJSON string
	APIKey          string
	Endpoint        string // Overrides the provider endpoint, mostly for tests
	Range           string
	Timeout         time.Duration
	XLSXDir         string
}

// SyncConfig holds the periodic sync configuration
type SyncConfig struct {
	Schedule string // cron spec, empty disables the scheduler
}

// LogConfig holds the logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables.
// Values from a .env file in the working directory are applied first
// without overriding variables that are already set.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			Username:   getEnv("DB_USERNAME", "postgres"),
			Password:   getEnv("DB_PASSWORD", "password"),
			DBName:     getEnv("DB_NAME", "sheettables"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			TestDBName: getEnv("TEST_DB_NAME", "sheettables_test"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "sheettables"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "your-secret-key-here"),
			TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		},
		Sheets: SheetsConfig{
			Driver:          strings.ToLower(getEnv("SHEETS_DRIVER", SheetsDriverGoogle)),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			CredentialsJSON: strings.ReplaceAll(getEnv("GOOGLE_CREDENTIALS_JSON", ""), `\n`, "\n"),
			APIKey:          getEnv("GOOGLE_API_KEY", ""),
			Endpoint:        getEnv("SHEETS_ENDPOINT", ""),
			Range:           getEnv("SHEETS_RANGE", "Sheet1"),
			Timeout:         getEnvAsDuration("SHEETS_TIMEOUT", 15*time.Second),
			XLSXDir:         getEnv("XLSX_DIR", "./sheets"),
		},
		Sync: SyncConfig{
			Schedule: getEnv("SYNC_SCHEDULE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate checks the values that cannot be defaulted sensibly
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Sheets.Driver {
	case SheetsDriverGoogle, SheetsDriverXLSX:
	default:
		return fmt.Errorf("unknown SHEETS_DRIVER %q", c.Sheets.Driver)
	}

	if strings.TrimSpace(c.Sheets.Range) == "" {
		return fmt.Errorf("SHEETS_RANGE must not be empty")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
