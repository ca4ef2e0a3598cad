package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the crash event service
type Config struct {
	// Database configuration
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBPingMaxWait     time.Duration

	// Event log storage
	EventLogTable        string
	StaticUserIdentifier string

	// Server configuration
	Port            string
	ShutdownTimeout time.Duration

	// RabbitMQ configuration
	RabbitMQEnabled              bool
	AMQPHost                     string
	AMQPPort                     string
	AMQPUser                     string
	AMQPPassword                 string
	RabbitMQExchange             string
	RabbitMQCrashEventRoutingKey string

	// Logging
	LogLevel  string
	LogFormat string
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to read .env file: %v", err)
	}

	config := &Config{
		// Database defaults
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "server"),
		DBPassword:        getEnv("DB_PASSWORD", "secret_app"),
		DBName:            getEnv("DB_NAME", "telematics"),
		DBMaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		DBPingMaxWait:     getDurationEnv("DB_PING_MAX_WAIT", 60*time.Second),

		// Event log defaults
		EventLogTable:        getEnv("EVENT_LOG_TABLE", "crash_event_log"),
		StaticUserIdentifier: getEnv("STATIC_USER_IDENTIFIER", "telematics_service"),

		// Server defaults
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		// RabbitMQ defaults
		RabbitMQEnabled:              getBoolEnv("RABBITMQ_ENABLED", true),
		AMQPHost:                     getEnv("AMQP_HOST", "localhost"),
		AMQPPort:                     getEnv("AMQP_PORT", "5672"),
		AMQPUser:                     getEnv("AMQP_USER", "guest"),
		AMQPPassword:                 getEnv("AMQP_PASSWORD", "guest"),
		RabbitMQExchange:             getEnv("RABBITMQ_EXCHANGE", "crash-events"),
		RabbitMQCrashEventRoutingKey: getEnv("RABBITMQ_CRASH_EVENT_ROUTING_KEY", "crash.logged"),

		// Logging defaults
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return config
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StaticUserIdentifier) == "" {
		return fmt.Errorf("STATIC_USER_IDENTIFIER must not be blank")
	}
	if !tableNameRe.MatchString(c.EventLogTable) {
		return fmt.Errorf("EVENT_LOG_TABLE %q is not a valid table name", c.EventLogTable)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	return nil
}

// GetAMQPURL builds the AMQP connection URL
func (c *Config) GetAMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.AMQPUser, c.AMQPPassword, c.AMQPHost, c.AMQPPort)
}

// MySQLDSN builds the data source name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
