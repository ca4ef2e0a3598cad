package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "EVENT_LOG_TABLE", "STATIC_USER_IDENTIFIER", "RABBITMQ_ENABLED", "DB_CONN_MAX_LIFETIME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.EventLogTable != "crash_event_log" {
		t.Errorf("Expected default table crash_event_log, got %s", cfg.EventLogTable)
	}
	if cfg.StaticUserIdentifier != "telematics_service" {
		t.Errorf("Expected default identity telematics_service, got %s", cfg.StaticUserIdentifier)
	}
	if !cfg.RabbitMQEnabled {
		t.Error("Expected RabbitMQ to be enabled by default")
	}
	if cfg.DBConnMaxLifetime != 5*time.Minute {
		t.Errorf("Expected 5m connection lifetime, got %v", cfg.DBConnMaxLifetime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration should be valid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STATIC_USER_IDENTIFIER", "fleet_gateway")
	t.Setenv("RABBITMQ_ENABLED", "false")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.StaticUserIdentifier != "fleet_gateway" {
		t.Errorf("Expected identity fleet_gateway, got %s", cfg.StaticUserIdentifier)
	}
	if cfg.RabbitMQEnabled {
		t.Error("Expected RabbitMQ to be disabled")
	}
	if cfg.DBConnMaxLifetime != 90*time.Second {
		t.Errorf("Expected 90s connection lifetime, got %v", cfg.DBConnMaxLifetime)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Errorf("Expected fallback of 25 open connections, got %d", cfg.DBMaxOpenConns)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(*Config)
		shouldFail bool
	}{
		{
			name:       "Valid",
			mutate:     func(*Config) {},
			shouldFail: false,
		},
		{
			name:       "Blank identity",
			mutate:     func(c *Config) { c.StaticUserIdentifier = "   " },
			shouldFail: true,
		},
		{
			name:       "Table name with quote",
			mutate:     func(c *Config) { c.EventLogTable = "logs`; DROP TABLE x" },
			shouldFail: true,
		},
		{
			name:       "Non numeric port",
			mutate:     func(c *Config) { c.Port = "http" },
			shouldFail: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				EventLogTable:        "crash_event_log",
				StaticUserIdentifier: "telematics_service",
				Port:                 "8080",
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.shouldFail != (err != nil) {
				t.Errorf("Expected failure: %v, got error: %v", tc.shouldFail, err)
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "server",
		DBPassword: "secret",
		DBHost:     "db",
		DBPort:     "3306",
		DBName:     "telematics",
	}

	expected := "server:secret@tcp(db:3306)/telematics?parseTime=true"
	if dsn := cfg.MySQLDSN(); dsn != expected {
		t.Errorf("Expected %s, got %s", expected, dsn)
	}
}
