package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"crash-event-service/config"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
)

const maxPingInterval = 30 * time.Second

// Connect opens the MySQL pool and waits until the server answers a ping,
// backing off exponentially up to cfg.DBPingMaxWait.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if err := waitForPing(ctx, db, cfg.DBPingMaxWait); err != nil {
		db.Close()
		return nil, err
	}

	log.WithFields(log.Fields{
		"host":          cfg.DBHost,
		"database":      cfg.DBName,
		"max_open":      cfg.DBMaxOpenConns,
		"max_idle":      cfg.DBMaxIdleConns,
		"conn_lifetime": cfg.DBConnMaxLifetime.String(),
	}).Info("Established db connection pool")
	return db, nil
}

func waitForPing(ctx context.Context, db *sql.DB, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	waitInterval := time.Second
	for {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		pingErr := db.PingContext(pingCtx)
		cancel()
		if pingErr == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database ping timeout after %v: %w", maxWait, pingErr)
		}
		log.Warnf("Database connection failed, retrying in %v: %v", waitInterval, pingErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitInterval):
		}
		waitInterval *= 2
		if waitInterval > maxPingInterval {
			waitInterval = maxPingInterval
		}
	}
}
