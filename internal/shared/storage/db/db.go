package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"resume-builder/internal/shared/telemetry"
)

const driverName = "pgx"

// Options controls the pool and how hard Connect tries before giving up.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	// ConnectAttempts is the number of pings tried before Connect fails. Values below 1 mean 1.
	ConnectAttempts int
	RetryDelay      time.Duration
}

var openDB = sql.Open

// DefaultServerOptions suits the API process, which may start before Postgres accepts connections.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
		ConnectAttempts: 5,
		RetryDelay:      2 * time.Second,
	}
}

// DefaultMigrateOptions suits the one-shot migrate command.
func DefaultMigrateOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
		ConnectAttempts: 1,
	}
}

// OptionsFromEnv overrides defaults with DB_* variables. Malformed values are logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	ints := map[string]*int{
		"DB_MAX_OPEN_CONNS":   &opts.MaxOpenConns,
		"DB_MAX_IDLE_CONNS":   &opts.MaxIdleConns,
		"DB_CONNECT_ATTEMPTS": &opts.ConnectAttempts,
	}
	for key, dst := range ints {
		if v, ok := envValue(key, strconv.Atoi); ok {
			*dst = v
		}
	}
	durations := map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":  &opts.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME": &opts.ConnMaxIdleTime,
		"DB_PING_TIMEOUT":       &opts.PingTimeout,
		"DB_RETRY_DELAY":        &opts.RetryDelay,
	}
	for key, dst := range durations {
		if v, ok := envValue(key, time.ParseDuration); ok {
			*dst = v
		}
	}
	return opts
}

// Connect opens the pool for databaseURL and pings it, retrying up to opts.ConnectAttempts times.
// The returned *sql.DB is meant to be shared for the life of the process.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	db, err := openDB(driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	attempts := max(opts.ConnectAttempts, 1)
	for attempt := 1; ; attempt++ {
		err = ping(ctx, db, opts.PingTimeout)
		if err == nil {
			break
		}
		if attempt >= attempts {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		telemetry.Info("db.connect_retry", map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(opts.RetryDelay):
		}
	}

	stats := db.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return db, nil
}

func ping(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(pingCtx)
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

func envValue[T any](key string, parse func(string) (T, error)) (T, bool) {
	var zero T
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return zero, false
	}
	val, err := parse(raw)
	if err != nil {
		telemetry.Error("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return zero, false
	}
	return val, true
}
