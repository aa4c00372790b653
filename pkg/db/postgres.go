package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Options describes the session database pool. A session service holds a
// handful of keys, so the pool stays small.
type Options struct {
	URL          string
	MaxOpenConns int
	PingTimeout  time.Duration
}

const (
	defaultMaxOpenConns = 4
	defaultPingTimeout  = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	return o
}

// dataSource accepts both URL and key=value connection strings. URLs are
// converted up front so a malformed one fails before any dial.
func dataSource(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("database URL cannot be empty")
	}
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		dsn, err := pq.ParseURL(raw)
		if err != nil {
			return "", fmt.Errorf("invalid database URL: %w", err)
		}
		return dsn, nil
	}
	return raw, nil
}

// Open returns a pool that answered a ping within the timeout.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (*sql.DB, error) {
	opts = opts.withDefaults()
	dsn, err := dataSource(opts.URL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		logger.Errorf("DB: Ping failed after %s: %v", opts.PingTimeout, err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Infof("DB: Connected (max %d connections)", opts.MaxOpenConns)
	return conn, nil
}
