package postgres

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config carries the discrete connection settings the deployment exposes.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string

	// SSLMode is a libpq sslmode value (disable, require, verify-full...).
	SSLMode string
	// RootCert is an optional PEM CA bundle for managed databases that
	// hand the CA out as an env blob instead of a file.
	RootCert string
}

func (c Config) dsn() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, c Config) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(c.dsn())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	if c.RootCert != "" {
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM([]byte(c.RootCert)) {
			return nil, fmt.Errorf("db root cert: no PEM certificates found")
		}
		cfg.ConnConfig.TLSConfig = &tls.Config{
			RootCAs:    roots,
			ServerName: c.Host,
		}
	}
	return open(ctx, cfg)
}

// NewDSN opens a pool from a ready-made connection string.
func NewDSN(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	return open(ctx, cfg)
}

func open(ctx context.Context, cfg *pgxpool.Config) (*DB, error) {
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := &DB{Pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() { db.Pool.Close() }
