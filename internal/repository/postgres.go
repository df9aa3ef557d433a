package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"insights/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresRepository reads market records from PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// LoadRecords returns every record in table, ordered by area then year
func (r *PostgresRepository) LoadRecords(ctx context.Context, table string) ([]model.Record, error) {
	query, err := buildSelectQuery(table)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", table, err)
	}
	return records, nil
}

// buildSelectQuery returns the record query for table. The table name cannot be
// bound as a parameter, so it is checked against a plain identifier pattern.
func buildSelectQuery(table string) (string, error) {
	table = strings.TrimSpace(table)
	if !identifierPattern.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}

	return fmt.Sprintf(`
		SELECT year, area, price, demand,
		       COALESCE(size, 0) AS size,
		       COALESCE(type, '') AS type
		FROM %s
		ORDER BY area, year
	`, table), nil
}
