package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

const listingColumns = "id, title, listing_type, category, location, price, description, url, created_at"

// PostgresRepository handles database operations
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
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	// Test connection
	if err := db.Ping(); err != nil {
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

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureSchema creates the leads table if it does not exist.
// Listings belong to the main application and are only read here.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id           UUID PRIMARY KEY,
			session_id   TEXT,
			name         TEXT,
			phone        TEXT,
			requirements TEXT,
			location     TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}
	return nil
}

// SearchListings returns active listings matching the filters, newest first
func (r *PostgresRepository) SearchListings(ctx context.Context, filters model.SearchFilters, limit int) ([]model.Listing, error) {
	// Build WHERE clause
	whereClauses := []string{"status = 'active'"}
	args := []interface{}{}
	argIndex := 1

	if filters.Type != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("listing_type = $%d", argIndex))
		args = append(args, string(*filters.Type))
		argIndex++
	}
	if filters.Location != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("location ILIKE $%d", argIndex))
		args = append(args, "%"+*filters.Location+"%")
		argIndex++
	}
	if filters.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filters.MaxPrice)
		argIndex++
	}
	if filters.Category != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("category ILIKE $%d", argIndex))
		args = append(args, "%"+*filters.Category+"%")
		argIndex++
	}

	query := fmt.Sprintf(
		"SELECT %s FROM properties WHERE %s ORDER BY created_at DESC LIMIT $%d",
		listingColumns,
		strings.Join(whereClauses, " AND "),
		argIndex,
	)
	args = append(args, limit)

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	return listings, nil
}

// InsertLead stores a captured lead
func (r *PostgresRepository) InsertLead(ctx context.Context, lead *model.Lead) error {
	query := `
		INSERT INTO leads (id, session_id, name, phone, requirements, location, created_at)
		VALUES (:id, :session_id, :name, :phone, :requirements, :location, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}
