package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"shopassist/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS chat_interactions (
	id               BIGSERIAL PRIMARY KEY,
	session_id       TEXT NOT NULL,
	query            TEXT NOT NULL,
	intent           TEXT NOT NULL,
	confidence       INTEGER NOT NULL,
	entities         JSONB NOT NULL,
	result_count     INTEGER NOT NULL DEFAULT 0,
	response_time_ms INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS chat_feedback (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL,
	rating     INTEGER NOT NULL,
	comment    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS price_alerts (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	query      TEXT NOT NULL,
	keywords   JSONB NOT NULL,
	max_price  INTEGER,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_alerts_session ON price_alerts (session_id);
`

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
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

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

// Migrate creates the tables the assistant writes to
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// LogInteraction logs a classified chat turn
func (r *PostgresRepository) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	query := `
		INSERT INTO chat_interactions (session_id, query, intent, confidence, entities, result_count, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		interaction.SessionID,
		interaction.Query,
		string(interaction.Intent),
		interaction.Confidence,
		interaction.Entities,
		interaction.ResultCount,
		interaction.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil
}

// LogFeedback stores a user rating
func (r *PostgresRepository) LogFeedback(ctx context.Context, sessionID string, rating int, comment string) error {
	query := `INSERT INTO chat_feedback (session_id, rating, comment) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, sessionID, rating, comment); err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}

// SavePriceAlert stores a price alert, replacing one with the same id
func (r *PostgresRepository) SavePriceAlert(ctx context.Context, alert *model.PriceAlert) error {
	query := `
		INSERT INTO price_alerts (id, session_id, query, keywords, max_price, created_at)
		VALUES (:id, :session_id, :query, :keywords, :max_price, :created_at)
		ON CONFLICT (id) DO UPDATE
		SET keywords = EXCLUDED.keywords, max_price = EXCLUDED.max_price
	`
	if _, err := r.db.NamedExecContext(ctx, query, alert); err != nil {
		return fmt.Errorf("failed to save price alert: %w", err)
	}
	return nil
}

// ListPriceAlerts returns a session's alerts, newest first
func (r *PostgresRepository) ListPriceAlerts(ctx context.Context, sessionID string) ([]model.PriceAlert, error) {
	query := `
		SELECT id, session_id, query, keywords, max_price, created_at
		FROM price_alerts
		WHERE session_id = $1
		ORDER BY created_at DESC
	`
	alerts := []model.PriceAlert{}
	if err := r.db.SelectContext(ctx, &alerts, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list price alerts: %w", err)
	}
	return alerts, nil
}

// IntentStats counts logged interactions per intent, most frequent first
func (r *PostgresRepository) IntentStats(ctx context.Context, since time.Time) ([]model.IntentCount, error) {
	query := `
		SELECT intent, COUNT(*) AS count
		FROM chat_interactions
		WHERE created_at >= $1
		GROUP BY intent
		ORDER BY count DESC, intent
	`
	stats := []model.IntentCount{}
	if err := r.db.SelectContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("failed to load intent stats: %w", err)
	}
	return stats, nil
}
