package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new insight record.
func (r *PostgresRepository) Create(ctx context.Context, in *Insight) error {
	query := `
		INSERT INTO insights (user_id, file_id, prompt, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, in.UserID, in.FileID, in.Prompt, in.Data).
		Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting insight: %w", err)
	}

	return nil
}

// GetByID retrieves a single insight by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Insight, error) {
	query := `
		SELECT id, user_id, file_id, prompt, data, created_at
		FROM insights
		WHERE id = $1`

	var in Insight
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&in.ID, &in.UserID, &in.FileID, &in.Prompt, &in.Data, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsightNotFound
		}
		return nil, fmt.Errorf("querying insight: %w", err)
	}

	return &in, nil
}

// ListByFile retrieves every insight generated for one file, newest first.
func (r *PostgresRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]Insight, error) {
	query := `
		SELECT id, user_id, file_id, prompt, data, created_at
		FROM insights
		WHERE file_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	defer rows.Close()

	var insights []Insight
	for rows.Next() {
		var in Insight
		err := rows.Scan(&in.ID, &in.UserID, &in.FileID, &in.Prompt, &in.Data, &in.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning insight row: %w", err)
		}
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insight rows: %w", err)
	}

	if insights == nil {
		insights = []Insight{}
	}

	return insights, nil
}

// Delete removes an insight by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting insight: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInsightNotFound
	}
	return nil
}
