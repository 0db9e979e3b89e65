package file

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

// Create inserts a new file metadata record.
func (r *PostgresRepository) Create(ctx context.Context, f *File) error {
	query := `
		INSERT INTO files (user_id, name, extension, mime_type, size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, f.UserID, f.Name, f.Extension, f.MimeType, f.Size).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}

	return nil
}

// GetByID retrieves a single file by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*File, error) {
	query := `
		SELECT id, user_id, name, extension, mime_type, size, created_at, updated_at
		FROM files
		WHERE id = $1`

	var f File
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&f.ID, &f.UserID, &f.Name, &f.Extension, &f.MimeType, &f.Size, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("querying file: %w", err)
	}

	return &f, nil
}

// ListByUser retrieves one owner's files, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]File, error) {
	query := `
		SELECT id, user_id, name, extension, mime_type, size, created_at, updated_at
		FROM files
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing files by user: %w", err)
	}
	return scanFiles(rows)
}

// ListAll retrieves files across all owners, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context, limit, offset int) ([]File, error) {
	query := `
		SELECT id, user_id, name, extension, mime_type, size, created_at, updated_at
		FROM files
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return scanFiles(rows)
}

// Count returns the total number of files.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return count, nil
}

// CountByUser returns the number of files owned by one user.
func (r *PostgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting files by user: %w", err)
	}
	return count, nil
}

// Delete removes a file metadata row by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFileNotFound
	}
	return nil
}

func scanFiles(rows pgx.Rows) ([]File, error) {
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Extension, &f.MimeType, &f.Size, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file rows: %w", err)
	}

	if files == nil {
		files = []File{}
	}

	return files, nil
}
