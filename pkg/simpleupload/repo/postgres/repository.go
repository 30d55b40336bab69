// Package postgres provides a PostgreSQL upload-history repository.
//
// Expected schema (schema name "upload"):
//
//	CREATE TABLE upload.uploads (
//	    id          UUID PRIMARY KEY,
//	    bucket      TEXT NOT NULL,
//	    object_key  TEXT NOT NULL,
//	    acl         TEXT NOT NULL DEFAULT '',
//	    source_type TEXT NOT NULL,
//	    source      TEXT NOT NULL,
//	    public_url  TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-upload/pkg/simpleupload/repo"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements repo.Repository using PostgreSQL.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository.
func New(db DBTX) repo.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool.
func NewWithPool(pool *pgxpool.Pool) repo.Repository {
	return &Repository{db: pool}
}

func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("upload already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrUploadNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateUpload(ctx context.Context, record *repo.Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO upload.uploads (id, bucket, object_key, acl, source_type, source, public_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		record.ID,
		record.Bucket,
		record.ObjectKey,
		record.ACL,
		record.SourceType,
		record.Source,
		record.PublicURL,
	).Scan(&record.CreatedAt)
	if err != nil {
		return handlePostgresError("CreateUpload", err)
	}

	return nil
}

func (r *Repository) GetUpload(ctx context.Context, id uuid.UUID) (*repo.Record, error) {
	query := `
		SELECT id, bucket, object_key, acl, source_type, source, public_url, created_at
		FROM upload.uploads
		WHERE id = $1`

	var record repo.Record
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Bucket,
		&record.ObjectKey,
		&record.ACL,
		&record.SourceType,
		&record.Source,
		&record.PublicURL,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, handlePostgresError("GetUpload", err)
	}

	return &record, nil
}

func (r *Repository) ListUploads(ctx context.Context, params repo.ListParams) ([]*repo.Record, error) {
	query := `
		SELECT id, bucket, object_key, acl, source_type, source, public_url, created_at
		FROM upload.uploads
		WHERE ($1 = '' OR bucket = $1)
		ORDER BY created_at DESC`

	args := []interface{}{params.Bucket}
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, params.Limit)
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, params.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("ListUploads", err)
	}
	defer rows.Close()

	var records []*repo.Record
	for rows.Next() {
		var record repo.Record
		if err := rows.Scan(
			&record.ID,
			&record.Bucket,
			&record.ObjectKey,
			&record.ACL,
			&record.SourceType,
			&record.Source,
			&record.PublicURL,
			&record.CreatedAt,
		); err != nil {
			return nil, handlePostgresError("ListUploads", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("ListUploads", err)
	}

	return records, nil
}
