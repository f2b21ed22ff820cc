package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/pep299/cv-generator/internal/cv"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type postgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresRepository opens the database, applies pending migrations and
// returns a repository backed by the documents table
func NewPostgresRepository(ctx context.Context, dsn string) (DocumentRepository, error) {
	if err := Migrate(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &postgresRepository{db: db, now: time.Now}, nil
}

// Migrate applies the embedded schema migrations
func Migrate(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (r *postgresRepository) Save(ctx context.Context, doc *cv.Document) error {
	profile, err := json.Marshal(doc.Profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO documents (id, profile, markdown, model, created_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
        profile = EXCLUDED.profile,
        markdown = EXCLUDED.markdown,
        model = EXCLUDED.model,
        expires_at = EXCLUDED.expires_at
    `, doc.ID, profile, doc.Markdown, doc.Model, doc.CreatedAt, nullTime(doc.ExpiresAt))
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*cv.Document, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, profile, markdown, model, created_at, expires_at
        FROM documents
        WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)
    `, id, r.now())

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	return doc, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]*cv.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, profile, markdown, model, created_at, expires_at
        FROM documents
        WHERE expires_at IS NULL OR expires_at > $1
        ORDER BY created_at DESC
    `, r.now())
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*cv.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *postgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deleting expired documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted documents: %w", err)
	}
	return int(n), nil
}

func (r *postgresRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*cv.Document, error) {
	var (
		doc       cv.Document
		profile   []byte
		expiresAt sql.NullTime
	)
	if err := s.Scan(&doc.ID, &profile, &doc.Markdown, &doc.Model, &doc.CreatedAt, &expiresAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profile, &doc.Profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	if expiresAt.Valid {
		doc.ExpiresAt = expiresAt.Time
	}
	return &doc, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
