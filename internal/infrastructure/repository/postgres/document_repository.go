package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	domain TEXT NOT NULL UNIQUE,
	billing_name TEXT NOT NULL DEFAULT '',
	billing_address TEXT NOT NULL DEFAULT '',
	billing_postal_code TEXT NOT NULL DEFAULT '',
	billing_city TEXT NOT NULL DEFAULT '',
	billing_country TEXT NOT NULL DEFAULT '',
	billing_vat_number TEXT NOT NULL DEFAULT '',
	billing_email TEXT NOT NULL DEFAULT '',
	document_workflow_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	organization_id TEXT REFERENCES organizations(id),
	pending_organization_id TEXT REFERENCES organizations(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_organization ON users(organization_id);
CREATE INDEX IF NOT EXISTS idx_users_pending_organization ON users(pending_organization_id);

CREATE TABLE IF NOT EXISTS koopovereenkomsten (
	id TEXT PRIMARY KEY,
	naam TEXT NOT NULL,
	pdf_base64 TEXT NOT NULL,
	status TEXT NOT NULL,
	json_data JSONB NOT NULL DEFAULT '{}'::jsonb,
	error_message TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_koopovereenkomsten_user ON koopovereenkomsten(user_id);
CREATE INDEX IF NOT EXISTS idx_koopovereenkomsten_created_at ON koopovereenkomsten(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Koopovereenkomst) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO koopovereenkomsten (
	id, naam, pdf_base64, status, json_data, error_message, user_id, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		doc.ID, doc.Naam, doc.PDFBase64, string(doc.Status), []byte(doc.JSONData),
		doc.ErrorMessage, doc.UserID, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert koopovereenkomst: %w", err)
	}
	return nil
}

// GetByID returns the full record including the pdf payload, with the author
// joined in so callers can enforce organization scoping.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Koopovereenkomst, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT d.id, d.naam, d.pdf_base64, d.status, d.json_data, d.error_message, d.user_id,
       u.id, u.name, u.email, COALESCE(u.organization_id, ''),
       d.created_at, d.updated_at
FROM koopovereenkomsten d
JOIN users u ON u.id = d.user_id
WHERE d.id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get koopovereenkomst", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan koopovereenkomst: %w", err)
	}
	return doc, nil
}

// ListByOrganization returns every record whose author belongs to the given
// organization. The pdf payload is deliberately left out of the projection.
func (r *DocumentRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Koopovereenkomst, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT d.id, d.naam, '', d.status, d.json_data, d.error_message, d.user_id,
       u.id, u.name, u.email, COALESCE(u.organization_id, ''),
       d.created_at, d.updated_at
FROM koopovereenkomsten d
JOIN users u ON u.id = d.user_id
WHERE u.organization_id = $1
ORDER BY d.created_at DESC
`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list koopovereenkomsten: %w", err)
	}
	defer rows.Close()

	var docs []domain.Koopovereenkomst
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan koopovereenkomst row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate koopovereenkomsten: %w", err)
	}
	return docs, nil
}

// Update applies the non-nil fields and returns the updated record. Concurrent
// writers race under last-write-wins; there is no version column.
func (r *DocumentRepository) Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Koopovereenkomst, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	args = append(args, id)

	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.JSONData != nil {
		args = append(args, []byte(update.JSONData))
		sets = append(sets, fmt.Sprintf("json_data = $%d", len(args)))
	}
	if update.ErrorMessage != nil {
		args = append(args, *update.ErrorMessage)
		sets = append(sets, fmt.Sprintf("error_message = $%d", len(args)))
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE koopovereenkomsten SET %s WHERE id = $1`, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update koopovereenkomst: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update koopovereenkomst rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "update koopovereenkomst", fmt.Errorf("id %s", id))
	}
	return r.GetByID(ctx, id)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM koopovereenkomsten WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete koopovereenkomst: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete koopovereenkomst rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete koopovereenkomst", fmt.Errorf("id %s", id))
	}
	return nil
}

// DatabaseSize reports the size of the current database in bytes. Used as a
// best-effort capacity probe before accepting new uploads.
func (r *DocumentRepository) DatabaseSize(ctx context.Context) (int64, error) {
	var size int64
	err := r.db.QueryRowContext(ctx, `SELECT pg_database_size(current_database())`).Scan(&size)
	if err != nil {
		return 0, fmt.Errorf("query database size: %w", err)
	}
	return size, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Koopovereenkomst, error) {
	var doc domain.Koopovereenkomst
	var status string
	var jsonData []byte

	err := row.Scan(
		&doc.ID, &doc.Naam, &doc.PDFBase64, &status, &jsonData, &doc.ErrorMessage, &doc.UserID,
		&doc.Author.ID, &doc.Author.Name, &doc.Author.Email, &doc.Author.OrganizationID,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatus(status)
	doc.JSONData = jsonData
	return &doc, nil
}
