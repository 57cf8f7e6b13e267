package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id                TEXT PRIMARY KEY,
	installation_slug TEXT NOT NULL,
	category          TEXT NOT NULL,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	address           TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	hours             TEXT NOT NULL DEFAULT '',
	sort_index        INTEGER NOT NULL,
	synced_at         TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_owner
	ON resources (installation_slug, sort_index);
`

// SQLite is the sqlite-backed store.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLite)(nil)

// Open opens (creating if needed) a sqlite store at path. ":memory:" gives
// an ephemeral store.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapStore("open", "", err)
	}
	// The sync loop is sequential and the driver serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapStore("open", "", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListOwnedBy returns an installation's records ordered by sort index.
func (s *SQLite) ListOwnedBy(ctx context.Context, slug string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, installation_slug, category, name, description,
		       phone, address, website, hours, sort_index, synced_at
		FROM resources
		WHERE installation_slug = ?
		ORDER BY sort_index`, slug)
	if err != nil {
		return nil, errors.WrapStore("list", slug, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var r Record
		var category string
		if err := rows.Scan(&r.ID, &r.InstallationSlug, &category, &r.Name,
			&r.Description, &r.Phone, &r.Address, &r.Website, &r.Hours,
			&r.SortIndex, &r.SyncedAt); err != nil {
			return nil, errors.WrapStore("list", slug, err)
		}
		r.Category = extractor.Category(category)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("list", slug, err)
	}
	return records, nil
}

// DeleteAllOwnedBy removes every record owned by an installation.
func (s *SQLite) DeleteAllOwnedBy(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM resources WHERE installation_slug = ?`, slug); err != nil {
		return errors.WrapStore("delete", slug, err)
	}
	return nil
}

// InsertBatch inserts records for an installation in extraction order.
func (s *SQLite) InsertBatch(ctx context.Context, slug string, resources []extractor.Resource) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStore("insert", slug, err)
	}
	if err := insertTx(ctx, tx, slug, resources, s.now()); err != nil {
		_ = tx.Rollback()
		return errors.WrapStore("insert", slug, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapStore("insert", slug, err)
	}
	return nil
}

// Replace swaps an installation's record set inside one transaction, so a
// failed insert leaves the prior records in place.
func (s *SQLite) Replace(ctx context.Context, slug string, resources []extractor.Resource) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStore("replace", slug, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM resources WHERE installation_slug = ?`, slug); err != nil {
		_ = tx.Rollback()
		return errors.WrapStore("replace", slug, err)
	}
	if err := insertTx(ctx, tx, slug, resources, s.now()); err != nil {
		_ = tx.Rollback()
		return errors.WrapStore("replace", slug, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.WrapStore("replace", slug, err)
	}
	return nil
}

// insertTx inserts a batch within an open transaction, assigning zero-based
// sort indexes in slice order.
func insertTx(ctx context.Context, tx *sql.Tx, slug string, resources []extractor.Resource, syncedAt time.Time) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resources
			(id, installation_slug, category, name, description,
			 phone, address, website, hours, sort_index, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, res := range resources {
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), slug, string(res.Category), res.Name,
			res.Description, res.Phone, res.Address, res.Website,
			res.Hours, i, syncedAt); err != nil {
			return err
		}
	}
	return nil
}
