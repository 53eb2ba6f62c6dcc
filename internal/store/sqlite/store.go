// Package sqlite provides a SQLite-backed device store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/specmatrix/internal/model"
	"github.com/ppiankov/specmatrix/internal/store"
	"github.com/ppiankov/specmatrix/internal/store/sqlite/migrations"
)

// Store persists device records in SQLite
type Store struct {
	sqlDB *sql.DB
}

var _ store.DeviceStore = (*Store)(nil)

// Open opens a SQLite device store and applies embedded migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const selectColumns = `SELECT category, slug, model_name, release_date, specs FROM devices`

// GetBySlug returns one device or store.ErrNotFound
func (s *Store) GetBySlug(ctx context.Context, category model.Category, slug string) (model.Device, error) {
	if err := ctx.Err(); err != nil {
		return model.Device{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE category = ? AND slug = ?`, string(category), slug)
	d, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Device{}, fmt.Errorf("%w: %s/%s", store.ErrNotFound, category, slug)
	}
	if err != nil {
		return model.Device{}, fmt.Errorf("get device: %w", err)
	}
	return d, nil
}

// ListByCategory returns every device of a category, newest release first
func (s *Store) ListByCategory(ctx context.Context, category model.Category) ([]model.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		selectColumns+` WHERE category = ? ORDER BY release_key DESC, model_name ASC`,
		string(category),
	)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return collect(rows)
}

// SearchByName matches a case-insensitive substring of model_name
func (s *Store) SearchByName(ctx context.Context, category model.Category, text string, limit int) ([]model.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		selectColumns+` WHERE category = ? AND lower(model_name) LIKE ? ESCAPE '\'
		 ORDER BY release_key DESC, model_name ASC
		 LIMIT ?`,
		string(category),
		"%"+escapeLike(strings.ToLower(strings.TrimSpace(text)))+"%",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search devices: %w", err)
	}
	return collect(rows)
}

// Upsert inserts or replaces devices in one transaction
func (s *Store) Upsert(ctx context.Context, devices []model.Device) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO devices (category, slug, model_name, release_date, release_key, specs, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (category, slug) DO UPDATE SET
		  model_name = excluded.model_name,
		  release_date = excluded.release_date,
		  release_key = excluded.release_key,
		  specs = excluded.specs,
		  updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, d := range devices {
		if d.Slug == "" || !d.Category.Valid() {
			return 0, fmt.Errorf("device %q: slug and a known category are required", d.Slug)
		}
		specs := []byte("{}")
		if d.Specs != nil {
			if specs, err = json.Marshal(d.Specs); err != nil {
				return 0, fmt.Errorf("encode specs for %s: %w", d.Slug, err)
			}
		}
		if _, err := stmt.ExecContext(ctx,
			string(d.Category),
			d.Slug,
			d.DisplayName(),
			d.ReleaseDate,
			model.ReleaseKey(d.ReleaseDate),
			string(specs),
			now,
		); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", d.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(devices), nil
}

// Count returns the number of stored devices per category
func (s *Store) Count(ctx context.Context) (map[model.Category]int, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT category, COUNT(*) FROM devices GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count devices: %w", err)
	}
	defer rows.Close()

	out := make(map[model.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[model.Category(cat)] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(row scanner) (model.Device, error) {
	var (
		cat, slug, name, release string
		specsJSON                string
	)
	if err := row.Scan(&cat, &slug, &name, &release, &specsJSON); err != nil {
		return model.Device{}, err
	}

	category, err := model.ParseCategory(cat)
	if err != nil {
		return model.Device{}, err
	}
	specs, err := model.NewSpecs(category)
	if err != nil {
		return model.Device{}, err
	}
	if err := json.Unmarshal([]byte(specsJSON), specs); err != nil {
		return model.Device{}, fmt.Errorf("decode specs for %s: %w", slug, err)
	}

	return model.Device{
		Slug:        slug,
		Name:        name,
		Category:    category,
		ReleaseDate: release,
		Specs:       specs,
	}, nil
}

func collect(rows *sql.Rows) ([]model.Device, error) {
	defer rows.Close()

	var out []model.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so user text matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
