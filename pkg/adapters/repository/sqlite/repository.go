package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbURL string) (*Repository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Repository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		picture TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS apps (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		android_url TEXT NOT NULL DEFAULT '',
		ios_url TEXT NOT NULL DEFAULT '',
		fallback_url TEXT NOT NULL DEFAULT '',
		og_title TEXT NOT NULL DEFAULT '',
		og_description TEXT NOT NULL DEFAULT '',
		og_image TEXT NOT NULL DEFAULT '',
		ga4_property_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(owner_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_apps_slug ON apps(slug);
	CREATE INDEX IF NOT EXISTS idx_apps_owner ON apps(owner_id);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		app_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		device_type TEXT NOT NULL,
		user_agent TEXT NOT NULL DEFAULT '',
		referrer TEXT,
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		utm_term TEXT,
		utm_content TEXT,
		country TEXT,
		city TEXT,
		FOREIGN KEY(app_id) REFERENCES apps(id)
	);
	CREATE INDEX IF NOT EXISTS idx_visits_app_id ON visits(app_id);
	CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);

	CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		app_id TEXT NOT NULL,
		name TEXT NOT NULL,
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		utm_term TEXT,
		utm_content TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(app_id) REFERENCES apps(id)
	);
	CREATE INDEX IF NOT EXISTS idx_campaigns_app_id ON campaigns(app_id);

	CREATE TABLE IF NOT EXISTS settings (
		owner_id TEXT PRIMARY KEY,
		site_title TEXT NOT NULL,
		site_description TEXT NOT NULL,
		show_admin_link INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(owner_id) REFERENCES users(id)
	);
	`
	_, err := db.Exec(query)
	return err
}

// mapConstraintErr converts a slug/email uniqueness violation into the
// domain conflict error so handlers can answer 409 instead of 500.
func mapConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint") {
		return domain.ErrConflict
	}
	return err
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNull(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

func (r *Repository) execContext(ctx context.Context, query string, args ...any) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Ensure interface compliance
var _ ports.Repository = (*Repository)(nil)
