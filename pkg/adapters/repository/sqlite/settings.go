package sqlite

import (
	"context"
	"database/sql"

	"github.com/nateepat/applink/pkg/core/domain"
)

func (r *Repository) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, name, picture, created_at)
		  VALUES (?, ?, ?, ?, ?)
		  ON CONFLICT(email) DO UPDATE SET name = excluded.name, picture = excluded.picture`

	return r.execContext(ctx, query,
		user.ID, user.Email, user.Name, user.Picture, user.CreatedAt.UTC(),
	)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, name, picture, created_at FROM users WHERE email = ?`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.Picture, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetSettings(ctx context.Context, ownerID string) (*domain.Settings, error) {
	query := `SELECT owner_id, site_title, site_description, show_admin_link
		  FROM settings WHERE owner_id = ?`

	var settings domain.Settings
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&settings.OwnerID, &settings.SiteTitle, &settings.SiteDescription, &settings.ShowAdminLink,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// FirstSettings returns any stored settings row for the public
// showcase. Deployments are effectively single-admin, so "first" is
// unambiguous in practice.
func (r *Repository) FirstSettings(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT owner_id, site_title, site_description, show_admin_link
		  FROM settings LIMIT 1`

	var settings domain.Settings
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.OwnerID, &settings.SiteTitle, &settings.SiteDescription, &settings.ShowAdminLink,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Repository) UpsertSettings(ctx context.Context, settings *domain.Settings) error {
	query := `INSERT INTO settings (owner_id, site_title, site_description, show_admin_link)
		  VALUES (?, ?, ?, ?)
		  ON CONFLICT(owner_id) DO UPDATE SET
			site_title = excluded.site_title,
			site_description = excluded.site_description,
			show_admin_link = excluded.show_admin_link`

	return r.execContext(ctx, query,
		settings.OwnerID, settings.SiteTitle, settings.SiteDescription, settings.ShowAdminLink,
	)
}
