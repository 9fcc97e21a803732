package sqlite

import (
	"context"
	"database/sql"

	"github.com/nateepat/applink/pkg/core/domain"
)

const appColumns = `id, owner_id, slug, name, description, logo_url, android_url, ios_url,
	fallback_url, og_title, og_description, og_image, ga4_property_id, created_at, updated_at`

func (r *Repository) CreateApp(ctx context.Context, app *domain.App) error {
	query := `INSERT INTO apps (` + appColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.OwnerID, app.Slug, app.Name, app.Description, app.LogoURL,
		app.AndroidURL, app.IOSURL, app.FallbackURL, app.OGTitle, app.OGDescription,
		app.OGImage, app.GA4PropertyID, app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	)
	return mapConstraintErr(err)
}

func (r *Repository) GetAppByID(ctx context.Context, id string) (*domain.App, error) {
	return r.getApp(ctx, `SELECT `+appColumns+` FROM apps WHERE id = ?`, id)
}

func (r *Repository) GetAppBySlug(ctx context.Context, slug string) (*domain.App, error) {
	return r.getApp(ctx, `SELECT `+appColumns+` FROM apps WHERE slug = ?`, slug)
}

func (r *Repository) getApp(ctx context.Context, query string, arg any) (*domain.App, error) {
	var app domain.App
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&app.ID, &app.OwnerID, &app.Slug, &app.Name, &app.Description, &app.LogoURL,
		&app.AndroidURL, &app.IOSURL, &app.FallbackURL, &app.OGTitle, &app.OGDescription,
		&app.OGImage, &app.GA4PropertyID, &app.CreatedAt, &app.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListAppsByOwner returns the owner's apps newest first, each carrying
// its total visit count for the admin list view.
func (r *Repository) ListAppsByOwner(ctx context.Context, ownerID string) ([]domain.App, error) {
	query := `SELECT a.id, a.owner_id, a.slug, a.name, a.description, a.logo_url,
			a.android_url, a.ios_url, a.fallback_url, a.og_title, a.og_description,
			a.og_image, a.ga4_property_id, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM visits v WHERE v.app_id = a.id) AS visit_count
		  FROM apps a
		  WHERE a.owner_id = ?
		  ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.App
	for rows.Next() {
		var app domain.App
		if err := rows.Scan(
			&app.ID, &app.OwnerID, &app.Slug, &app.Name, &app.Description, &app.LogoURL,
			&app.AndroidURL, &app.IOSURL, &app.FallbackURL, &app.OGTitle, &app.OGDescription,
			&app.OGImage, &app.GA4PropertyID, &app.CreatedAt, &app.UpdatedAt, &app.VisitCount,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// ListPublicApps returns every app for the public showcase page.
func (r *Repository) ListPublicApps(ctx context.Context) ([]domain.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.App
	for rows.Next() {
		var app domain.App
		if err := rows.Scan(
			&app.ID, &app.OwnerID, &app.Slug, &app.Name, &app.Description, &app.LogoURL,
			&app.AndroidURL, &app.IOSURL, &app.FallbackURL, &app.OGTitle, &app.OGDescription,
			&app.OGImage, &app.GA4PropertyID, &app.CreatedAt, &app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *Repository) UpdateApp(ctx context.Context, app *domain.App) error {
	query := `UPDATE apps SET slug = ?, name = ?, description = ?, logo_url = ?,
			android_url = ?, ios_url = ?, fallback_url = ?, og_title = ?,
			og_description = ?, og_image = ?, ga4_property_id = ?, updated_at = ?
		  WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		app.Slug, app.Name, app.Description, app.LogoURL, app.AndroidURL, app.IOSURL,
		app.FallbackURL, app.OGTitle, app.OGDescription, app.OGImage, app.GA4PropertyID,
		app.UpdatedAt.UTC(), app.ID,
	)
	return mapConstraintErr(err)
}

// DeleteApp removes the app together with its visits and campaigns.
// Visits are not retained for historical reporting once the app is
// gone; the dashboard only ever aggregates over live apps.
func (r *Repository) DeleteApp(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM visits WHERE app_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE app_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM apps WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}
