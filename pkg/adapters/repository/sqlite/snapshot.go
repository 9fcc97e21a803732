package sqlite

import (
	"context"
	"database/sql"

	"github.com/nateepat/applink/pkg/core/domain"
)

// ExportSnapshot reads every collection for a full-database backup.
func (r *Repository) ExportSnapshot(ctx context.Context) (*domain.SnapshotData, error) {
	data := &domain.SnapshotData{
		Users:     []domain.User{},
		Apps:      []domain.App{},
		Campaigns: []domain.Campaign{},
		Visits:    []domain.Visit{},
		Settings:  []domain.Settings{},
	}

	users, err := r.exportUsers(ctx)
	if err != nil {
		return nil, err
	}
	data.Users = users

	apps, err := r.ListPublicApps(ctx)
	if err != nil {
		return nil, err
	}
	data.Apps = append(data.Apps, apps...)

	campaigns, err := r.exportCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	data.Campaigns = campaigns

	visits, err := r.exportVisits(ctx)
	if err != nil {
		return nil, err
	}
	data.Visits = visits

	settings, err := r.exportSettings(ctx)
	if err != nil {
		return nil, err
	}
	data.Settings = settings

	return data, nil
}

func (r *Repository) exportUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, name, picture, created_at FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) exportCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	query := `SELECT id, app_id, name, utm_source, utm_medium, utm_campaign,
			utm_term, utm_content, created_at
		  FROM campaigns`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []domain.Campaign{}
	for rows.Next() {
		var (
			c domain.Campaign

			source, medium, name, term, content sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.AppID, &c.Name, &source, &medium, &name, &term, &content, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.UTMSource = fromNull(source)
		c.UTMMedium = fromNull(medium)
		c.UTMCampaign = fromNull(name)
		c.UTMTerm = fromNull(term)
		c.UTMContent = fromNull(content)
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *Repository) exportVisits(ctx context.Context) ([]domain.Visit, error) {
	query := `SELECT id, app_id, timestamp, device_type, user_agent, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, country, city
		  FROM visits`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *visit)
	}
	return visits, rows.Err()
}

func (r *Repository) exportSettings(ctx context.Context) ([]domain.Settings, error) {
	query := `SELECT owner_id, site_title, site_description, show_admin_link FROM settings`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := []domain.Settings{}
	for rows.Next() {
		var s domain.Settings
		if err := rows.Scan(&s.OwnerID, &s.SiteTitle, &s.SiteDescription, &s.ShowAdminLink); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// ImportSnapshot replaces every collection with the snapshot contents
// in a single transaction. A failure at any point rolls back, leaving
// the store exactly as it was.
func (r *Repository) ImportSnapshot(ctx context.Context, data *domain.SnapshotData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Children first on delete, parents first on insert.
	for _, table := range []string{"visits", "campaigns", "settings", "apps", "users"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for i := range data.Users {
		u := &data.Users[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, name, picture, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Name, u.Picture, u.CreatedAt.UTC(),
		); err != nil {
			return err
		}
	}

	for i := range data.Apps {
		a := &data.Apps[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO apps (`+appColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.OwnerID, a.Slug, a.Name, a.Description, a.LogoURL,
			a.AndroidURL, a.IOSURL, a.FallbackURL, a.OGTitle, a.OGDescription,
			a.OGImage, a.GA4PropertyID, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
		); err != nil {
			return err
		}
	}

	for i := range data.Campaigns {
		c := &data.Campaigns[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO campaigns (id, app_id, name, utm_source, utm_medium,
				utm_campaign, utm_term, utm_content, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.AppID, c.Name,
			nullable(c.UTMSource), nullable(c.UTMMedium), nullable(c.UTMCampaign),
			nullable(c.UTMTerm), nullable(c.UTMContent), c.CreatedAt.UTC(),
		); err != nil {
			return err
		}
	}

	// Visit IDs are preserved so re-exports stay stable.
	for i := range data.Visits {
		v := &data.Visits[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO visits (id, app_id, timestamp, device_type, user_agent, referrer,
				utm_source, utm_medium, utm_campaign, utm_term, utm_content, country, city)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.AppID, v.Timestamp.UTC(), string(v.DeviceType), v.UserAgent,
			nullable(v.Referrer), nullable(v.UTMSource), nullable(v.UTMMedium),
			nullable(v.UTMCampaign), nullable(v.UTMTerm), nullable(v.UTMContent),
			nullable(v.Country), nullable(v.City),
		); err != nil {
			return err
		}
	}

	for i := range data.Settings {
		s := &data.Settings[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (owner_id, site_title, site_description, show_admin_link)
			 VALUES (?, ?, ?, ?)`,
			s.OwnerID, s.SiteTitle, s.SiteDescription, s.ShowAdminLink,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
