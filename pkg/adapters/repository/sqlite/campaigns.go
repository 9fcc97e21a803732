package sqlite

import (
	"context"
	"database/sql"

	"github.com/nateepat/applink/pkg/core/domain"
)

func (r *Repository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `INSERT INTO campaigns (id, app_id, name, utm_source, utm_medium,
			utm_campaign, utm_term, utm_content, created_at)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return r.execContext(ctx, query,
		campaign.ID, campaign.AppID, campaign.Name,
		nullable(campaign.UTMSource), nullable(campaign.UTMMedium), nullable(campaign.UTMCampaign),
		nullable(campaign.UTMTerm), nullable(campaign.UTMContent), campaign.CreatedAt.UTC(),
	)
}

func (r *Repository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `SELECT id, app_id, name, utm_source, utm_medium, utm_campaign,
			utm_term, utm_content, created_at
		  FROM campaigns WHERE id = ?`

	var (
		c domain.Campaign

		source, medium, name, term, content sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.AppID, &c.Name, &source, &medium, &name, &term, &content, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.UTMSource = fromNull(source)
	c.UTMMedium = fromNull(medium)
	c.UTMCampaign = fromNull(name)
	c.UTMTerm = fromNull(term)
	c.UTMContent = fromNull(content)
	return &c, nil
}

// ListCampaigns returns the owner's campaigns newest first, optionally
// restricted to one app. An empty appID means all of the owner's apps.
func (r *Repository) ListCampaigns(ctx context.Context, ownerID, appID string) ([]domain.Campaign, error) {
	query := `SELECT c.id, c.app_id, c.name, c.utm_source, c.utm_medium, c.utm_campaign,
			c.utm_term, c.utm_content, c.created_at
		  FROM campaigns c
		  JOIN apps a ON a.id = c.app_id
		  WHERE a.owner_id = ?`
	args := []any{ownerID}

	if appID != "" {
		query += ` AND c.app_id = ?`
		args = append(args, appID)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
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

func (r *Repository) DeleteCampaign(ctx context.Context, id string) error {
	return r.execContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
}
