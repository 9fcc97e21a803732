package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/nateepat/applink/pkg/core/domain"
)

func (r *Repository) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	query := `INSERT INTO visits (app_id, timestamp, device_type, user_agent, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, country, city)
		  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		visit.AppID, visit.Timestamp.UTC(), string(visit.DeviceType), visit.UserAgent,
		nullable(visit.Referrer), nullable(visit.UTMSource), nullable(visit.UTMMedium),
		nullable(visit.UTMCampaign), nullable(visit.UTMTerm), nullable(visit.UTMContent),
		nullable(visit.Country), nullable(visit.City),
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	visit.ID = id
	return nil
}

func (r *Repository) ListVisits(ctx context.Context, appID string, from, to time.Time) ([]domain.Visit, error) {
	query := `SELECT id, app_id, timestamp, device_type, user_agent, referrer,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content, country, city
		  FROM visits
		  WHERE app_id = ? AND timestamp >= ? AND timestamp < ?
		  ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, appID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, *visit)
	}
	return visits, rows.Err()
}

func scanVisit(rows *sql.Rows) (*domain.Visit, error) {
	var (
		v          domain.Visit
		deviceType string

		referrer, utmSource, utmMedium, utmCampaign,
		utmTerm, utmContent, country, city sql.NullString
	)
	if err := rows.Scan(
		&v.ID, &v.AppID, &v.Timestamp, &deviceType, &v.UserAgent, &referrer,
		&utmSource, &utmMedium, &utmCampaign, &utmTerm, &utmContent, &country, &city,
	); err != nil {
		return nil, err
	}

	v.DeviceType = domain.DeviceType(deviceType)
	v.Referrer = fromNull(referrer)
	v.UTMSource = fromNull(utmSource)
	v.UTMMedium = fromNull(utmMedium)
	v.UTMCampaign = fromNull(utmCampaign)
	v.UTMTerm = fromNull(utmTerm)
	v.UTMContent = fromNull(utmContent)
	v.Country = fromNull(country)
	v.City = fromNull(city)
	return &v, nil
}

// CountVisits counts an owner's visits in [from, to), across all of
// their apps.
func (r *Repository) CountVisits(ctx context.Context, ownerID string, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*)
		  FROM visits v
		  JOIN apps a ON a.id = v.app_id
		  WHERE a.owner_id = ? AND v.timestamp >= ? AND v.timestamp < ?`

	var count int64
	err := r.db.QueryRowContext(ctx, query, ownerID, from.UTC(), to.UTC()).Scan(&count)
	return count, err
}

// TopApps ranks the owner's apps by visit count since the given time.
// Ties order however SQLite returns them; callers must not rely on a
// particular tie-break.
func (r *Repository) TopApps(ctx context.Context, ownerID string, since time.Time, limit int) ([]domain.TopApp, error) {
	query := `SELECT a.id, a.name, a.slug, COUNT(v.id) AS clicks
		  FROM visits v
		  JOIN apps a ON a.id = v.app_id
		  WHERE a.owner_id = ? AND v.timestamp >= ?
		  GROUP BY a.id, a.name, a.slug
		  ORDER BY clicks DESC
		  LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, ownerID, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.TopApp{}
	for rows.Next() {
		var t domain.TopApp
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Clicks); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
