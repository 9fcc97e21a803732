package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// breakdownLimit is how many buckets each dimension exposes. The UI
// shows five; serving ten leaves headroom without a second query.
const breakdownLimit = 10

// AnalyticsService aggregates stored visits into dashboard and
// per-app statistics, and proxies realtime active-user lookups.
type AnalyticsService struct {
	repo     ports.Repository
	realtime ports.RealtimeProvider
	now      func() time.Time
}

func NewAnalyticsService(repo ports.Repository, realtime ports.RealtimeProvider) *AnalyticsService {
	return &AnalyticsService{repo: repo, realtime: realtime, now: time.Now}
}

// Dashboard returns today/yesterday counts (server-local midnight
// boundaries), the 30-day top-5 leaderboard and the owner's app list.
func (s *AnalyticsService) Dashboard(ctx context.Context, ownerID string) (*domain.DashboardStats, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	today, err := s.repo.CountVisits(ctx, ownerID, startOfToday, startOfTomorrow)
	if err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}
	yesterday, err := s.repo.CountVisits(ctx, ownerID, startOfYesterday, startOfToday)
	if err != nil {
		return nil, fmt.Errorf("count yesterday: %w", err)
	}

	topApps, err := s.repo.TopApps(ctx, ownerID, now.AddDate(0, 0, -30), 5)
	if err != nil {
		return nil, fmt.Errorf("top apps: %w", err)
	}

	apps, err := s.repo.ListAppsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.AppRef, 0, len(apps))
	for _, app := range apps {
		refs = append(refs, domain.AppRef{
			ID:            app.ID,
			Name:          app.Name,
			Slug:          app.Slug,
			GA4PropertyID: app.GA4PropertyID,
		})
	}

	return &domain.DashboardStats{
		TodayVisits:     today,
		YesterdayVisits: yesterday,
		PercentChange:   PercentChange(today, yesterday),
		TopApps:         topApps,
		Apps:            refs,
	}, nil
}

// PercentChange follows dashboard conventions: a zero yesterday maps
// to +100% (or 0% if today is also zero) instead of dividing by zero.
func PercentChange(today, yesterday int64) int {
	if yesterday == 0 {
		if today > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(today-yesterday) / float64(yesterday) * 100))
}

// AppStats computes the per-app totals and dimension breakdowns for
// the requested range preset (7d, 30d, 90d, all).
func (s *AnalyticsService) AppStats(ctx context.Context, ownerID, appID, rng string) (*domain.AppStats, error) {
	app, err := s.repo.GetAppByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if app.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	from, err := rangeStart(now, rng)
	if err != nil {
		return nil, err
	}

	visits, err := s.repo.ListVisits(ctx, appID, from, now)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}

	stats := &domain.AppStats{
		TotalVisits: int64(len(visits)),
		Breakdowns:  make(map[string][]domain.DimensionCount, len(dimensions)),
	}
	for _, dim := range dimensions {
		stats.Breakdowns[dim.name] = countByDimension(visits, dim.accessor, dim.placeholder)
	}
	return stats, nil
}

// dimension pairs a visit field accessor with the placeholder used for
// null/missing values, so one aggregation loop serves every breakdown.
type dimension struct {
	name        string
	placeholder string
	accessor    func(*domain.Visit) *string
}

var dimensions = []dimension{
	{"deviceType", "N/A", func(v *domain.Visit) *string { d := string(v.DeviceType); return &d }},
	{"referrer", "Direct / Unknown", func(v *domain.Visit) *string { return v.Referrer }},
	{"country", "Unknown Location", func(v *domain.Visit) *string { return v.Country }},
	{"city", "Unknown Location", func(v *domain.Visit) *string { return v.City }},
	{"utmSource", "N/A", func(v *domain.Visit) *string { return v.UTMSource }},
	{"utmMedium", "N/A", func(v *domain.Visit) *string { return v.UTMMedium }},
	{"utmCampaign", "N/A", func(v *domain.Visit) *string { return v.UTMCampaign }},
}

// countByDimension groups visits by one field, substituting the
// placeholder for null/empty values, and returns the top buckets
// sorted descending by count. Equal counts order arbitrarily.
func countByDimension(visits []domain.Visit, accessor func(*domain.Visit) *string, placeholder string) []domain.DimensionCount {
	counts := make(map[string]int64)
	for i := range visits {
		label := placeholder
		if v := accessor(&visits[i]); v != nil && *v != "" {
			label = *v
		}
		counts[label]++
	}

	out := make([]domain.DimensionCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, domain.DimensionCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if len(out) > breakdownLimit {
		out = out[:breakdownLimit]
	}
	return out
}

// rangeStart maps a preset to its window start. "all" uses the epoch.
func rangeStart(now time.Time, rng string) (time.Time, error) {
	switch rng {
	case "7d":
		return now.AddDate(0, 0, -7), nil
	case "30d", "":
		return now.AddDate(0, 0, -30), nil
	case "90d":
		return now.AddDate(0, 0, -90), nil
	case "all":
		return time.Unix(0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown range %q", domain.ErrValidation, rng)
	}
}

// Realtime fetches "active users now" for one property. Provider
// failures degrade to an unconfigured report; they never propagate.
func (s *AnalyticsService) Realtime(ctx context.Context, propertyID string) (*domain.RealtimeReport, error) {
	if s.realtime == nil || !s.realtime.Configured() {
		return &domain.RealtimeReport{Configured: false}, nil
	}
	report, err := s.realtime.ActiveUsers(ctx, propertyID)
	if err != nil {
		log.Warn().Err(err).Str("property", propertyID).Msg("realtime analytics fetch failed")
		return &domain.RealtimeReport{Configured: false}, nil
	}
	return report, nil
}

// BatchRealtime resolves property IDs from the owner's own apps (never
// trusting client-provided property IDs) and fans out one lookup per
// property. Per-entry failures are isolated by the provider.
func (s *AnalyticsService) BatchRealtime(ctx context.Context, ownerID string, appIDs []string) ([]domain.BatchRealtimeEntry, error) {
	if s.realtime == nil || !s.realtime.Configured() {
		return []domain.BatchRealtimeEntry{}, nil
	}

	apps, err := s.repo.ListAppsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(appIDs))
	for _, id := range appIDs {
		requested[id] = true
	}

	var refs []ports.PropertyRef
	for _, app := range apps {
		if requested[app.ID] && app.GA4PropertyID != "" {
			refs = append(refs, ports.PropertyRef{AppID: app.ID, PropertyID: app.GA4PropertyID})
		}
	}
	if len(refs) == 0 {
		return []domain.BatchRealtimeEntry{}, nil
	}

	return s.realtime.ActiveUsersBatch(ctx, refs), nil
}
