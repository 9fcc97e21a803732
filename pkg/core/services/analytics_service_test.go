package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name      string
		today     int64
		yesterday int64
		want      int
	}{
		{"both zero", 0, 0, 0},
		{"from zero to some", 5, 0, 100},
		{"doubled", 8, 4, 100},
		{"dropped", 3, 4, -25},
		{"to zero", 0, 4, -100},
		{"rounded up", 1, 3, -67},
		{"unchanged", 7, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentChange(tt.today, tt.yesterday))
		})
	}
}

func TestCountByDimension(t *testing.T) {
	ref := strPtr("https://t.co/abc")
	visits := []domain.Visit{
		{Referrer: ref},
		{Referrer: ref},
		{Referrer: ref},
		{Referrer: strPtr("https://news.ycombinator.com/")},
		{Referrer: nil},
		{Referrer: strPtr("")},
	}

	out := countByDimension(visits, func(v *domain.Visit) *string { return v.Referrer }, "Direct / Unknown")

	require.Len(t, out, 3)
	assert.Equal(t, domain.DimensionCount{Label: "https://t.co/abc", Count: 3}, out[0])
	// Nil and empty referrers collapse into the placeholder bucket.
	counts := map[string]int64{}
	for _, c := range out {
		counts[c.Label] = c.Count
	}
	assert.Equal(t, int64(2), counts["Direct / Unknown"])
	assert.Equal(t, int64(1), counts["https://news.ycombinator.com/"])
}

func TestCountByDimensionTruncates(t *testing.T) {
	var visits []domain.Visit
	for i := 0; i < 15; i++ {
		label := string(rune('a' + i))
		visits = append(visits, domain.Visit{Country: &label})
	}

	out := countByDimension(visits, func(v *domain.Visit) *string { return v.Country }, "Unknown Location")
	assert.Len(t, out, breakdownLimit)
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	from, err := rangeStart(now, "7d")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), from)

	from, err = rangeStart(now, "")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), from)

	from, err = rangeStart(now, "all")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0), from)

	_, err = rangeStart(now, "2y")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.Local)

	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Name: "One", Slug: "one", GA4PropertyID: "123"}
	repo.apps["app-2"] = &domain.App{ID: "app-2", OwnerID: "owner-1", Name: "Two", Slug: "two"}
	repo.apps["app-3"] = &domain.App{ID: "app-3", OwnerID: "someone-else", Name: "Other", Slug: "other"}

	addVisit := func(appID string, ts time.Time) {
		repo.visits = append(repo.visits, domain.Visit{AppID: appID, Timestamp: ts})
	}
	addVisit("app-1", now.Add(-time.Hour))    // today
	addVisit("app-1", now.Add(-2*time.Hour))  // today
	addVisit("app-2", now.AddDate(0, 0, -1))  // yesterday
	addVisit("app-3", now.Add(-time.Hour))    // other owner, excluded
	addVisit("app-1", now.AddDate(0, 0, -40)) // outside 30d leaderboard

	svc := NewAnalyticsService(repo, nil)
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TodayVisits)
	assert.Equal(t, int64(1), stats.YesterdayVisits)
	assert.Equal(t, 100, stats.PercentChange)
	require.Len(t, stats.TopApps, 2)
	assert.Equal(t, "app-1", stats.TopApps[0].ID)
	assert.Len(t, stats.Apps, 2)
}

func TestAppStatsOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "one"}

	svc := NewAnalyticsService(repo, nil)

	_, err := svc.AppStats(context.Background(), "intruder", "app-1", "7d")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AppStats(context.Background(), "owner-1", "missing", "7d")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppStatsBreakdowns(t *testing.T) {
	repo := newFakeRepo()
	now := time.Now()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "one"}
	repo.visits = []domain.Visit{
		{AppID: "app-1", Timestamp: now.Add(-time.Hour), DeviceType: domain.DeviceAndroid, Country: strPtr("Germany")},
		{AppID: "app-1", Timestamp: now.Add(-2 * time.Hour), DeviceType: domain.DeviceIOS},
		{AppID: "app-1", Timestamp: now.AddDate(0, 0, -10), DeviceType: domain.DeviceDesktop}, // outside 7d
	}

	svc := NewAnalyticsService(repo, nil)

	stats, err := svc.AppStats(context.Background(), "owner-1", "app-1", "7d")
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalVisits)
	assert.Len(t, stats.Breakdowns["deviceType"], 2)

	countries := map[string]int64{}
	for _, c := range stats.Breakdowns["country"] {
		countries[c.Label] = c.Count
	}
	assert.Equal(t, int64(1), countries["Germany"])
	assert.Equal(t, int64(1), countries["Unknown Location"])
}

// stubRealtime lets tests drive the provider without a network.
type stubRealtime struct {
	configured bool
	report     *domain.RealtimeReport
	err        error
	batch      []domain.BatchRealtimeEntry
	gotRefs    []ports.PropertyRef
}

func (s *stubRealtime) Configured() bool { return s.configured }

func (s *stubRealtime) ActiveUsers(context.Context, string) (*domain.RealtimeReport, error) {
	return s.report, s.err
}

func (s *stubRealtime) ActiveUsersBatch(_ context.Context, refs []ports.PropertyRef) []domain.BatchRealtimeEntry {
	s.gotRefs = refs
	return s.batch
}

func TestRealtimeUnconfigured(t *testing.T) {
	svc := NewAnalyticsService(newFakeRepo(), nil)

	report, err := svc.Realtime(context.Background(), "123")
	require.NoError(t, err)
	assert.False(t, report.Configured)
}

func TestRealtimeProviderErrorAbsorbed(t *testing.T) {
	provider := &stubRealtime{configured: true, err: context.DeadlineExceeded}
	svc := NewAnalyticsService(newFakeRepo(), provider)

	report, err := svc.Realtime(context.Background(), "123")
	require.NoError(t, err)
	assert.False(t, report.Configured)
}

func TestBatchRealtimeResolvesOwnedProperties(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", GA4PropertyID: "111"}
	repo.apps["app-2"] = &domain.App{ID: "app-2", OwnerID: "owner-1"} // no property
	repo.apps["app-3"] = &domain.App{ID: "app-3", OwnerID: "intruder", GA4PropertyID: "333"}

	provider := &stubRealtime{
		configured: true,
		batch:      []domain.BatchRealtimeEntry{{AppID: "app-1", ActiveUsers: 7}},
	}
	svc := NewAnalyticsService(repo, provider)

	entries, err := svc.BatchRealtime(context.Background(), "owner-1", []string{"app-1", "app-2", "app-3"})
	require.NoError(t, err)
	assert.Equal(t, provider.batch, entries)

	// Only the owner's app with a property survives the filter; the
	// other owner's property is never requested.
	require.Len(t, provider.gotRefs, 1)
	assert.Equal(t, ports.PropertyRef{AppID: "app-1", PropertyID: "111"}, provider.gotRefs[0])
}

func strPtr(s string) *string { return &s }
