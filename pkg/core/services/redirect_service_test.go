package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nateepat/applink/pkg/core/domain"
)

const (
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8)"
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

func seedApp(repo *fakeRepo, android, ios, fallback string) {
	repo.apps["app-1"] = &domain.App{
		ID:          "app-1",
		OwnerID:     "owner-1",
		Slug:        "game",
		Name:        "Game",
		AndroidURL:  android,
		IOSURL:      ios,
		FallbackURL: fallback,
	}
}

func TestResolveDecisionTable(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		android    string
		ios        string
		fallback   string
		wantAction domain.Action
		wantURL    string
	}{
		{
			name:       "android device with android url",
			userAgent:  uaAndroid,
			android:    "https://play.example/app",
			ios:        "https://appstore.example/app",
			wantAction: domain.ActionRedirect,
			wantURL:    "https://play.example/app",
		},
		{
			name:       "ios device with ios url",
			userAgent:  uaIPhone,
			android:    "https://play.example/app",
			ios:        "https://appstore.example/app",
			wantAction: domain.ActionRedirect,
			wantURL:    "https://appstore.example/app",
		},
		{
			name:       "android device without android url falls to fallback url",
			userAgent:  uaAndroid,
			ios:        "https://appstore.example/app",
			fallback:   "https://example.com",
			wantAction: domain.ActionRedirect,
			wantURL:    "https://example.com",
		},
		{
			name:       "desktop with fallback url",
			userAgent:  uaDesktop,
			android:    "https://play.example/app",
			fallback:   "https://example.com",
			wantAction: domain.ActionRedirect,
			wantURL:    "https://example.com",
		},
		{
			name:       "desktop without fallback renders page",
			userAgent:  uaDesktop,
			android:    "https://play.example/app",
			wantAction: domain.ActionFallback,
		},
		{
			name:       "no destinations at all renders page",
			userAgent:  uaAndroid,
			wantAction: domain.ActionFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			seedApp(repo, tt.android, tt.ios, tt.fallback)
			svc := NewRedirectService(repo, nil, time.Second)

			decision, err := svc.Resolve(context.Background(), "game", domain.Signals{UserAgent: tt.userAgent})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, decision.Action)
			assert.Equal(t, tt.wantURL, decision.URL)
			require.NotNil(t, decision.App)
			assert.Equal(t, "app-1", decision.App.ID)
		})
	}
}

func TestResolveUnknownSlug(t *testing.T) {
	svc := NewRedirectService(newFakeRepo(), nil, time.Second)

	_, err := svc.Resolve(context.Background(), "nope", domain.Signals{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveRecordsVisitBeforeReturning(t *testing.T) {
	repo := newFakeRepo()
	seedApp(repo, "https://play.example/app", "", "")
	svc := NewRedirectService(repo, nil, time.Second)

	query := url.Values{}
	query.Set("utm_source", "newsletter")
	query.Set("utm_campaign", "launch")

	_, err := svc.Resolve(context.Background(), "game", domain.Signals{
		UserAgent: uaAndroid,
		Referrer:  "https://news.example.com/",
		Query:     query,
	})
	require.NoError(t, err)

	require.Len(t, repo.visits, 1)
	visit := repo.visits[0]
	assert.Equal(t, "app-1", visit.AppID)
	assert.Equal(t, domain.DeviceAndroid, visit.DeviceType)
	require.NotNil(t, visit.Referrer)
	assert.Equal(t, "https://news.example.com/", *visit.Referrer)
	require.NotNil(t, visit.UTMSource)
	assert.Equal(t, "newsletter", *visit.UTMSource)
	require.NotNil(t, visit.UTMCampaign)
	assert.Equal(t, "launch", *visit.UTMCampaign)
	assert.Nil(t, visit.UTMMedium)
	assert.Nil(t, visit.Country)
}

func TestResolveFailedVisitWriteFailsResolve(t *testing.T) {
	repo := newFakeRepo()
	seedApp(repo, "https://play.example/app", "", "")
	svc := NewRedirectService(repo, nil, time.Second)
	repo.err = errors.New("disk full")

	_, err := svc.Resolve(context.Background(), "game", domain.Signals{UserAgent: uaAndroid})
	assert.Error(t, err)
}

func TestResolveGeoHeadersPreferred(t *testing.T) {
	repo := newFakeRepo()
	seedApp(repo, "https://play.example/app", "", "")

	// The geo provider must never be called when headers are present.
	geo := &stubGeo{err: errors.New("should not be called")}
	svc := NewRedirectService(repo, geo, time.Second)

	_, err := svc.Resolve(context.Background(), "game", domain.Signals{
		UserAgent:     uaAndroid,
		CountryHeader: "BR",
		CityHeader:    "S%C3%A3o%20Paulo",
		ForwardedFor:  "203.0.113.9",
	})
	require.NoError(t, err)

	require.Len(t, repo.visits, 1)
	visit := repo.visits[0]
	require.NotNil(t, visit.Country)
	assert.Equal(t, "BR", *visit.Country)
	require.NotNil(t, visit.City)
	assert.Equal(t, "São Paulo", *visit.City)
	assert.Equal(t, 0, geo.calls)
}

func TestResolveGeoLookupFromForwardedFor(t *testing.T) {
	repo := newFakeRepo()
	seedApp(repo, "https://play.example/app", "", "")

	geo := &stubGeo{loc: &domain.GeoLocation{Country: "Germany", City: "Berlin"}}
	svc := NewRedirectService(repo, geo, time.Second)

	_, err := svc.Resolve(context.Background(), "game", domain.Signals{
		UserAgent:    uaAndroid,
		ForwardedFor: "127.0.0.1, 203.0.113.9, 10.0.0.1",
		RemoteAddr:   "127.0.0.1:1234",
	})
	require.NoError(t, err)

	assert.Equal(t, "203.0.113.9", geo.lastIP)
	visit := repo.visits[0]
	require.NotNil(t, visit.Country)
	assert.Equal(t, "Germany", *visit.Country)
	require.NotNil(t, visit.City)
	assert.Equal(t, "Berlin", *visit.City)
}

func TestResolveGeoFailureAbsorbed(t *testing.T) {
	repo := newFakeRepo()
	seedApp(repo, "https://play.example/app", "", "")

	geo := &stubGeo{err: errors.New("timeout")}
	svc := NewRedirectService(repo, geo, 10*time.Millisecond)

	decision, err := svc.Resolve(context.Background(), "game", domain.Signals{
		UserAgent:    uaAndroid,
		ForwardedFor: "203.0.113.9",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionRedirect, decision.Action)

	require.Len(t, repo.visits, 1)
	assert.Nil(t, repo.visits[0].Country)
	assert.Nil(t, repo.visits[0].City)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		signals domain.Signals
		want    string
	}{
		{
			name:    "first public entry wins",
			signals: domain.Signals{ForwardedFor: "203.0.113.9, 198.51.100.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "loopback entries skipped",
			signals: domain.Signals{ForwardedFor: "127.0.0.1, 203.0.113.9"},
			want:    "203.0.113.9",
		},
		{
			name:    "falls back to remote addr",
			signals: domain.Signals{RemoteAddr: "203.0.113.9:443"},
			want:    "203.0.113.9",
		},
		{
			name:    "loopback remote addr yields nothing",
			signals: domain.Signals{RemoteAddr: "127.0.0.1:443"},
			want:    "",
		},
		{
			name:    "garbage forwarded-for ignored",
			signals: domain.Signals{ForwardedFor: "unknown, not-an-ip", RemoteAddr: "203.0.113.9:80"},
			want:    "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clientIP(tt.signals))
		})
	}
}

type stubGeo struct {
	loc    *domain.GeoLocation
	err    error
	lastIP string
	calls  int
}

func (s *stubGeo) Lookup(_ context.Context, ip string) (*domain.GeoLocation, error) {
	s.calls++
	s.lastIP = ip
	if s.err != nil {
		return nil, s.err
	}
	return s.loc, nil
}
