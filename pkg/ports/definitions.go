package ports

import (
	"context"
	"time"

	"github.com/nateepat/applink/pkg/core/domain"
)

// Repository defines storage operations for the whole model. Lookups
// return (nil, nil) when the row does not exist; services translate
// that into domain.ErrNotFound.
type Repository interface {
	// Users
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Apps
	CreateApp(ctx context.Context, app *domain.App) error
	GetAppByID(ctx context.Context, id string) (*domain.App, error)
	GetAppBySlug(ctx context.Context, slug string) (*domain.App, error)
	ListAppsByOwner(ctx context.Context, ownerID string) ([]domain.App, error)
	ListPublicApps(ctx context.Context) ([]domain.App, error)
	UpdateApp(ctx context.Context, app *domain.App) error
	DeleteApp(ctx context.Context, id string) error // Cascades visits and campaigns

	// Visits
	RecordVisit(ctx context.Context, visit *domain.Visit) error
	ListVisits(ctx context.Context, appID string, from, to time.Time) ([]domain.Visit, error)
	CountVisits(ctx context.Context, ownerID string, from, to time.Time) (int64, error)
	TopApps(ctx context.Context, ownerID string, since time.Time, limit int) ([]domain.TopApp, error)

	// Campaigns
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) error
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, ownerID, appID string) ([]domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error

	// Settings
	GetSettings(ctx context.Context, ownerID string) (*domain.Settings, error)
	FirstSettings(ctx context.Context) (*domain.Settings, error) // For the public showcase
	UpsertSettings(ctx context.Context, settings *domain.Settings) error

	// Snapshot (bulk export/import; import is one all-or-nothing tx)
	ExportSnapshot(ctx context.Context) (*domain.SnapshotData, error)
	ImportSnapshot(ctx context.Context, data *domain.SnapshotData) error
}

// GeoProvider resolves an IP address to a country/city, best effort.
// Callers bound it with a context deadline and absorb every failure.
type GeoProvider interface {
	Lookup(ctx context.Context, ip string) (*domain.GeoLocation, error)
}

// PropertyRef pairs an app with its analytics property for batch
// realtime lookups.
type PropertyRef struct {
	AppID      string
	PropertyID string
}

// RealtimeProvider reports "active users now" from an external
// analytics service. An unconfigured provider is a valid state, not an
// error: Configured() gates it and ActiveUsers returns an unconfigured
// report.
type RealtimeProvider interface {
	Configured() bool
	ActiveUsers(ctx context.Context, propertyID string) (*domain.RealtimeReport, error)
	ActiveUsersBatch(ctx context.Context, refs []PropertyRef) []domain.BatchRealtimeEntry
}

// RedirectService resolves a slug into a redirect decision, logging
// the visit before returning. Unknown slug → domain.ErrNotFound.
type RedirectService interface {
	Resolve(ctx context.Context, slug string, signals domain.Signals) (*domain.Decision, error)
}

// AppService defines owner-scoped app CRUD.
type AppService interface {
	Create(ctx context.Context, ownerID string, app *domain.App) (*domain.App, error)
	Get(ctx context.Context, ownerID, id string) (*domain.App, error)
	List(ctx context.Context, ownerID string) ([]domain.App, error)
	Update(ctx context.Context, ownerID, id string, app *domain.App) (*domain.App, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// CampaignService defines owner-scoped campaign CRUD.
type CampaignService interface {
	Create(ctx context.Context, ownerID string, campaign *domain.Campaign) (*domain.Campaign, error)
	List(ctx context.Context, ownerID, appID string) ([]domain.Campaign, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// SettingsService reads and upserts the per-owner settings singleton.
type SettingsService interface {
	Get(ctx context.Context, ownerID string) (*domain.Settings, error)
	Update(ctx context.Context, ownerID string, settings *domain.Settings) (*domain.Settings, error)
}

// AnalyticsService computes dashboard and per-app statistics and
// proxies realtime active-user lookups.
type AnalyticsService interface {
	Dashboard(ctx context.Context, ownerID string) (*domain.DashboardStats, error)
	AppStats(ctx context.Context, ownerID, appID string, rng string) (*domain.AppStats, error)
	Realtime(ctx context.Context, propertyID string) (*domain.RealtimeReport, error)
	BatchRealtime(ctx context.Context, ownerID string, appIDs []string) ([]domain.BatchRealtimeEntry, error)
}

// AdminService handles the full-database snapshot export/import.
type AdminService interface {
	Export(ctx context.Context) (*domain.Snapshot, error)
	Import(ctx context.Context, snapshot *domain.Snapshot) error
}
