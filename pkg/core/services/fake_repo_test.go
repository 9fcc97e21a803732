package services

import (
	"context"
	"sort"
	"time"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// fakeRepo is an in-memory ports.Repository for service tests. Error
// injection goes through the err field: once set, every call fails.
type fakeRepo struct {
	users     map[string]*domain.User
	apps      map[string]*domain.App
	visits    []domain.Visit
	campaigns map[string]*domain.Campaign
	settings  map[string]*domain.Settings
	nextVisit int64
	err       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[string]*domain.User{},
		apps:      map[string]*domain.App{},
		campaigns: map[string]*domain.Campaign{},
		settings:  map[string]*domain.Settings{},
		nextVisit: 1,
	}
}

func (f *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	u := *user
	f.users[user.Email] = &u
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) CreateApp(_ context.Context, app *domain.App) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.apps {
		if existing.Slug == app.Slug {
			return domain.ErrConflict
		}
	}
	copied := *app
	f.apps[app.ID] = &copied
	return nil
}

func (f *fakeRepo) GetAppByID(_ context.Context, id string) (*domain.App, error) {
	if f.err != nil {
		return nil, f.err
	}
	if app, ok := f.apps[id]; ok {
		copied := *app
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetAppBySlug(_ context.Context, slug string) (*domain.App, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, app := range f.apps {
		if app.Slug == slug {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListAppsByOwner(_ context.Context, ownerID string) ([]domain.App, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.App
	for _, app := range f.apps {
		if app.OwnerID == ownerID {
			copied := *app
			for _, v := range f.visits {
				if v.AppID == app.ID {
					copied.VisitCount++
				}
			}
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListPublicApps(_ context.Context) ([]domain.App, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.App
	for _, app := range f.apps {
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) UpdateApp(_ context.Context, app *domain.App) error {
	if f.err != nil {
		return f.err
	}
	copied := *app
	f.apps[app.ID] = &copied
	return nil
}

func (f *fakeRepo) DeleteApp(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.apps, id)
	var kept []domain.Visit
	for _, v := range f.visits {
		if v.AppID != id {
			kept = append(kept, v)
		}
	}
	f.visits = kept
	for cid, c := range f.campaigns {
		if c.AppID == id {
			delete(f.campaigns, cid)
		}
	}
	return nil
}

func (f *fakeRepo) RecordVisit(_ context.Context, visit *domain.Visit) error {
	if f.err != nil {
		return f.err
	}
	visit.ID = f.nextVisit
	f.nextVisit++
	f.visits = append(f.visits, *visit)
	return nil
}

func (f *fakeRepo) ListVisits(_ context.Context, appID string, from, to time.Time) ([]domain.Visit, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Visit
	for _, v := range f.visits {
		if v.AppID == appID && !v.Timestamp.Before(from) && v.Timestamp.Before(to) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountVisits(_ context.Context, ownerID string, from, to time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, v := range f.visits {
		app, ok := f.apps[v.AppID]
		if !ok || app.OwnerID != ownerID {
			continue
		}
		if !v.Timestamp.Before(from) && v.Timestamp.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) TopApps(_ context.Context, ownerID string, since time.Time, limit int) ([]domain.TopApp, error) {
	if f.err != nil {
		return nil, f.err
	}
	clicks := map[string]int64{}
	for _, v := range f.visits {
		app, ok := f.apps[v.AppID]
		if !ok || app.OwnerID != ownerID || v.Timestamp.Before(since) {
			continue
		}
		clicks[v.AppID]++
	}
	out := []domain.TopApp{}
	for id, n := range clicks {
		app := f.apps[id]
		out = append(out, domain.TopApp{ID: id, Name: app.Name, Slug: app.Slug, Clicks: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) CreateCampaign(_ context.Context, campaign *domain.Campaign) error {
	if f.err != nil {
		return f.err
	}
	copied := *campaign
	f.campaigns[campaign.ID] = &copied
	return nil
}

func (f *fakeRepo) GetCampaign(_ context.Context, id string) (*domain.Campaign, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListCampaigns(_ context.Context, ownerID, appID string) ([]domain.Campaign, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Campaign{}
	for _, c := range f.campaigns {
		app, ok := f.apps[c.AppID]
		if !ok || app.OwnerID != ownerID {
			continue
		}
		if appID != "" && c.AppID != appID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) DeleteCampaign(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.campaigns, id)
	return nil
}

func (f *fakeRepo) GetSettings(_ context.Context, ownerID string) (*domain.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.settings[ownerID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) FirstSettings(_ context.Context) (*domain.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.settings {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepo) UpsertSettings(_ context.Context, settings *domain.Settings) error {
	if f.err != nil {
		return f.err
	}
	copied := *settings
	f.settings[settings.OwnerID] = &copied
	return nil
}

func (f *fakeRepo) ExportSnapshot(_ context.Context) (*domain.SnapshotData, error) {
	if f.err != nil {
		return nil, f.err
	}
	data := &domain.SnapshotData{
		Users:     []domain.User{},
		Apps:      []domain.App{},
		Campaigns: []domain.Campaign{},
		Visits:    append([]domain.Visit{}, f.visits...),
		Settings:  []domain.Settings{},
	}
	for _, u := range f.users {
		data.Users = append(data.Users, *u)
	}
	for _, a := range f.apps {
		data.Apps = append(data.Apps, *a)
	}
	for _, c := range f.campaigns {
		data.Campaigns = append(data.Campaigns, *c)
	}
	for _, s := range f.settings {
		data.Settings = append(data.Settings, *s)
	}
	return data, nil
}

func (f *fakeRepo) ImportSnapshot(_ context.Context, data *domain.SnapshotData) error {
	if f.err != nil {
		return f.err
	}
	fresh := newFakeRepo()
	for i := range data.Users {
		fresh.users[data.Users[i].Email] = &data.Users[i]
	}
	for i := range data.Apps {
		fresh.apps[data.Apps[i].ID] = &data.Apps[i]
	}
	for i := range data.Campaigns {
		fresh.campaigns[data.Campaigns[i].ID] = &data.Campaigns[i]
	}
	for i := range data.Settings {
		fresh.settings[data.Settings[i].OwnerID] = &data.Settings[i]
	}
	fresh.visits = append([]domain.Visit{}, data.Visits...)
	*f = *fresh
	return nil
}

var _ ports.Repository = (*fakeRepo)(nil)
