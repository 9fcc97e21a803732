package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nateepat/applink/pkg/core/domain"
)

func TestCampaignCreate(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "game"}
	svc := NewCampaignService(repo)

	source := "twitter"
	campaign, err := svc.Create(context.Background(), "owner-1", &domain.Campaign{
		AppID:     "app-1",
		Name:      "Launch",
		UTMSource: &source,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, campaign.ID)
	assert.False(t, campaign.CreatedAt.IsZero())
}

func TestCampaignCreateGuards(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "game"}
	svc := NewCampaignService(repo)

	_, err := svc.Create(context.Background(), "owner-1", &domain.Campaign{AppID: "app-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(context.Background(), "owner-1", &domain.Campaign{AppID: "missing", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Create(context.Background(), "intruder", &domain.Campaign{AppID: "app-1", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCampaignListFilter(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "one"}
	repo.apps["app-2"] = &domain.App{ID: "app-2", OwnerID: "owner-1", Slug: "two"}
	repo.campaigns["c-1"] = &domain.Campaign{ID: "c-1", AppID: "app-1", Name: "A"}
	repo.campaigns["c-2"] = &domain.Campaign{ID: "c-2", AppID: "app-2", Name: "B"}
	svc := NewCampaignService(repo)

	all, err := svc.List(context.Background(), "owner-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := svc.List(context.Background(), "owner-1", "app-1")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "c-1", one[0].ID)

	_, err = svc.List(context.Background(), "intruder", "app-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCampaignDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.apps["app-1"] = &domain.App{ID: "app-1", OwnerID: "owner-1", Slug: "game"}
	repo.campaigns["c-1"] = &domain.Campaign{ID: "c-1", AppID: "app-1", Name: "A"}
	svc := NewCampaignService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "intruder", "c-1"), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), "owner-1", "missing"), domain.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "owner-1", "c-1"))
	assert.Empty(t, repo.campaigns)
}

func TestCampaignBuildURL(t *testing.T) {
	source := "twitter"
	medium := "social"
	empty := ""
	c := &domain.Campaign{UTMSource: &source, UTMMedium: &medium, UTMTerm: &empty}

	url := c.BuildURL("https://links.example.com/", "game")
	assert.Equal(t, "https://links.example.com/game?utm_medium=social&utm_source=twitter", url)

	bare := &domain.Campaign{}
	assert.Equal(t, "https://links.example.com/game", bare.BuildURL("https://links.example.com", "game"))
}
