package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nateepat/applink/pkg/core/domain"
)

func TestSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(newFakeRepo())

	settings, err := svc.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "App Showcase", settings.SiteTitle)
	assert.False(t, settings.ShowAdminLink)
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo)

	saved, err := svc.Update(context.Background(), "owner-1", &domain.Settings{
		SiteTitle:       "My Apps",
		SiteDescription: "All of them",
		ShowAdminLink:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", saved.OwnerID)

	got, err := svc.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "My Apps", got.SiteTitle)
	assert.True(t, got.ShowAdminLink)
}
