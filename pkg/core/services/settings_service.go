package services

import (
	"context"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// SettingsService reads and upserts the per-owner settings singleton,
// applying defaults when nothing has been saved yet.
type SettingsService struct {
	repo ports.Repository
}

func NewSettingsService(repo ports.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context, ownerID string) (*domain.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return domain.DefaultSettings(), nil
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, ownerID string, settings *domain.Settings) (*domain.Settings, error) {
	settings.OwnerID = ownerID
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
