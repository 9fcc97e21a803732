package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// CampaignService manages UTM link templates. Access always goes
// through the parent app's owner.
type CampaignService struct {
	repo ports.Repository
}

func NewCampaignService(repo ports.Repository) *CampaignService {
	return &CampaignService{repo: repo}
}

func (s *CampaignService) Create(ctx context.Context, ownerID string, campaign *domain.Campaign) (*domain.Campaign, error) {
	if campaign.Name == "" || campaign.AppID == "" {
		return nil, fmt.Errorf("%w: name and app_id are required", domain.ErrValidation)
	}

	app, err := s.repo.GetAppByID(ctx, campaign.AppID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if app.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	campaign.ID = uuid.NewString()
	campaign.CreatedAt = time.Now()

	if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// List returns the owner's campaigns, optionally filtered to one app.
func (s *CampaignService) List(ctx context.Context, ownerID, appID string) ([]domain.Campaign, error) {
	if appID != "" {
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
	}
	return s.repo.ListCampaigns(ctx, ownerID, appID)
}

func (s *CampaignService) Delete(ctx context.Context, ownerID, id string) error {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return domain.ErrNotFound
	}

	app, err := s.repo.GetAppByID(ctx, campaign.AppID)
	if err != nil {
		return err
	}
	if app != nil && app.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	return s.repo.DeleteCampaign(ctx, id)
}
