package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// AppService implements owner-scoped app CRUD. Slug uniqueness is
// checked up front and backed by a UNIQUE constraint in the store.
type AppService struct {
	repo ports.Repository
}

func NewAppService(repo ports.Repository) *AppService {
	return &AppService{repo: repo}
}

func (s *AppService) Create(ctx context.Context, ownerID string, app *domain.App) (*domain.App, error) {
	if app.Name == "" || app.Slug == "" {
		return nil, fmt.Errorf("%w: name and slug are required", domain.ErrValidation)
	}

	existing, err := s.repo.GetAppBySlug(ctx, app.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: slug %q is taken", domain.ErrConflict, app.Slug)
	}

	app.ID = uuid.NewString()
	app.OwnerID = ownerID
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt

	if !app.HasDestination() {
		// Allowed, but such a link can only ever render the fallback page.
		log.Warn().Str("slug", app.Slug).Msg("app created without any destination URL")
	}

	if err := s.repo.CreateApp(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *AppService) Get(ctx context.Context, ownerID, id string) (*domain.App, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *AppService) List(ctx context.Context, ownerID string) ([]domain.App, error) {
	return s.repo.ListAppsByOwner(ctx, ownerID)
}

func (s *AppService) Update(ctx context.Context, ownerID, id string, in *domain.App) (*domain.App, error) {
	app, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Slug != "" && in.Slug != app.Slug {
		existing, err := s.repo.GetAppBySlug(ctx, in.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != app.ID {
			return nil, fmt.Errorf("%w: slug %q is taken", domain.ErrConflict, in.Slug)
		}
		app.Slug = in.Slug
	}

	// Naive partial update: only provided fields replace the stored ones.
	if in.Name != "" {
		app.Name = in.Name
	}
	app.Description = in.Description
	app.LogoURL = in.LogoURL
	app.AndroidURL = in.AndroidURL
	app.IOSURL = in.IOSURL
	app.FallbackURL = in.FallbackURL
	app.OGTitle = in.OGTitle
	app.OGDescription = in.OGDescription
	app.OGImage = in.OGImage
	app.GA4PropertyID = in.GA4PropertyID
	app.UpdatedAt = time.Now()

	if err := s.repo.UpdateApp(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete removes the app and cascades its visits and campaigns.
func (s *AppService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.DeleteApp(ctx, id)
}

func (s *AppService) getOwned(ctx context.Context, ownerID, id string) (*domain.App, error) {
	app, err := s.repo.GetAppByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if app.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return app, nil
}
