package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// AdminService produces and restores full-database snapshots. Import
// is destructive: everything is deleted and recreated in one
// transaction, so a failed import leaves the store untouched.
type AdminService struct {
	repo ports.Repository
}

func NewAdminService(repo ports.Repository) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) Export(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.repo.ExportSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return &domain.Snapshot{
		Meta: domain.SnapshotMeta{
			ExportedAt: time.Now(),
			Version:    domain.SnapshotVersion,
		},
		Data: *data,
	}, nil
}

func (s *AdminService) Import(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: missing snapshot", domain.ErrValidation)
	}
	if err := s.repo.ImportSnapshot(ctx, &snapshot.Data); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}
