package services

import (
	"context"
	"fmt"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"golang.org/x/sync/errgroup"
)

// StatsService computes the management dashboard counters
type StatsService interface {
	GetDashboard(ctx context.Context, actor auth.Identity) (*dto.DashboardResponse, error)
}

type statsServiceImpl struct {
	memberRepo     repositories.IMemberRepository
	sportEventRepo repositories.ISportEventRepository
	assocEventRepo repositories.IAssociationEventRepository
}

// NewStatsService creates a new stats service instance
func NewStatsService(
	memberRepo repositories.IMemberRepository,
	sportEventRepo repositories.ISportEventRepository,
	assocEventRepo repositories.IAssociationEventRepository,
) StatsService {
	return &statsServiceImpl{
		memberRepo:     memberRepo,
		sportEventRepo: sportEventRepo,
		assocEventRepo: assocEventRepo,
	}
}

// GetDashboard runs the counters concurrently
func (s *statsServiceImpl) GetDashboard(ctx context.Context, actor auth.Identity) (*dto.DashboardResponse, error) {
	if err := actor.Require(auth.PermViewStats); err != nil {
		return nil, err
	}

	var stats models.DashboardStats
	adherent := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Members.Total, err = s.memberRepo.Count(gctx, models.MemberFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.Members.Pending, err = s.memberRepo.Count(gctx, models.MemberFilter{Status: models.MemberStatusPending})
		return err
	})
	g.Go(func() (err error) {
		stats.Members.Adherents, err = s.memberRepo.Count(gctx, models.MemberFilter{Adherent: &adherent})
		return err
	})
	g.Go(func() (err error) {
		stats.SportEvents, err = s.sportEventRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.AssociationEvents, err = s.assocEventRepo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error computing dashboard: %w", err)
	}

	return &dto.DashboardResponse{
		MembersTotal:      stats.Members.Total,
		MembersPending:    stats.Members.Pending,
		Adherents:         stats.Members.Adherents,
		SportEvents:       stats.SportEvents,
		AssociationEvents: stats.AssociationEvents,
	}, nil
}
