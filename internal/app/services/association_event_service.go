package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
)

// AssociationEventService defines the association event catalog operations
type AssociationEventService interface {
	List(ctx context.Context, viewer auth.Identity) ([]dto.AssociationEventResponse, error)
	Get(ctx context.Context, viewer auth.Identity, id int64) (*dto.AssociationEventResponse, error)
	Create(ctx context.Context, actor auth.Identity, req *dto.AssociationEventRequest) (*dto.AssociationEventResponse, error)
	Update(ctx context.Context, actor auth.Identity, id int64, req *dto.AssociationEventRequest) (*dto.AssociationEventResponse, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// associationEventServiceImpl implements the AssociationEventService interface
type associationEventServiceImpl struct {
	eventRepo repositories.IAssociationEventRepository
	clock     Clock
}

// NewAssociationEventService creates a new association event service instance
func NewAssociationEventService(eventRepo repositories.IAssociationEventRepository, clock Clock) AssociationEventService {
	return &associationEventServiceImpl{
		eventRepo: eventRepo,
		clock:     clock,
	}
}

// List returns the visible association events, latest first. Private events
// are listed only for adherents, managers and admins.
func (s *associationEventServiceImpl) List(ctx context.Context, viewer auth.Identity) ([]dto.AssociationEventResponse, error) {
	events, err := s.eventRepo.ListVisible(ctx, s.clock.Today(), auth.CanSeePrivate(viewer))
	if err != nil {
		return nil, fmt.Errorf("error retrieving association events: %w", err)
	}

	now := s.clock.WallNow()
	resp := make([]dto.AssociationEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toAssociationEventResponse(e, now))
	}
	return resp, nil
}

// Get returns one event after the visibility and private access checks
func (s *associationEventServiceImpl) Get(ctx context.Context, viewer auth.Identity, id int64) (*dto.AssociationEventResponse, error) {
	event, err := loadVisibleAssociationEvent(ctx, s.eventRepo, viewer, id, s.clock)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckEventAccess(viewer, event); err != nil {
		return nil, err
	}
	resp := toAssociationEventResponse(event, s.clock.WallNow())
	return &resp, nil
}

// loadVisibleAssociationEvent hides events not yet visible from non-managers
func loadVisibleAssociationEvent(ctx context.Context, repo repositories.IAssociationEventRepository, viewer auth.Identity, id int64, clock Clock) (*models.AssociationEvent, error) {
	event, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsVisibleOn(clock.Today()) && !viewer.Can(auth.PermManageEvents) {
		return nil, apperrors.ErrAssociationEventNotFound
	}
	return event, nil
}

func buildAssociationEvent(req *dto.AssociationEventRequest) (*models.AssociationEvent, error) {
	fields := validation.EventFields{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		LocationText:   strings.TrimSpace(req.LocationText),
		LocationMapURL: strings.TrimSpace(req.LocationMapURL),
	}
	res := validation.ValidateEventFields(fields)
	visible := parseDateField(res, "Visibility date", req.VisibleDate)
	closing := parseDateTimeField(res, "Closing date", req.ClosingAt)
	eventAt := parseDateTimeField(res, "Event date", req.EventAt)

	var price float64
	if req.Price == nil {
		res.Add("Price is required.")
	} else {
		price = *req.Price
		res.Check(price >= 0 && !math.IsNaN(price), "Price cannot be negative.")
	}
	res.Check(req.IsPrivate != nil, "Please specify whether the event is private.")

	if err := res.Err(); err != nil {
		return nil, err
	}
	if err := checkVisibleBeforeClosing(visible, closing); err != nil {
		return nil, err
	}
	if err := checkClosingBeforeEvent(closing, eventAt); err != nil {
		return nil, err
	}

	return &models.AssociationEvent{
		Title:          fields.Title,
		Description:    fields.Description,
		LocationText:   fields.LocationText,
		LocationMapURL: optionalText(fields.LocationMapURL),
		VisibleDate:    visible,
		ClosingAt:      closing,
		EventAt:        eventAt,
		Price:          math.Round(price*100) / 100,
		IsPrivate:      *req.IsPrivate,
	}, nil
}

// Create adds an association event
func (s *associationEventServiceImpl) Create(ctx context.Context, actor auth.Identity, req *dto.AssociationEventRequest) (*dto.AssociationEventResponse, error) {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return nil, err
	}

	event, err := buildAssociationEvent(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.Info().Int64("associationEventID", event.ID).Int64("managerID", actor.MemberID).Msg("Association event created")
	resp := toAssociationEventResponse(event, s.clock.WallNow())
	return &resp, nil
}

// Update replaces the fields of an association event
func (s *associationEventServiceImpl) Update(ctx context.Context, actor auth.Identity, id int64, req *dto.AssociationEventRequest) (*dto.AssociationEventResponse, error) {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	event, err := buildAssociationEvent(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toAssociationEventResponse(updated, s.clock.WallNow())
	return &resp, nil
}

// Delete removes an association event and its participations, whether or not members registered
func (s *associationEventServiceImpl) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("associationEventID", id).Int64("managerID", actor.MemberID).Msg("Association event deleted")
	return nil
}
