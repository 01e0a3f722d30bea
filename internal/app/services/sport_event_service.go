package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
)

// SportEventService defines the sport event catalog operations
type SportEventService interface {
	List(ctx context.Context) ([]dto.SportEventResponse, error)
	Get(ctx context.Context, viewer auth.Identity, id int64) (*dto.SportEventResponse, error)
	Create(ctx context.Context, actor auth.Identity, req *dto.SportEventRequest) (*dto.SportEventResponse, error)
	Update(ctx context.Context, actor auth.Identity, id int64, req *dto.SportEventRequest) (*dto.SportEventResponse, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// sportEventServiceImpl implements the SportEventService interface
type sportEventServiceImpl struct {
	eventRepo    repositories.ISportEventRepository
	categoryRepo repositories.ICategoryRepository
	slotRepo     repositories.ITimeSlotRepository
	regRepo      repositories.IRegistrationRepository
	clock        Clock
}

// NewSportEventService creates a new sport event service instance
func NewSportEventService(
	eventRepo repositories.ISportEventRepository,
	categoryRepo repositories.ICategoryRepository,
	slotRepo repositories.ITimeSlotRepository,
	regRepo repositories.IRegistrationRepository,
	clock Clock,
) SportEventService {
	return &sportEventServiceImpl{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		slotRepo:     slotRepo,
		regRepo:      regRepo,
		clock:        clock,
	}
}

// List returns the visible sport events, latest closing first
func (s *sportEventServiceImpl) List(ctx context.Context) ([]dto.SportEventResponse, error) {
	events, err := s.eventRepo.ListVisible(ctx, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("error retrieving sport events: %w", err)
	}

	now := s.clock.WallNow()
	resp := make([]dto.SportEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toSportEventResponse(e, now))
	}
	return resp, nil
}

// Get returns an event with its slots, flagging those the viewer volunteers on.
// Events not yet visible only exist for managers.
func (s *sportEventServiceImpl) Get(ctx context.Context, viewer auth.Identity, id int64) (*dto.SportEventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.IsVisibleOn(s.clock.Today()) && !viewer.Can(auth.PermManageEvents) {
		return nil, apperrors.ErrSportEventNotFound
	}

	slots, err := s.slotRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving time slots: %w", err)
	}

	held := map[int64]bool{}
	if viewer.IsAuthenticated() {
		ids, err := s.regRepo.VolunteerSlotIDs(ctx, viewer.MemberID, id)
		if err != nil {
			return nil, fmt.Errorf("error retrieving volunteer slots: %w", err)
		}
		for _, slotID := range ids {
			held[slotID] = true
		}
	}

	resp := toSportEventResponse(event, s.clock.WallNow())
	resp.Slots = make([]dto.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		item := toTimeSlotResponse(slot)
		item.Registered = held[slot.ID]
		resp.Slots = append(resp.Slots, item)
	}
	return &resp, nil
}

// buildEvent validates the request fields and returns the event they describe
func (s *sportEventServiceImpl) buildEvent(ctx context.Context, req *dto.SportEventRequest) (*models.SportEvent, error) {
	fields := validation.EventFields{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		LocationText:   strings.TrimSpace(req.LocationText),
		LocationMapURL: strings.TrimSpace(req.LocationMapURL),
	}
	res := validation.ValidateEventFields(fields)
	visible := parseDateField(res, "Visibility date", req.VisibleDate)
	closing := parseDateTimeField(res, "Closing date", req.ClosingAt)

	if req.CategoryID <= 0 {
		res.Add("Category is required.")
	} else if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if !errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, fmt.Errorf("error retrieving category: %w", err)
		}
		res.Add("The selected category does not exist.")
	}

	if err := res.Err(); err != nil {
		return nil, err
	}
	if err := checkVisibleBeforeClosing(visible, closing); err != nil {
		return nil, err
	}

	return &models.SportEvent{
		Title:          fields.Title,
		Description:    fields.Description,
		LocationText:   fields.LocationText,
		LocationMapURL: optionalText(fields.LocationMapURL),
		VisibleDate:    visible,
		ClosingAt:      closing,
		CategoryID:     req.CategoryID,
	}, nil
}

// Create adds a sport event
func (s *sportEventServiceImpl) Create(ctx context.Context, actor auth.Identity, req *dto.SportEventRequest) (*dto.SportEventResponse, error) {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return nil, err
	}

	event, err := s.buildEvent(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logger.Info().Int64("sportEventID", event.ID).Int64("managerID", actor.MemberID).Msg("Sport event created")
	return s.Get(ctx, actor, event.ID)
}

// Update replaces the fields of a sport event. The new closing date must stay
// before every existing slot.
func (s *sportEventServiceImpl) Update(ctx context.Context, actor auth.Identity, id int64, req *dto.SportEventRequest) (*dto.SportEventResponse, error) {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	event, err := s.buildEvent(ctx, req)
	if err != nil {
		return nil, err
	}
	event.ID = id

	earliest, err := s.slotRepo.EarliestStart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving time slots: %w", err)
	}
	if earliest != nil && !event.ClosingAt.Before(*earliest) {
		return nil, apperrors.NewStateError("Registrations must close before the first time slot (" +
			helpers.FormatDisplayDateTime(*earliest) + ").")
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// Delete removes a sport event with its slots and registrations
func (s *sportEventServiceImpl) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if err := actor.Require(auth.PermManageEvents); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("sportEventID", id).Int64("managerID", actor.MemberID).Msg("Sport event deleted")
	return nil
}
