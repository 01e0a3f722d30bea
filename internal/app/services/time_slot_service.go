package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
)

// TimeSlotService defines the volunteer slot operations
type TimeSlotService interface {
	List(ctx context.Context, actor auth.Identity, eventID int64) ([]dto.TimeSlotResponse, error)
	Create(ctx context.Context, actor auth.Identity, eventID int64, req *dto.TimeSlotRequest) (*dto.TimeSlotResponse, error)
	Update(ctx context.Context, actor auth.Identity, slotID int64, req *dto.TimeSlotRequest) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, actor auth.Identity, slotID int64) error
}

// timeSlotServiceImpl implements the TimeSlotService interface
type timeSlotServiceImpl struct {
	slotRepo  repositories.ITimeSlotRepository
	eventRepo repositories.ISportEventRepository
}

// NewTimeSlotService creates a new time slot service instance
func NewTimeSlotService(slotRepo repositories.ITimeSlotRepository, eventRepo repositories.ISportEventRepository) TimeSlotService {
	return &timeSlotServiceImpl{
		slotRepo:  slotRepo,
		eventRepo: eventRepo,
	}
}

// List returns the slots of an event in chronological order
func (s *timeSlotServiceImpl) List(ctx context.Context, actor auth.Identity, eventID int64) ([]dto.TimeSlotResponse, error) {
	if err := actor.Require(auth.PermManageTimeSlots); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving time slots: %w", err)
	}
	resp := make([]dto.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		resp = append(resp, toTimeSlotResponse(slot))
	}
	return resp, nil
}

// buildSlot validates the request and checks the slot starts after the event closes
func buildSlot(event *models.SportEvent, req *dto.TimeSlotRequest) (*models.TimeSlot, error) {
	res := &validation.Result{}

	slotType := models.SlotType(strings.ToUpper(strings.TrimSpace(req.Type)))
	res.Check(slotType.IsValid(), "Slot type must be SETUP, EVENT or TEARDOWN.")
	date := parseDateField(res, "Date", req.Date)
	start := parseClockField(res, "Start time", req.StartTime)
	end := parseClockField(res, "End time", req.EndTime)
	if res.Valid() {
		res.Check(start < end, "Start time must be before end time.")
	}
	comment := strings.TrimSpace(req.Comment)
	res.Merge(validation.ValidateComment(comment))

	if err := res.Err(); err != nil {
		return nil, err
	}

	slot := &models.TimeSlot{
		SportEventID: event.ID,
		Type:         slotType,
		SlotDate:     date,
		StartTime:    start,
		EndTime:      end,
		Comment:      optionalText(comment),
	}
	if err := checkSlotAfterClosing(event.ClosingAt, slot.StartsAt()); err != nil {
		return nil, err
	}
	return slot, nil
}

// Create adds a slot to a sport event
func (s *timeSlotServiceImpl) Create(ctx context.Context, actor auth.Identity, eventID int64, req *dto.TimeSlotRequest) (*dto.TimeSlotResponse, error) {
	if err := actor.Require(auth.PermManageTimeSlots); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	slot, err := buildSlot(event, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	logger.Info().Int64("slotID", slot.ID).Int64("sportEventID", eventID).Msg("Time slot created")
	resp := toTimeSlotResponse(slot)
	return &resp, nil
}

// Update changes the type, schedule and comment of a slot
func (s *timeSlotServiceImpl) Update(ctx context.Context, actor auth.Identity, slotID int64, req *dto.TimeSlotRequest) (*dto.TimeSlotResponse, error) {
	if err := actor.Require(auth.PermManageTimeSlots); err != nil {
		return nil, err
	}

	current, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, current.SportEventID)
	if err != nil {
		return nil, err
	}

	slot, err := buildSlot(event, req)
	if err != nil {
		return nil, err
	}
	slot.ID = slotID
	if err := s.slotRepo.Update(ctx, slot); err != nil {
		return nil, err
	}
	resp := toTimeSlotResponse(slot)
	return &resp, nil
}

// Delete removes a slot and its volunteer registrations
func (s *timeSlotServiceImpl) Delete(ctx context.Context, actor auth.Identity, slotID int64) error {
	if err := actor.Require(auth.PermManageTimeSlots); err != nil {
		return err
	}
	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		return err
	}
	logger.Info().Int64("slotID", slotID).Msg("Time slot deleted")
	return nil
}
