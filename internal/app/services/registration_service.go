package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// RegistrationService defines the registration operations of members on events
type RegistrationService interface {
	EnrollSlots(ctx context.Context, actor auth.Identity, eventID int64, slotIDs []int64) (*dto.SlotEnrollmentResponse, error)
	UnenrollSlot(ctx context.Context, actor auth.Identity, slotID int64) error
	UnenrollSportEvent(ctx context.Context, actor auth.Identity, eventID int64) error
	EnrollAssociationEvent(ctx context.Context, actor auth.Identity, eventID int64, guests int) (*dto.ParticipationResponse, error)
	UnenrollAssociationEvent(ctx context.Context, actor auth.Identity, eventID int64) error
	ListMyRegistrations(ctx context.Context, actor auth.Identity) (*dto.MyRegistrationsResponse, error)

	ListSlotVolunteers(ctx context.Context, actor auth.Identity, slotID int64) ([]dto.SlotVolunteerResponse, error)
	SetVolunteerPresence(ctx context.Context, actor auth.Identity, slotID, memberID int64, present bool) error
	ListParticipants(ctx context.Context, actor auth.Identity, eventID int64) (*dto.ParticipantListResponse, error)
}

// registrationServiceImpl implements the RegistrationService interface
type registrationServiceImpl struct {
	registrationRepo repositories.IRegistrationRepository
	sportEventRepo   repositories.ISportEventRepository
	slotRepo         repositories.ITimeSlotRepository
	assocEventRepo   repositories.IAssociationEventRepository
	clock            Clock
	logger           zerolog.Logger
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	registrationRepo repositories.IRegistrationRepository,
	sportEventRepo repositories.ISportEventRepository,
	slotRepo repositories.ITimeSlotRepository,
	assocEventRepo repositories.IAssociationEventRepository,
	clock Clock,
	logger zerolog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		registrationRepo: registrationRepo,
		sportEventRepo:   sportEventRepo,
		slotRepo:         slotRepo,
		assocEventRepo:   assocEventRepo,
		clock:            clock,
		logger:           logger,
	}
}

// EnrollSlots registers the actor as volunteer on slots of one sport event.
// Slots already held are reported, not rejected.
func (s *registrationServiceImpl) EnrollSlots(ctx context.Context, actor auth.Identity, eventID int64, slotIDs []int64) (*dto.SlotEnrollmentResponse, error) {
	if err := actor.Require(auth.PermRegisterForEvents); err != nil {
		return nil, err
	}

	event, err := s.sportEventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsVisibleOn(s.clock.Today()) && !actor.Can(auth.PermManageEvents) {
		return nil, apperrors.ErrSportEventNotFound
	}
	if event.IsClosedAt(s.clock.WallNow()) {
		return nil, apperrors.ErrRegistrationsClosed
	}

	requested := uniqueIDs(slotIDs)
	if len(requested) == 0 {
		return nil, apperrors.NewValidationError("Please select at least one time slot.")
	}

	slots, err := s.slotRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving time slots: %w", err)
	}
	owned := make(map[int64]bool, len(slots))
	for _, slot := range slots {
		owned[slot.ID] = true
	}
	res := &validation.Result{}
	for _, id := range requested {
		res.Check(owned[id], fmt.Sprintf("Time slot %d does not belong to this event.", id))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}

	added, err := s.registrationRepo.AddVolunteer(ctx, actor.MemberID, requested)
	if err != nil {
		return nil, err
	}

	isAdded := make(map[int64]bool, len(added))
	for _, id := range added {
		isAdded[id] = true
	}
	resp := &dto.SlotEnrollmentResponse{
		SportEventID:      eventID,
		Added:             []int64{},
		AlreadyRegistered: []int64{},
	}
	for _, id := range requested {
		if isAdded[id] {
			resp.Added = append(resp.Added, id)
		} else {
			resp.AlreadyRegistered = append(resp.AlreadyRegistered, id)
		}
	}

	s.logger.Info().Int64("memberID", actor.MemberID).Int64("sportEventID", eventID).
		Int("added", len(resp.Added)).Msg("Volunteer slots registered")
	return resp, nil
}

// UnenrollSlot drops one slot registration of the actor
func (s *registrationServiceImpl) UnenrollSlot(ctx context.Context, actor auth.Identity, slotID int64) error {
	if !actor.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return s.registrationRepo.RemoveVolunteer(ctx, actor.MemberID, slotID)
}

// UnenrollSportEvent drops every slot registration of the actor on an event
func (s *registrationServiceImpl) UnenrollSportEvent(ctx context.Context, actor auth.Identity, eventID int64) error {
	if !actor.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return s.registrationRepo.RemoveVolunteerFromEvent(ctx, actor.MemberID, eventID)
}

// EnrollAssociationEvent registers the actor on an association event.
// Private events are checked before anything else.
func (s *registrationServiceImpl) EnrollAssociationEvent(ctx context.Context, actor auth.Identity, eventID int64, guests int) (*dto.ParticipationResponse, error) {
	event, err := loadVisibleAssociationEvent(ctx, s.assocEventRepo, actor, eventID, s.clock)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckEventAccess(actor, event); err != nil {
		return nil, err
	}
	if err := actor.Require(auth.PermRegisterForEvents); err != nil {
		return nil, err
	}
	if event.IsClosedAt(s.clock.WallNow()) {
		return nil, apperrors.ErrRegistrationsClosed
	}
	if err := validation.ValidateGuestCount(guests).Err(); err != nil {
		return nil, err
	}

	registered, err := s.registrationRepo.IsParticipating(ctx, actor.MemberID, eventID)
	if err != nil {
		return nil, fmt.Errorf("error checking participation: %w", err)
	}
	if registered {
		return nil, apperrors.ErrAlreadyRegistered
	}

	participation := &models.Participation{
		MemberID:           actor.MemberID,
		AssociationEventID: eventID,
		PaymentConfirmed:   false,
		GuestCount:         guests,
		ParticipationDate:  event.EventAt,
	}
	if err := s.registrationRepo.AddParticipation(ctx, participation); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", actor.MemberID).Int64("associationEventID", eventID).
		Int("guests", guests).Msg("Participation registered")
	resp := toParticipationResponse(participation, event)
	return &resp, nil
}

// UnenrollAssociationEvent drops the actor's participation
func (s *registrationServiceImpl) UnenrollAssociationEvent(ctx context.Context, actor auth.Identity, eventID int64) error {
	if !actor.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return s.registrationRepo.RemoveParticipation(ctx, actor.MemberID, eventID)
}

// ListMyRegistrations returns the slots and events the actor is registered on
func (s *registrationServiceImpl) ListMyRegistrations(ctx context.Context, actor auth.Identity) (*dto.MyRegistrationsResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}

	slots, err := s.registrationRepo.ListMemberSlots(ctx, actor.MemberID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving slot registrations: %w", err)
	}
	participations, err := s.registrationRepo.ListMemberParticipations(ctx, actor.MemberID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving participations: %w", err)
	}

	resp := &dto.MyRegistrationsResponse{
		Slots:          make([]dto.MySlotRegistrationResponse, 0, len(slots)),
		Participations: make([]dto.ParticipationResponse, 0, len(participations)),
	}
	for _, reg := range slots {
		resp.Slots = append(resp.Slots, dto.MySlotRegistrationResponse{
			Slot:          toTimeSlotResponse(&reg.Slot),
			SportEventID:  reg.EventID,
			EventTitle:    reg.EventTitle,
			LocationText:  reg.EventLocation,
			CategoryLabel: reg.CategoryLabel,
			IsPresent:     reg.IsPresent,
		})
	}
	for _, p := range participations {
		resp.Participations = append(resp.Participations, toParticipationResponse(&p.Participation, &p.Event))
	}
	return resp, nil
}

// ListSlotVolunteers returns the volunteers of a slot
func (s *registrationServiceImpl) ListSlotVolunteers(ctx context.Context, actor auth.Identity, slotID int64) ([]dto.SlotVolunteerResponse, error) {
	if err := actor.Require(auth.PermViewRegistrations); err != nil {
		return nil, err
	}
	if _, err := s.slotRepo.GetByID(ctx, slotID); err != nil {
		return nil, err
	}

	volunteers, err := s.registrationRepo.ListSlotVolunteers(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving volunteers: %w", err)
	}
	resp := make([]dto.SlotVolunteerResponse, 0, len(volunteers))
	for _, v := range volunteers {
		resp = append(resp, dto.SlotVolunteerResponse{
			MemberID:     v.MemberID,
			FirstName:    v.FirstName,
			LastName:     v.LastName,
			Email:        v.Email,
			Phone:        v.Phone,
			TShirtSize:   v.TShirtSize,
			IsPresent:    v.IsPresent,
			RegisteredAt: helpers.FormatDisplayDateTime(v.RegisteredAt),
		})
	}
	return resp, nil
}

// SetVolunteerPresence records whether a volunteer attended their slot
func (s *registrationServiceImpl) SetVolunteerPresence(ctx context.Context, actor auth.Identity, slotID, memberID int64, present bool) error {
	if err := actor.Require(auth.PermViewRegistrations); err != nil {
		return err
	}
	return s.registrationRepo.SetPresence(ctx, slotID, memberID, present)
}

// ListParticipants returns the participants of an association event and the expected headcount
func (s *registrationServiceImpl) ListParticipants(ctx context.Context, actor auth.Identity, eventID int64) (*dto.ParticipantListResponse, error) {
	if err := actor.Require(auth.PermViewRegistrations); err != nil {
		return nil, err
	}
	if _, err := s.assocEventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	participants, err := s.registrationRepo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving participants: %w", err)
	}
	resp := &dto.ParticipantListResponse{
		Participants: make([]dto.EventParticipantResponse, 0, len(participants)),
	}
	for _, p := range participants {
		resp.Participants = append(resp.Participants, dto.EventParticipantResponse{
			MemberID:         p.MemberID,
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Email:            p.Email,
			Phone:            p.Phone,
			GuestCount:       p.GuestCount,
			PaymentConfirmed: p.PaymentConfirmed,
			RegisteredAt:     helpers.FormatDisplayDateTime(p.RegisteredAt),
		})
		resp.Headcount += 1 + p.GuestCount
	}
	return resp, nil
}

// uniqueIDs drops duplicates and sorts
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
