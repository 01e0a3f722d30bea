package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sportEventWithSlots creates an open sport event with two slots
func (f *fixture) sportEventWithSlots(t *testing.T) (eventID int64, slotIDs []int64) {
	t.Helper()
	cat := f.createCategory(t, "Trail")
	eventID = f.createSportEvent(t, cat, "01/05/2025", "06/06/2025 18:00")
	for _, req := range []dto.TimeSlotRequest{
		{Type: "EVENT", Date: "07/06/2025", StartTime: "08:00", EndTime: "12:00"},
		{Type: "TEARDOWN", Date: "07/06/2025", StartTime: "14:00", EndTime: "18:00"},
	} {
		slot, err := f.timeSlots.Create(context.Background(), managerIdentity, eventID, &req)
		require.NoError(t, err)
		slotIDs = append(slotIDs, slot.ID)
	}
	return eventID, slotIDs
}

func (f *fixture) approvedIdentity(adherent bool) auth.Identity {
	m := f.addMember(models.MemberStatusApproved, adherent)
	return auth.IdentityFromMember(m)
}

func TestEnrollSlots_IsIdempotent(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)

	first, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, []int64{slots[0]})
	require.NoError(t, err)
	assert.Equal(t, []int64{slots[0]}, first.Added)
	assert.Empty(t, first.AlreadyRegistered)

	second, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, []int64{slots[1], slots[0], slots[1]})
	require.NoError(t, err)
	assert.Equal(t, []int64{slots[1]}, second.Added)
	assert.Equal(t, []int64{slots[0]}, second.AlreadyRegistered)

	mine, err := f.registrationSvc.ListMyRegistrations(context.Background(), member)
	require.NoError(t, err)
	require.Len(t, mine.Slots, 2)
	assert.Equal(t, slots[1], mine.Slots[0].Slot.ID)
	assert.Equal(t, "Trail", mine.Slots[0].CategoryLabel)
}

func TestSportEventGet_FlagsHeldSlots(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)

	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, []int64{slots[1]})
	require.NoError(t, err)

	got, err := f.sportEvents.Get(context.Background(), member, event)
	require.NoError(t, err)
	require.Len(t, got.Slots, len(slots))
	for _, slot := range got.Slots {
		assert.Equal(t, slot.ID == slots[1], slot.Registered, slot.ID)
	}

	anonymous, err := f.sportEvents.Get(context.Background(), auth.Anonymous(), event)
	require.NoError(t, err)
	for _, slot := range anonymous.Slots {
		assert.False(t, slot.Registered)
	}
}

func TestEnrollSlots_RejectsForeignSlot(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	other, otherSlots := f.sportEventWithSlotsInCategory(t, "Natation")
	require.NotEqual(t, event, other)
	member := f.approvedIdentity(false)

	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, []int64{slots[0], otherSlots[0]})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 1)

	mine, err := f.registrationSvc.ListMyRegistrations(context.Background(), member)
	require.NoError(t, err)
	assert.Empty(t, mine.Slots)

	_, err = f.registrationSvc.EnrollSlots(context.Background(), member, event, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

// sportEventWithSlotsInCategory is sportEventWithSlots under a distinct category label
func (f *fixture) sportEventWithSlotsInCategory(t *testing.T, label string) (int64, []int64) {
	t.Helper()
	cat := f.createCategory(t, label)
	eventID := f.createSportEvent(t, cat, "01/05/2025", "06/06/2025 18:00")
	slot, err := f.timeSlots.Create(context.Background(), managerIdentity, eventID, &dto.TimeSlotRequest{
		Type: "SETUP", Date: "07/06/2025", StartTime: "06:00", EndTime: "08:00",
	})
	require.NoError(t, err)
	return eventID, []int64{slot.ID}
}

func TestEnrollSlots_ClosedEvent(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)

	f.now = time.Date(2025, 6, 6, 18, 1, 0, 0, time.UTC)
	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, slots)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationsClosed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEnrollSlots_ClosingMinuteStillOpen(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)

	f.now = time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)
	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, slots)
	assert.NoError(t, err)
}

func TestEnrollSlots_PendingMemberForbidden(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	pending := auth.IdentityFromMember(f.addMember(models.MemberStatusPending, false))

	_, err := f.registrationSvc.EnrollSlots(context.Background(), pending, event, slots)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.registrationSvc.EnrollSlots(context.Background(), auth.Anonymous(), event, slots)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestUnenroll_IsIdempotent(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)

	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, slots)
	require.NoError(t, err)

	require.NoError(t, f.registrationSvc.UnenrollSlot(context.Background(), member, slots[0]))
	require.NoError(t, f.registrationSvc.UnenrollSlot(context.Background(), member, slots[0]))

	mine, err := f.registrationSvc.ListMyRegistrations(context.Background(), member)
	require.NoError(t, err)
	assert.Len(t, mine.Slots, 1)

	require.NoError(t, f.registrationSvc.UnenrollSportEvent(context.Background(), member, event))
	require.NoError(t, f.registrationSvc.UnenrollSportEvent(context.Background(), member, event))
	mine, err = f.registrationSvc.ListMyRegistrations(context.Background(), member)
	require.NoError(t, err)
	assert.Empty(t, mine.Slots)
}

func TestVolunteerPresence(t *testing.T) {
	f := newFixture()
	event, slots := f.sportEventWithSlots(t)
	member := f.approvedIdentity(false)
	_, err := f.registrationSvc.EnrollSlots(context.Background(), member, event, slots[:1])
	require.NoError(t, err)

	err = f.registrationSvc.SetVolunteerPresence(context.Background(), member, slots[0], member.MemberID, true)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.registrationSvc.SetVolunteerPresence(context.Background(), managerIdentity, slots[0], member.MemberID, true))
	volunteers, err := f.registrationSvc.ListSlotVolunteers(context.Background(), managerIdentity, slots[0])
	require.NoError(t, err)
	require.Len(t, volunteers, 1)
	assert.True(t, volunteers[0].IsPresent)

	err = f.registrationSvc.SetVolunteerPresence(context.Background(), managerIdentity, slots[1], member.MemberID, true)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationNotFound)
}

func TestEnrollAssociation_AlreadyRegistered(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)
	member := f.approvedIdentity(false)

	p, err := f.registrationSvc.EnrollAssociationEvent(context.Background(), member, event.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.GuestCount)
	assert.False(t, p.PaymentConfirmed)
	assert.Equal(t, "28/06/2025 19:30", p.ParticipationDate)

	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), member, event.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.Equal(t, 1, f.registrations.participationCount())

	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), f.approvedIdentity(false), event.ID, 11)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 1, f.registrations.participationCount())
}

func TestEnrollAssociation_PrivateEvent(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", true))
	require.NoError(t, err)

	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), auth.Anonymous(), event.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrLoginRequiredForEvent)

	m := f.addMember(models.MemberStatusApproved, false)
	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), auth.IdentityFromMember(m), event.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrReservedForAdherents)
	assert.Zero(t, f.registrations.participationCount())

	_, err = f.memberService.PromoteAdherent(context.Background(), auth.IdentityFromMember(m), m.ID)
	require.NoError(t, err)
	promoted, err := f.members.GetByID(context.Background(), m.ID)
	require.NoError(t, err)

	p, err := f.registrationSvc.EnrollAssociationEvent(context.Background(), auth.IdentityFromMember(promoted), event.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.GuestCount)
	assert.Equal(t, 1, f.registrations.participationCount())
}

func TestEnrollAssociation_Closed(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)

	f.now = time.Date(2025, 6, 21, 8, 0, 0, 0, time.UTC)
	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), f.approvedIdentity(false), event.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationsClosed)
}

func TestListParticipants_Headcount(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)

	for _, guests := range []int{0, 3} {
		_, err := f.registrationSvc.EnrollAssociationEvent(context.Background(), f.approvedIdentity(false), event.ID, guests)
		require.NoError(t, err)
	}

	resp, err := f.registrationSvc.ListParticipants(context.Background(), managerIdentity, event.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Participants, 2)
	assert.Equal(t, 5, resp.Headcount)

	_, err = f.registrationSvc.ListParticipants(context.Background(), f.approvedIdentity(true), event.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestGetDashboard(t *testing.T) {
	f := newFixture()
	f.addMember(models.MemberStatusPending, false)
	f.addMember(models.MemberStatusApproved, true)
	f.addMember(models.MemberStatusApproved, true)
	f.sportEventWithSlots(t)
	_, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", true))
	require.NoError(t, err)

	dash, err := f.statsService.GetDashboard(context.Background(), managerIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.MembersTotal)
	assert.Equal(t, int64(1), dash.MembersPending)
	assert.Equal(t, int64(2), dash.Adherents)
	assert.Equal(t, int64(1), dash.SportEvents)
	assert.Equal(t, int64(1), dash.AssociationEvents)

	_, err = f.statsService.GetDashboard(context.Background(), auth.Identity{MemberID: 1, Approved: true, Adherent: true})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
