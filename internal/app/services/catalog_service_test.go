package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managerIdentity = auth.Identity{MemberID: 8000, Approved: true, Manager: true}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func (f *fixture) createCategory(t *testing.T, label string) int64 {
	t.Helper()
	c, err := f.categoryService.Create(context.Background(), managerIdentity, &dto.CategoryRequest{Label: label})
	require.NoError(t, err)
	return c.ID
}

func sportEventRequest(categoryID int64, visible, closing string) *dto.SportEventRequest {
	return &dto.SportEventRequest{
		Title:        "Trail des crêtes",
		Description:  "15 km nature run",
		LocationText: "Annecy",
		VisibleDate:  visible,
		ClosingAt:    closing,
		CategoryID:   categoryID,
	}
}

func (f *fixture) createSportEvent(t *testing.T, categoryID int64, visible, closing string) int64 {
	t.Helper()
	e, err := f.sportEvents.Create(context.Background(), managerIdentity, sportEventRequest(categoryID, visible, closing))
	require.NoError(t, err)
	return e.ID
}

func associationRequest(visible, closing, eventAt string, private bool) *dto.AssociationEventRequest {
	return &dto.AssociationEventRequest{
		Title:        "Soirée de fin de saison",
		Description:  "Dinner and awards",
		LocationText: "Club house",
		VisibleDate:  visible,
		ClosingAt:    closing,
		EventAt:      eventAt,
		Price:        floatPtr(15),
		IsPrivate:    boolPtr(private),
	}
}

func TestCreateSportEvent_VisibleAfterClosing(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")

	_, err := f.sportEvents.Create(context.Background(), managerIdentity,
		sportEventRequest(cat, "01/06/2025", "01/05/2025 12:00"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	list, err := f.sportEvents.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.store.sportEvents)
}

func TestCreateSportEvent_FieldErrorsBeforeDates(t *testing.T) {
	f := newFixture()

	_, err := f.sportEvents.Create(context.Background(), managerIdentity, &dto.SportEventRequest{
		VisibleDate: "2025-06-01",
		ClosingAt:   "01/05/2025",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "Title is required.")
	assert.Contains(t, verr.Errors, "Visibility date must use the DD/MM/YYYY format.")
	assert.Contains(t, verr.Errors, "Closing date must use the DD/MM/YYYY HH:MM format.")
	assert.Contains(t, verr.Errors, "Category is required.")
}

func TestCreateSportEvent_UnknownCategory(t *testing.T) {
	f := newFixture()
	_, err := f.sportEvents.Create(context.Background(), managerIdentity,
		sportEventRequest(77, "01/05/2025", "30/05/2025 12:00"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateSportEvent_RequiresManager(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")

	_, err := f.sportEvents.Create(context.Background(), auth.Identity{MemberID: 1, Approved: true, Adherent: true},
		sportEventRequest(cat, "01/05/2025", "30/05/2025 12:00"))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSportEventVisibility(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")
	visible := f.createSportEvent(t, cat, "01/05/2025", "30/05/2025 12:00")
	later := f.createSportEvent(t, cat, "10/05/2025", "30/06/2025 12:00")

	list, err := f.sportEvents.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible, list[0].ID)
	assert.Equal(t, "Trail", list[0].CategoryLabel)
	assert.True(t, list[0].RegistrationsOpen)

	member := auth.Identity{MemberID: 1, Approved: true}
	_, err = f.sportEvents.Get(context.Background(), member, later)
	assert.ErrorIs(t, err, apperrors.ErrSportEventNotFound)

	got, err := f.sportEvents.Get(context.Background(), managerIdentity, later)
	require.NoError(t, err)
	assert.Equal(t, "30/06/2025 12:00", got.ClosingAt)
}

func TestCategoryDelete(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")
	event := f.createSportEvent(t, cat, "01/05/2025", "30/05/2025 12:00")

	err := f.categoryService.Delete(context.Background(), managerIdentity, cat)
	assert.ErrorIs(t, err, apperrors.ErrCategoryInUse)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	var cerr *apperrors.CustomError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, int64(1), cerr.Details["eventCount"])

	require.NoError(t, f.sportEvents.Delete(context.Background(), managerIdentity, event))
	require.NoError(t, f.categoryService.Delete(context.Background(), managerIdentity, cat))

	_, err = f.categoryService.Get(context.Background(), cat)
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryLabels(t *testing.T) {
	f := newFixture()
	f.createCategory(t, "Trail")
	f.createCategory(t, "CrossFit")

	_, err := f.categoryService.Create(context.Background(), managerIdentity, &dto.CategoryRequest{Label: "Trail"})
	assert.ErrorIs(t, err, apperrors.ErrCategoryAlreadyExists)

	_, err = f.categoryService.Create(context.Background(), managerIdentity, &dto.CategoryRequest{Label: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	list, err := f.categoryService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CrossFit", list[0].Label)
}

func TestTimeSlot_MustStartAfterClosing(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")
	event := f.createSportEvent(t, cat, "01/05/2025", "06/06/2025 18:00")

	_, err := f.timeSlots.Create(context.Background(), managerIdentity, event, &dto.TimeSlotRequest{
		Type: "SETUP", Date: "06/06/2025", StartTime: "17:00", EndTime: "19:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Contains(t, err.Error(), "06/06/2025 18:00")

	slot, err := f.timeSlots.Create(context.Background(), managerIdentity, event, &dto.TimeSlotRequest{
		Type: "setup", Date: "07/06/2025", StartTime: "08:00", EndTime: "10:30", Comment: "Bring gloves",
	})
	require.NoError(t, err)
	assert.Equal(t, "SETUP", slot.Type)
	assert.Equal(t, "08:00", slot.StartTime)
	require.NotNil(t, slot.Comment)
}

func TestTimeSlot_FieldValidation(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")
	event := f.createSportEvent(t, cat, "01/05/2025", "06/06/2025 18:00")

	_, err := f.timeSlots.Create(context.Background(), managerIdentity, event, &dto.TimeSlotRequest{
		Type: "LUNCH", Date: "07/06/2025", StartTime: "10:00", EndTime: "09:00",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "Slot type must be SETUP, EVENT or TEARDOWN.")
}

func TestUpdateSportEvent_ClosingMustStayBeforeSlots(t *testing.T) {
	f := newFixture()
	cat := f.createCategory(t, "Trail")
	event := f.createSportEvent(t, cat, "01/05/2025", "06/06/2025 18:00")
	_, err := f.timeSlots.Create(context.Background(), managerIdentity, event, &dto.TimeSlotRequest{
		Type: "EVENT", Date: "07/06/2025", StartTime: "08:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = f.sportEvents.Update(context.Background(), managerIdentity, event,
		sportEventRequest(cat, "01/05/2025", "07/06/2025 09:00"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	updated, err := f.sportEvents.Update(context.Background(), managerIdentity, event,
		sportEventRequest(cat, "01/05/2025", "07/06/2025 07:00"))
	require.NoError(t, err)
	assert.Equal(t, "07/06/2025 07:00", updated.ClosingAt)
	assert.Len(t, updated.Slots, 1)
}

func TestAssociationEvent_DateOrdering(t *testing.T) {
	f := newFixture()

	_, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "28/06/2025 20:00", "28/06/2025 19:30", false))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("21/06/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	req := associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false)
	req.Price = floatPtr(-1)
	req.IsPrivate = nil
	_, err = f.assocEvents.Create(context.Background(), managerIdentity, req)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)

	assert.Empty(t, f.store.assocEvents)
}

func TestAssociationEvent_PrivateListing(t *testing.T) {
	f := newFixture()
	_, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)
	private, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "29/06/2025 19:30", true))
	require.NoError(t, err)

	anonymous, err := f.assocEvents.List(context.Background(), auth.Anonymous())
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)

	member, err := f.assocEvents.List(context.Background(), auth.Identity{MemberID: 1, Approved: true})
	require.NoError(t, err)
	assert.Len(t, member, 1)

	adherent, err := f.assocEvents.List(context.Background(), auth.Identity{MemberID: 2, Approved: true, Adherent: true})
	require.NoError(t, err)
	require.Len(t, adherent, 2)
	assert.Equal(t, private.ID, adherent[0].ID)

	_, err = f.assocEvents.Get(context.Background(), auth.Anonymous(), private.ID)
	assert.ErrorIs(t, err, apperrors.ErrLoginRequiredForEvent)
}

func TestAssociationEvent_DeleteCascadesParticipations(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)

	m := f.addMember("APPROVED", false)
	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(),
		auth.Identity{MemberID: m.ID, Approved: true}, event.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.assocEvents.Delete(context.Background(), managerIdentity, event.ID))
	assert.Zero(t, f.registrations.participationCount())
}

func TestAssociationEvent_UpdateMovesParticipations(t *testing.T) {
	f := newFixture()
	event, err := f.assocEvents.Create(context.Background(), managerIdentity,
		associationRequest("01/05/2025", "20/06/2025 12:00", "28/06/2025 19:30", false))
	require.NoError(t, err)

	member := auth.Identity{MemberID: f.addMember("APPROVED", false).ID, Approved: true}
	_, err = f.registrationSvc.EnrollAssociationEvent(context.Background(), member, event.ID, 0)
	require.NoError(t, err)

	_, err = f.assocEvents.Update(context.Background(), managerIdentity, event.ID,
		associationRequest("01/05/2025", "20/06/2025 12:00", "05/07/2025 20:00", false))
	require.NoError(t, err)

	mine, err := f.registrationSvc.ListMyRegistrations(context.Background(), member)
	require.NoError(t, err)
	require.Len(t, mine.Participations, 1)
	assert.Equal(t, "05/07/2025 20:00", mine.Participations[0].ParticipationDate)
}
