package controllers

import (
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegistrationController handles volunteer and participant registrations
type RegistrationController struct {
	registrationService services.RegistrationService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService) *RegistrationController {
	return &RegistrationController{registrationService: registrationService}
}

// EnrollSlots registers the member on slots of a sport event
// @Summary Volunteer on time slots
// @Description Slots already held are reported in alreadyRegistered, not rejected
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Param request body dto.EnrollSlotsRequest true "Selected slots"
// @Success 200 {object} dto.APIResponse{data=dto.SlotEnrollmentResponse}
// @Failure 400 {object} dto.ErrorResponse "No slot selected or slot outside the event"
// @Failure 422 {object} dto.ErrorResponse "Registrations closed"
// @Router /sport-events/{id}/registrations [post]
func (c *RegistrationController) EnrollSlots(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}
	var req dto.EnrollSlotsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.registrationService.EnrollSlots(ctx.Request.Context(), middleware.GetIdentity(ctx), eventID, req.SlotIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Thank you for volunteering!"))
}

// UnenrollSportEvent drops every slot registration of the member on an event
// @Summary Withdraw from a sport event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Success 200 {object} dto.APIResponse
// @Router /sport-events/{id}/registrations [delete]
func (c *RegistrationController) UnenrollSportEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}

	if err := c.registrationService.UnenrollSportEvent(ctx.Request.Context(), middleware.GetIdentity(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Your registration has been cancelled."))
}

// UnenrollSlot drops one slot registration of the member
// @Summary Withdraw from a time slot
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param slotId path int true "Time slot ID"
// @Success 200 {object} dto.APIResponse
// @Router /time-slots/{slotId}/registration [delete]
func (c *RegistrationController) UnenrollSlot(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "slotId", "Time slot")
	if !ok {
		return
	}

	if err := c.registrationService.UnenrollSlot(ctx.Request.Context(), middleware.GetIdentity(ctx), slotID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Your registration has been cancelled."))
}

// EnrollAssociationEvent registers the member on an association event
// @Summary Register to an association event
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Association event ID"
// @Param request body dto.EnrollAssociationRequest true "Guests"
// @Success 201 {object} dto.APIResponse{data=dto.ParticipationResponse}
// @Failure 400 {object} dto.ErrorResponse "Guest count out of range"
// @Failure 403 {object} dto.ErrorResponse "Private event reserved for adherents"
// @Failure 409 {object} dto.ErrorResponse "Already registered"
// @Failure 422 {object} dto.ErrorResponse "Registrations closed"
// @Router /association-events/{id}/registrations [post]
func (c *RegistrationController) EnrollAssociationEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}
	var req dto.EnrollAssociationRequest
	// an empty body means no guests
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	resp, err := c.registrationService.EnrollAssociationEvent(ctx.Request.Context(), middleware.GetIdentity(ctx), eventID, req.GuestCount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Your registration has been saved."))
}

// UnenrollAssociationEvent drops the member's participation
// @Summary Cancel an association event registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Association event ID"
// @Success 200 {object} dto.APIResponse
// @Router /association-events/{id}/registrations [delete]
func (c *RegistrationController) UnenrollAssociationEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}

	if err := c.registrationService.UnenrollAssociationEvent(ctx.Request.Context(), middleware.GetIdentity(ctx), eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Your registration has been cancelled."))
}

// ListMine returns everything the member is registered on
// @Summary List my registrations
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MyRegistrationsResponse}
// @Router /me/registrations [get]
func (c *RegistrationController) ListMine(ctx *gin.Context) {
	resp, err := c.registrationService.ListMyRegistrations(ctx.Request.Context(), middleware.GetIdentity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// ListSlotVolunteers returns the volunteers of a slot
// @Summary List slot volunteers
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param slotId path int true "Time slot ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SlotVolunteerResponse}
// @Failure 403 {object} dto.ErrorResponse "Managers only"
// @Failure 404 {object} dto.ErrorResponse "Time slot not found"
// @Router /time-slots/{slotId}/volunteers [get]
func (c *RegistrationController) ListSlotVolunteers(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "slotId", "Time slot")
	if !ok {
		return
	}

	volunteers, err := c.registrationService.ListSlotVolunteers(ctx.Request.Context(), middleware.GetIdentity(ctx), slotID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(volunteers, ""))
}

// SetPresence marks a volunteer present or absent
// @Summary Record volunteer presence
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotId path int true "Time slot ID"
// @Param memberId path int true "Member ID"
// @Param request body dto.PresenceRequest true "Presence"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /time-slots/{slotId}/volunteers/{memberId}/presence [put]
func (c *RegistrationController) SetPresence(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "slotId", "Time slot")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(ctx, "memberId", "Member")
	if !ok {
		return
	}
	var req dto.PresenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	err := c.registrationService.SetVolunteerPresence(ctx.Request.Context(), middleware.GetIdentity(ctx), slotID, memberID, *req.Present)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Presence updated."))
}

// ListParticipants returns the participants of an association event
// @Summary List participants
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Association event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipantListResponse}
// @Failure 403 {object} dto.ErrorResponse "Managers only"
// @Failure 404 {object} dto.ErrorResponse "Association event not found"
// @Router /association-events/{id}/participants [get]
func (c *RegistrationController) ListParticipants(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}

	resp, err := c.registrationService.ListParticipants(ctx.Request.Context(), middleware.GetIdentity(ctx), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
