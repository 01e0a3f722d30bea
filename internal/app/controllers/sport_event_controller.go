package controllers

import (
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SportEventController handles sport events and their time slots
type SportEventController struct {
	sportEventService services.SportEventService
	timeSlotService   services.TimeSlotService
}

// NewSportEventController creates a new SportEventController
func NewSportEventController(sportEventService services.SportEventService, timeSlotService services.TimeSlotService) *SportEventController {
	return &SportEventController{
		sportEventService: sportEventService,
		timeSlotService:   timeSlotService,
	}
}

// List returns the visible sport events
// @Summary List sport events
// @Description Events whose visibility date has passed, latest closing date first
// @Tags sport-events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SportEventResponse}
// @Router /sport-events [get]
func (c *SportEventController) List(ctx *gin.Context) {
	events, err := c.sportEventService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// Get returns a sport event with its slots
// @Summary Get a sport event
// @Tags sport-events
// @Produce json
// @Param id path int true "Sport event ID"
// @Success 200 {object} dto.APIResponse{data=dto.SportEventResponse}
// @Failure 404 {object} dto.ErrorResponse "Sport event not found"
// @Router /sport-events/{id} [get]
func (c *SportEventController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}

	event, err := c.sportEventService.Get(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// Create adds a sport event
// @Summary Create a sport event
// @Tags sport-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SportEventRequest true "Sport event"
// @Success 201 {object} dto.APIResponse{data=dto.SportEventResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 422 {object} dto.ErrorResponse "Visibility date not before closing date"
// @Router /sport-events [post]
func (c *SportEventController) Create(ctx *gin.Context) {
	var req dto.SportEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.sportEventService.Create(ctx.Request.Context(), middleware.GetIdentity(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Sport event created."))
}

// Update replaces a sport event
// @Summary Update a sport event
// @Tags sport-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Param request body dto.SportEventRequest true "Sport event"
// @Success 200 {object} dto.APIResponse{data=dto.SportEventResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Sport event not found"
// @Failure 422 {object} dto.ErrorResponse "Date ordering violated"
// @Router /sport-events/{id} [put]
func (c *SportEventController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}
	var req dto.SportEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.sportEventService.Update(ctx.Request.Context(), middleware.GetIdentity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Sport event updated."))
}

// Delete removes a sport event, its slots and registrations
// @Summary Delete a sport event
// @Tags sport-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Sport event not found"
// @Router /sport-events/{id} [delete]
func (c *SportEventController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}

	if err := c.sportEventService.Delete(ctx.Request.Context(), middleware.GetIdentity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Sport event deleted."))
}

// ListSlots returns the slots of a sport event
// @Summary List time slots
// @Tags time-slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TimeSlotResponse}
// @Failure 404 {object} dto.ErrorResponse "Sport event not found"
// @Router /sport-events/{id}/time-slots [get]
func (c *SportEventController) ListSlots(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}

	slots, err := c.timeSlotService.List(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slots, ""))
}

// CreateSlot adds a slot to a sport event
// @Summary Create a time slot
// @Tags time-slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sport event ID"
// @Param request body dto.TimeSlotRequest true "Time slot"
// @Success 201 {object} dto.APIResponse{data=dto.TimeSlotResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 422 {object} dto.ErrorResponse "Slot starts before registrations close"
// @Router /sport-events/{id}/time-slots [post]
func (c *SportEventController) CreateSlot(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Sport event")
	if !ok {
		return
	}
	var req dto.TimeSlotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slot, err := c.timeSlotService.Create(ctx.Request.Context(), middleware.GetIdentity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(slot, "Time slot created."))
}

// UpdateSlot replaces a slot
// @Summary Update a time slot
// @Tags time-slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slotId path int true "Time slot ID"
// @Param request body dto.TimeSlotRequest true "Time slot"
// @Success 200 {object} dto.APIResponse{data=dto.TimeSlotResponse}
// @Failure 404 {object} dto.ErrorResponse "Time slot not found"
// @Failure 422 {object} dto.ErrorResponse "Slot starts before registrations close"
// @Router /time-slots/{slotId} [put]
func (c *SportEventController) UpdateSlot(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "slotId", "Time slot")
	if !ok {
		return
	}
	var req dto.TimeSlotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slot, err := c.timeSlotService.Update(ctx.Request.Context(), middleware.GetIdentity(ctx), slotID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(slot, "Time slot updated."))
}

// DeleteSlot removes a slot and its volunteers
// @Summary Delete a time slot
// @Tags time-slots
// @Produce json
// @Security BearerAuth
// @Param slotId path int true "Time slot ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Time slot not found"
// @Router /time-slots/{slotId} [delete]
func (c *SportEventController) DeleteSlot(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "slotId", "Time slot")
	if !ok {
		return
	}

	if err := c.timeSlotService.Delete(ctx.Request.Context(), middleware.GetIdentity(ctx), slotID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Time slot deleted."))
}
