package controllers

import (
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AssociationEventController handles association event operations
type AssociationEventController struct {
	eventService services.AssociationEventService
}

// NewAssociationEventController creates a new AssociationEventController
func NewAssociationEventController(eventService services.AssociationEventService) *AssociationEventController {
	return &AssociationEventController{eventService: eventService}
}

// List returns the visible association events. Private ones are listed for adherents only.
// @Summary List association events
// @Tags association-events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.AssociationEventResponse}
// @Router /association-events [get]
func (c *AssociationEventController) List(ctx *gin.Context) {
	events, err := c.eventService.List(ctx.Request.Context(), middleware.GetIdentity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// Get returns one association event
// @Summary Get an association event
// @Tags association-events
// @Produce json
// @Param id path int true "Association event ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssociationEventResponse}
// @Failure 401 {object} dto.ErrorResponse "Private event, login required"
// @Failure 403 {object} dto.ErrorResponse "Private event reserved for adherents"
// @Failure 404 {object} dto.ErrorResponse "Association event not found"
// @Router /association-events/{id} [get]
func (c *AssociationEventController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}

	event, err := c.eventService.Get(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, ""))
}

// Create adds an association event
// @Summary Create an association event
// @Tags association-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssociationEventRequest true "Association event"
// @Success 201 {object} dto.APIResponse{data=dto.AssociationEventResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 422 {object} dto.ErrorResponse "Date ordering violated"
// @Router /association-events [post]
func (c *AssociationEventController) Create(ctx *gin.Context) {
	var req dto.AssociationEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), middleware.GetIdentity(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Association event created."))
}

// Update replaces an association event
// @Summary Update an association event
// @Tags association-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Association event ID"
// @Param request body dto.AssociationEventRequest true "Association event"
// @Success 200 {object} dto.APIResponse{data=dto.AssociationEventResponse}
// @Failure 404 {object} dto.ErrorResponse "Association event not found"
// @Failure 422 {object} dto.ErrorResponse "Date ordering violated"
// @Router /association-events/{id} [put]
func (c *AssociationEventController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}
	var req dto.AssociationEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), middleware.GetIdentity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Association event updated."))
}

// Delete removes an association event and its participations
// @Summary Delete an association event
// @Tags association-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Association event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Association event not found"
// @Router /association-events/{id} [delete]
func (c *AssociationEventController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Association event")
	if !ok {
		return
	}

	if err := c.eventService.Delete(ctx.Request.Context(), middleware.GetIdentity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Association event deleted."))
}
