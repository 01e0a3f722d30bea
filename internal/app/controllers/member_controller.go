package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
)

const minRejectionReason = 10

// MemberController handles the member's own account and the admin member pages
type MemberController struct {
	memberService services.MemberService
	queryDecoder  *schema.Decoder
}

// NewMemberController creates a new MemberController
func NewMemberController(memberService services.MemberService) *MemberController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &MemberController{
		memberService: memberService,
		queryDecoder:  decoder,
	}
}

// GetProfile returns the logged-in member
// @Summary Get my profile
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MemberResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /me [get]
func (c *MemberController) GetProfile(ctx *gin.Context) {
	member, err := c.memberService.GetProfile(ctx.Request.Context(), middleware.GetIdentity(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, ""))
}

// UpdateProfile edits the logged-in member's profile
// @Summary Update my profile
// @Description Only names, phone and sizes are editable. becomeAdherent=true opts in as adherent.
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.MemberResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /me [put]
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.memberService.UpdateProfile(ctx.Request.Context(), middleware.GetIdentity(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, "Your profile has been updated."))
}

// BecomeAdherent promotes the logged-in member to adherent
// @Summary Become adherent
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdherentResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /me/adherent [post]
func (c *MemberController) BecomeAdherent(ctx *gin.Context) {
	identity := middleware.GetIdentity(ctx)
	c.promote(ctx, identity.MemberID)
}

// PromoteAdherent promotes any member to adherent
// @Summary Promote a member to adherent
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdherentResponse}
// @Failure 403 {object} dto.ErrorResponse "Administrators only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id}/adherent [post]
func (c *MemberController) PromoteAdherent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Member")
	if !ok {
		return
	}
	c.promote(ctx, id)
}

func (c *MemberController) promote(ctx *gin.Context, memberID int64) {
	resp, err := c.memberService.PromoteAdherent(ctx.Request.Context(), middleware.GetIdentity(ctx), memberID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	message := "Membership already active."
	if resp.Changed {
		message = "Welcome as an adherent of the association!"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, message))
}

// ListMembers lists members for the administrators
// @Summary List members
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param adherent query bool false "Adherent filter"
// @Param q query string false "Search on names and email"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.MemberListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filters"
// @Failure 403 {object} dto.ErrorResponse "Administrators only"
// @Router /admin/members [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	var query dto.MemberListQuery
	if err := c.queryDecoder.Decode(&query, ctx.Request.URL.Query()); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid query parameters."))
		return
	}

	resp, err := c.memberService.ListMembers(ctx.Request.Context(), middleware.GetIdentity(ctx), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// GetMember returns one member
// @Summary Get a member
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.MemberResponse}
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id} [get]
func (c *MemberController) GetMember(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Member")
	if !ok {
		return
	}

	member, err := c.memberService.GetMember(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, ""))
}

// Approve validates a membership request
// @Summary Approve a member
// @Description Sets the status to APPROVED and sends the approval email (best effort)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.MemberResponse}
// @Failure 403 {object} dto.ErrorResponse "Administrators only"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id}/approve [post]
func (c *MemberController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Member")
	if !ok {
		return
	}

	member, err := c.memberService.Approve(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, "The member has been approved."))
}

// Reject refuses a membership request
// @Summary Reject a member
// @Description Sets the status to REJECTED, stores the reason and sends the rejection email (best effort)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param request body dto.RejectMemberRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.MemberResponse}
// @Failure 400 {object} dto.ErrorResponse "Reason missing or shorter than 10 characters"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id}/reject [post]
func (c *MemberController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Member")
	if !ok {
		return
	}
	var req dto.RejectMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Reason)) < minRejectionReason {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(
			fmt.Sprintf("The rejection reason must be at least %d characters.", minRejectionReason)))
		return
	}

	member, err := c.memberService.Reject(ctx.Request.Context(), middleware.GetIdentity(ctx), id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member, "The member has been rejected."))
}

// ToggleManager flips the manager flag of an approved member
// @Summary Toggle manager rights
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.ManagerToggleResponse}
// @Failure 403 {object} dto.ErrorResponse "Only approved members can be managers"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id}/toggle-manager [post]
func (c *MemberController) ToggleManager(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Member")
	if !ok {
		return
	}

	resp, err := c.memberService.ToggleManager(ctx.Request.Context(), middleware.GetIdentity(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	message := "Manager rights removed."
	if resp.IsManager {
		message = "Manager rights granted."
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, message))
}
