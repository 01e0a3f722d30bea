package controllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthController handles signup and login
type AuthController struct {
	authService   *services.AuthService
	memberService services.MemberService
	limiter       ratelimit.Limiter
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, memberService services.MemberService, limiter ratelimit.Limiter, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		memberService: memberService,
		limiter:       limiter,
		logger:        logger,
	}
}

// allow consults the limiter. Limiter failures are logged and never block the request.
func (c *AuthController) allow(ctx *gin.Context, action ratelimit.Action) bool {
	decision, err := c.limiter.Check(ctx.Request.Context(), action, ctx.ClientIP())
	if err != nil {
		c.logger.Warn().Err(err).Str("action", string(action)).Msg("Rate limiter unavailable")
		return true
	}
	if decision.Allowed {
		return true
	}

	retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
	c.logger.Warn().Str("action", string(action)).Str("clientIP", ctx.ClientIP()).
		Int("retryAfter", retryAfter).Msg("Too many attempts")
	middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrTooManyAttempts,
		"Too many attempts, please try again later.").
		WithDetails(map[string]interface{}{"retryAfterSeconds": retryAfter}))
	return false
}

func (c *AuthController) recordFailure(ctx *gin.Context, action ratelimit.Action) {
	if err := c.limiter.RecordFailure(ctx.Request.Context(), action, ctx.ClientIP()); err != nil {
		c.logger.Warn().Err(err).Str("action", string(action)).Msg("Failed to record attempt")
	}
}

func (c *AuthController) reset(ctx *gin.Context, action ratelimit.Action) {
	if err := c.limiter.Reset(ctx.Request.Context(), action, ctx.ClientIP()); err != nil {
		c.logger.Warn().Err(err).Str("action", string(action)).Msg("Failed to reset attempts")
	}
}

// Register handles member signup
// @Summary Register a new member
// @Description Creates a membership request. The account stays PENDING until an administrator approves it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Signup form"
// @Success 201 {object} dto.APIResponse{data=dto.MemberResponse} "Membership request registered"
// @Failure 400 {object} dto.ErrorResponse "Validation failed, every violation is listed in details"
// @Failure 409 {object} dto.ErrorResponse "Account cannot be created"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	if !c.allow(ctx, ratelimit.ActionRegister) {
		return
	}

	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		c.recordFailure(ctx, ratelimit.ActionRegister)
		return
	}

	member, err := c.memberService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.recordFailure(ctx, ratelimit.ActionRegister)
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.reset(ctx, ratelimit.ActionRegister)

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(member,
		"Your membership request has been registered. You will receive an email once it has been reviewed."))
}

// Login handles member login
// @Summary Member login
// @Description Authenticates an approved member and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account not validated yet"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	if !c.allow(ctx, ratelimit.ActionLogin) {
		return
	}

	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.recordFailure(ctx, ratelimit.ActionLogin)
		}
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.reset(ctx, ratelimit.ActionLogin)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Welcome "+resp.Member.FirstName+"!"))
}
