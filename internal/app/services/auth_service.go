package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// AuthService handles authentication operations
type AuthService struct {
	memberRepo repositories.IMemberRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	memberRepo repositories.IMemberRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		memberRepo: memberRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks the credentials of a member and issues an access token.
// Only approved accounts may log in.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)

	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}

	if !auth.CheckPassword(member.PasswordHash, req.Password) {
		s.logger.Debug().Int64("memberID", member.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !member.IsApproved() {
		s.logger.Info().Int64("memberID", member.ID).Str("status", string(member.Status)).Msg("Login rejected: account not approved")
		return nil, apperrors.ErrAccountNotApproved
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(member.ID, member.Email)
	if err != nil {
		s.logger.Error().Err(err).Int64("memberID", member.ID).Msg("Failed to generate access token")
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	s.logger.Info().Int64("memberID", member.ID).Msg("Member logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Member:      toMemberResponse(member),
	}, nil
}
