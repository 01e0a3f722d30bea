package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	pkgauth "github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/Asus75000/sae-prof/internal/pkg/email"
	"github.com/Asus75000/sae-prof/internal/pkg/helpers"
	"github.com/Asus75000/sae-prof/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// MemberService defines the member lifecycle operations
type MemberService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MemberResponse, error)
	GetProfile(ctx context.Context, actor auth.Identity) (*dto.MemberResponse, error)
	UpdateProfile(ctx context.Context, actor auth.Identity, req *dto.UpdateProfileRequest) (*dto.MemberResponse, error)
	GetMember(ctx context.Context, actor auth.Identity, memberID int64) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, actor auth.Identity, query dto.MemberListQuery) (*dto.MemberListResponse, error)
	Approve(ctx context.Context, actor auth.Identity, memberID int64) (*dto.MemberResponse, error)
	Reject(ctx context.Context, actor auth.Identity, memberID int64, reason string) (*dto.MemberResponse, error)
	ToggleManager(ctx context.Context, actor auth.Identity, memberID int64) (*dto.ManagerToggleResponse, error)
	PromoteAdherent(ctx context.Context, actor auth.Identity, memberID int64) (*dto.AdherentResponse, error)
}

// memberServiceImpl implements the MemberService interface
type memberServiceImpl struct {
	memberRepo repositories.IMemberRepository
	notifier   email.Notifier
	clock      Clock
	logger     zerolog.Logger
}

// NewMemberService creates a new member service instance
func NewMemberService(
	memberRepo repositories.IMemberRepository,
	notifier email.Notifier,
	clock Clock,
	logger zerolog.Logger,
) MemberService {
	return &memberServiceImpl{
		memberRepo: memberRepo,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

// Register creates a pending membership request
func (s *memberServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MemberResponse, error) {
	input := validation.MemberInput{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		Phone:       validation.NormalizePhone(req.Phone),
		TShirtSize:  strings.TrimSpace(req.TShirtSize),
		SweaterSize: strings.TrimSpace(req.SweaterSize),
	}
	if err := validation.ValidateRegistration(input).Err(); err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	member := &models.Member{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        optionalText(input.Phone),
		TShirtSize:   input.TShirtSize,
		SweaterSize:  input.SweaterSize,
		Status:       models.MemberStatusPending,
		IsAdherent:   req.Adherent,
	}
	// the unique index catches a concurrent signup with the same email
	if _, err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", member.ID).Msg("Membership request registered")
	resp := toMemberResponse(member)
	return &resp, nil
}

// GetProfile returns the account of the logged-in member
func (s *memberServiceImpl) GetProfile(ctx context.Context, actor auth.Identity) (*dto.MemberResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}
	member, err := s.memberRepo.GetByID(ctx, actor.MemberID)
	if err != nil {
		return nil, err
	}
	resp := toMemberResponse(member)
	return &resp, nil
}

// UpdateProfile changes the editable fields of the actor's own account.
// BecomeAdherent only ever promotes.
func (s *memberServiceImpl) UpdateProfile(ctx context.Context, actor auth.Identity, req *dto.UpdateProfileRequest) (*dto.MemberResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}

	member, err := s.memberRepo.GetByID(ctx, actor.MemberID)
	if err != nil {
		return nil, err
	}

	input := validation.MemberInput{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       validation.NormalizePhone(req.Phone),
		TShirtSize:  strings.TrimSpace(req.TShirtSize),
		SweaterSize: strings.TrimSpace(req.SweaterSize),
	}
	if err := validation.ValidateProfile(input).Err(); err != nil {
		return nil, err
	}

	member.FirstName = input.FirstName
	member.LastName = input.LastName
	member.Phone = optionalText(input.Phone)
	member.TShirtSize = input.TShirtSize
	member.SweaterSize = input.SweaterSize
	if err := s.memberRepo.UpdateProfile(ctx, member); err != nil {
		return nil, err
	}

	if req.BecomeAdherent && !member.IsAdherent {
		if _, err := s.memberRepo.PromoteAdherent(ctx, member.ID); err != nil {
			return nil, err
		}
		member.IsAdherent = true
	}

	resp := toMemberResponse(member)
	return &resp, nil
}

// GetMember returns any member to an admin
func (s *memberServiceImpl) GetMember(ctx context.Context, actor auth.Identity, memberID int64) (*dto.MemberResponse, error) {
	if err := actor.Require(auth.PermManageMembers); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	resp := toMemberResponse(member)
	return &resp, nil
}

// ListMembers returns a filtered page of members, newest first
func (s *memberServiceImpl) ListMembers(ctx context.Context, actor auth.Identity, query dto.MemberListQuery) (*dto.MemberListResponse, error) {
	if err := actor.Require(auth.PermManageMembers); err != nil {
		return nil, err
	}

	status, ok := models.ParseMemberStatus(query.Status)
	if !ok {
		return nil, apperrors.NewValidationError("Unknown member status filter.")
	}

	page := helpers.NewPage(query.Page, query.Size)
	members, total, err := s.memberRepo.List(ctx, models.MemberFilter{
		Status:   status,
		Adherent: query.Adherent,
		Search:   query.Search,
		Offset:   page.Offset(),
		Limit:    page.Limit(),
	})
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	resp := &dto.MemberListResponse{
		Members:        make([]dto.MemberResponse, 0, len(members)),
		PaginationInfo: page.Info(total),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, toMemberResponse(m))
	}
	return resp, nil
}

// Approve validates a membership request and notifies the member
func (s *memberServiceImpl) Approve(ctx context.Context, actor auth.Identity, memberID int64) (*dto.MemberResponse, error) {
	if err := actor.Require(auth.PermManageMembers); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if err := s.memberRepo.SetDecision(ctx, memberID, models.MemberStatusApproved, today, nil); err != nil {
		return nil, err
	}
	member.Status = models.MemberStatusApproved
	member.StatusDate = &today
	member.RejectionReason = nil

	s.logger.Info().Int64("memberID", memberID).Int64("adminID", actor.MemberID).Msg("Member approved")
	if err := s.notifier.SendApprovalEmail(ctx, recipientOf(member)); err != nil {
		s.logger.Warn().Err(err).Int64("memberID", memberID).Msg("Approval email could not be sent")
	}

	resp := toMemberResponse(member)
	return &resp, nil
}

// Reject refuses a membership request with a mandatory reason sent to the member
func (s *memberServiceImpl) Reject(ctx context.Context, actor auth.Identity, memberID int64, reason string) (*dto.MemberResponse, error) {
	if err := actor.Require(auth.PermManageMembers); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("A rejection reason is required.")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if err := s.memberRepo.SetDecision(ctx, memberID, models.MemberStatusRejected, today, &reason); err != nil {
		return nil, err
	}
	member.Status = models.MemberStatusRejected
	member.StatusDate = &today
	member.RejectionReason = &reason
	member.IsManager = false

	s.logger.Info().Int64("memberID", memberID).Int64("adminID", actor.MemberID).Msg("Member rejected")
	if err := s.notifier.SendRejectionEmail(ctx, recipientOf(member), reason); err != nil {
		s.logger.Warn().Err(err).Int64("memberID", memberID).Msg("Rejection email could not be sent")
	}

	resp := toMemberResponse(member)
	return &resp, nil
}

// ToggleManager flips the manager flag of an approved member
func (s *memberServiceImpl) ToggleManager(ctx context.Context, actor auth.Identity, memberID int64) (*dto.ManagerToggleResponse, error) {
	if err := actor.Require(auth.PermManageMembers); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsApproved() {
		return nil, apperrors.ErrManagerNotApproved
	}

	manager := !member.IsManager
	if err := s.memberRepo.SetManager(ctx, memberID, manager); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("memberID", memberID).Bool("manager", manager).Msg("Manager flag changed")
	return &dto.ManagerToggleResponse{MemberID: memberID, IsManager: manager}, nil
}

// PromoteAdherent makes a member an adherent. The member may do it for themself,
// an admin for anyone. It never reverts.
func (s *memberServiceImpl) PromoteAdherent(ctx context.Context, actor auth.Identity, memberID int64) (*dto.AdherentResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}
	if actor.MemberID != memberID && !actor.Can(auth.PermManageMembers) {
		return nil, apperrors.NewForbiddenError("you can only change your own membership")
	}

	changed, err := s.memberRepo.PromoteAdherent(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.logger.Info().Int64("memberID", memberID).Msg("Member became adherent")
	}
	return &dto.AdherentResponse{MemberID: memberID, IsAdherent: true, Changed: changed}, nil
}

func recipientOf(m *models.Member) email.Recipient {
	return email.Recipient{Email: m.Email, FirstName: m.FirstName, LastName: m.LastName}
}
