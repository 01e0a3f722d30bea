package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/db"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/dberrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const memberEmailConstraint = "members_email_key"

var memberColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "phone",
	"tshirt_size", "sweater_size", "status", "status_date", "rejection_reason",
	"is_adherent", "is_manager", "is_admin", "created_at", "updated_at",
}

// IMemberRepository defines the member data access used by the services
type IMemberRepository interface {
	Create(ctx context.Context, member *models.Member) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, int64, error)
	Count(ctx context.Context, filter models.MemberFilter) (int64, error)
	UpdateProfile(ctx context.Context, member *models.Member) error
	SetDecision(ctx context.Context, id int64, status models.MemberStatus, decidedOn time.Time, reason *string) error
	SetManager(ctx context.Context, id int64, manager bool) error
	PromoteAdherent(ctx context.Context, id int64) (bool, error)
}

// MemberRepository handles member database operations
type MemberRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(database *db.PostgresDB) *MemberRepository {
	return &MemberRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	var status string
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PasswordHash, &m.Phone,
		&m.TShirtSize, &m.SweaterSize, &status, &m.StatusDate, &m.RejectionReason,
		&m.IsAdherent, &m.IsManager, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Status = models.MemberStatus(status)
	return &m, nil
}

// Create inserts a member and returns its id
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) (int64, error) {
	sql, args, err := r.sb.Insert("members").
		Columns("first_name", "last_name", "email", "password_hash", "phone",
			"tshirt_size", "sweater_size", "status", "status_date", "is_adherent", "is_manager", "is_admin").
		Values(member.FirstName, member.LastName, member.Email, member.PasswordHash, emptyToNil(member.Phone),
			member.TShirtSize, member.SweaterSize, string(member.Status), member.StatusDate,
			member.IsAdherent, member.IsManager, member.IsAdmin).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create member SQL")
		return 0, fmt.Errorf("failed to build create member query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, memberEmailConstraint) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create member query")
		return 0, fmt.Errorf("error creating member: %w", err)
	}

	return member.ID, nil
}

func (r *MemberRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Member, error) {
	sql, args, err := r.sb.Select(memberColumns...).
		From("members").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get member SQL")
		return nil, fmt.Errorf("failed to build get member query: %w", err)
	}

	member, err := scanMember(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrMemberNotFound
		}
		logger.Error().Err(err).Msg("Error scanning member row")
		return nil, fmt.Errorf("error getting member: %w", err)
	}
	return member, nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a member by email, ignoring case
func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", strings.TrimSpace(email)))
}

// EmailExists checks if an email is already used, ignoring case
func (r *MemberRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("members").
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", strings.TrimSpace(email))).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking member email")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

func applyMemberFilter(q squirrel.SelectBuilder, filter models.MemberFilter) squirrel.SelectBuilder {
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Adherent != nil {
		q = q.Where(squirrel.Eq{"is_adherent": *filter.Adherent})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	return q
}

// List returns a page of members matching filter, newest first, and the total count
func (r *MemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, int64, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	q := applyMemberFilter(r.sb.Select(memberColumns...).From("members"), filter).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list members SQL")
		return nil, 0, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list members query")
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, total, nil
}

// Count returns the number of members matching filter (pagination ignored)
func (r *MemberRepository) Count(ctx context.Context, filter models.MemberFilter) (int64, error) {
	sql, args, err := applyMemberFilter(r.sb.Select("COUNT(*)").From("members"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count members query: %w", err)
	}

	var count int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting members")
		return 0, fmt.Errorf("error counting members: %w", err)
	}
	return count, nil
}

func (r *MemberRepository) execUpdate(ctx context.Context, q squirrel.UpdateBuilder, what string) error {
	sql, args, err := q.Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("update", what).Msg("Error building member update SQL")
		return fmt.Errorf("failed to build %s query: %w", what, err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("update", what).Msg("Error executing member update")
		return fmt.Errorf("error executing %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// UpdateProfile writes the member-editable fields. Email, status and roles are untouched.
func (r *MemberRepository) UpdateProfile(ctx context.Context, member *models.Member) error {
	q := r.sb.Update("members").
		Set("first_name", member.FirstName).
		Set("last_name", member.LastName).
		Set("phone", emptyToNil(member.Phone)).
		Set("tshirt_size", member.TShirtSize).
		Set("sweater_size", member.SweaterSize).
		Where(squirrel.Eq{"id": member.ID})
	return r.execUpdate(ctx, q, "update profile")
}

// SetDecision records an approval or rejection. Any status other than
// APPROVED also clears the manager flag.
func (r *MemberRepository) SetDecision(ctx context.Context, id int64, status models.MemberStatus, decidedOn time.Time, reason *string) error {
	q := r.sb.Update("members").
		Set("status", string(status)).
		Set("status_date", decidedOn).
		Set("rejection_reason", reason).
		Where(squirrel.Eq{"id": id})
	if status != models.MemberStatusApproved {
		q = q.Set("is_manager", false)
	}
	return r.execUpdate(ctx, q, "set member decision")
}

// SetManager sets the manager flag of an approved member
func (r *MemberRepository) SetManager(ctx context.Context, id int64, manager bool) error {
	q := r.sb.Update("members").
		Set("is_manager", manager).
		Where(squirrel.Eq{"id": id})
	return r.execUpdate(ctx, q, "set member manager")
}

// PromoteAdherent flips is_adherent from false to true; it reports false when nothing changed
func (r *MemberRepository) PromoteAdherent(ctx context.Context, id int64) (bool, error) {
	err := r.execUpdate(ctx, r.sb.Update("members").
		Set("is_adherent", true).
		Where(squirrel.Eq{"id": id, "is_adherent": false}), "promote adherent")
	if errors.Is(err, apperrors.ErrMemberNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return false, getErr
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
