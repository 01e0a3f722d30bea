package repositories

import (
	"context"
	"fmt"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/db"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/dberrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const participationKey = "participations_pkey"

// IRegistrationRepository defines volunteer and participation data access
type IRegistrationRepository interface {
	AddVolunteer(ctx context.Context, memberID int64, slotIDs []int64) ([]int64, error)
	RemoveVolunteer(ctx context.Context, memberID, slotID int64) error
	RemoveVolunteerFromEvent(ctx context.Context, memberID, eventID int64) error
	VolunteerSlotIDs(ctx context.Context, memberID, eventID int64) ([]int64, error)
	ListMemberSlots(ctx context.Context, memberID int64) ([]*models.MemberSlotRegistration, error)
	ListSlotVolunteers(ctx context.Context, slotID int64) ([]*models.SlotVolunteer, error)
	SetPresence(ctx context.Context, slotID, memberID int64, present bool) error

	AddParticipation(ctx context.Context, p *models.Participation) error
	IsParticipating(ctx context.Context, memberID, eventID int64) (bool, error)
	RemoveParticipation(ctx context.Context, memberID, eventID int64) error
	ListMemberParticipations(ctx context.Context, memberID int64) ([]*models.MemberParticipation, error)
	ListParticipants(ctx context.Context, eventID int64) ([]*models.EventParticipant, error)
}

// RegistrationRepository handles volunteer registrations and participations
type RegistrationRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(database *db.PostgresDB) *RegistrationRepository {
	return &RegistrationRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// AddVolunteer registers a member on several slots in one transaction. Slots the
// member already holds are skipped; the ids actually inserted are returned.
func (r *RegistrationRepository) AddVolunteer(ctx context.Context, memberID int64, slotIDs []int64) ([]int64, error) {
	var added []int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		added = added[:0]
		for _, slotID := range slotIDs {
			sql, args, err := r.sb.Insert("volunteer_registrations").
				Columns("member_id", "slot_id").
				Values(memberID, slotID).
				Suffix("ON CONFLICT (member_id, slot_id) DO NOTHING RETURNING slot_id").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build add volunteer query: %w", err)
			}

			var inserted int64
			if err := tx.QueryRow(ctx, sql, args...).Scan(&inserted); err != nil {
				if isNoRows(err) {
					continue
				}
				logger.Error().Err(err).Int64("memberID", memberID).Int64("slotID", slotID).Msg("Error adding volunteer")
				return fmt.Errorf("error adding volunteer: %w", err)
			}
			added = append(added, inserted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveVolunteer drops one slot registration. Nothing to delete is not an error.
func (r *RegistrationRepository) RemoveVolunteer(ctx context.Context, memberID, slotID int64) error {
	del := r.sb.Delete("volunteer_registrations").
		Where(squirrel.Eq{"member_id": memberID, "slot_id": slotID})
	if err := execDelete(ctx, r.db.Pool, del); err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Int64("slotID", slotID).Msg("Error removing volunteer")
		return fmt.Errorf("error removing volunteer: %w", err)
	}
	return nil
}

// RemoveVolunteerFromEvent drops every slot registration of a member on one sport event
func (r *RegistrationRepository) RemoveVolunteerFromEvent(ctx context.Context, memberID, eventID int64) error {
	del := r.sb.Delete("volunteer_registrations").
		Where(squirrel.Eq{"member_id": memberID}).
		Where(squirrel.Expr("slot_id IN (SELECT id FROM time_slots WHERE sport_event_id = ?)", eventID))
	if err := execDelete(ctx, r.db.Pool, del); err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Int64("sportEventID", eventID).Msg("Error removing event volunteer")
		return fmt.Errorf("error removing event volunteer: %w", err)
	}
	return nil
}

// VolunteerSlotIDs lists the slots of an event the member is registered on
func (r *RegistrationRepository) VolunteerSlotIDs(ctx context.Context, memberID, eventID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("vr.slot_id").
		From("volunteer_registrations vr").
		Join("time_slots ts ON ts.id = vr.slot_id").
		Where(squirrel.Eq{"vr.member_id": memberID, "ts.sport_event_id": eventID}).
		OrderBy("vr.slot_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build volunteer slots query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error listing volunteer slots")
		return nil, fmt.Errorf("error listing volunteer slots: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning volunteer slots: %w", err)
	}
	return ids, nil
}

// ListMemberSlots returns the slot registrations of a member with their event, latest first
func (r *RegistrationRepository) ListMemberSlots(ctx context.Context, memberID int64) ([]*models.MemberSlotRegistration, error) {
	sql, args, err := r.sb.Select(
		"ts.id", "ts.sport_event_id", "ts.slot_type", "ts.slot_date", "ts.start_time", "ts.end_time", "ts.comment",
		"e.title", "e.location_text", "c.label", "vr.is_present",
	).
		From("volunteer_registrations vr").
		Join("time_slots ts ON ts.id = vr.slot_id").
		Join("sport_events e ON e.id = ts.sport_event_id").
		Join("sport_categories c ON c.id = e.category_id").
		Where(squirrel.Eq{"vr.member_id": memberID}).
		OrderBy("ts.slot_date DESC", "ts.start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member slots query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error listing member slots")
		return nil, fmt.Errorf("error listing member slots: %w", err)
	}
	defer rows.Close()

	var regs []*models.MemberSlotRegistration
	for rows.Next() {
		var reg models.MemberSlotRegistration
		var slotType string
		var start, end pgtype.Time
		if err := rows.Scan(
			&reg.Slot.ID, &reg.Slot.SportEventID, &slotType, &reg.Slot.SlotDate, &start, &end, &reg.Slot.Comment,
			&reg.EventTitle, &reg.EventLocation, &reg.CategoryLabel, &reg.IsPresent,
		); err != nil {
			return nil, fmt.Errorf("error scanning member slot row: %w", err)
		}
		reg.Slot.Type = models.SlotType(slotType)
		reg.Slot.StartTime = fromPgTime(start)
		reg.Slot.EndTime = fromPgTime(end)
		reg.EventID = reg.Slot.SportEventID
		regs = append(regs, &reg)
	}
	return regs, rows.Err()
}

// ListSlotVolunteers returns the members registered on a slot, by name
func (r *RegistrationRepository) ListSlotVolunteers(ctx context.Context, slotID int64) ([]*models.SlotVolunteer, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.first_name", "m.last_name", "m.email", "m.phone", "m.tshirt_size", "vr.is_present", "vr.created_at",
	).
		From("volunteer_registrations vr").
		Join("members m ON m.id = vr.member_id").
		Where(squirrel.Eq{"vr.slot_id": slotID}).
		OrderBy("m.last_name ASC", "m.first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build slot volunteers query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", slotID).Msg("Error listing slot volunteers")
		return nil, fmt.Errorf("error listing slot volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []*models.SlotVolunteer
	for rows.Next() {
		var v models.SlotVolunteer
		if err := rows.Scan(&v.MemberID, &v.FirstName, &v.LastName, &v.Email, &v.Phone,
			&v.TShirtSize, &v.IsPresent, &v.RegisteredAt); err != nil {
			return nil, fmt.Errorf("error scanning slot volunteer row: %w", err)
		}
		volunteers = append(volunteers, &v)
	}
	return volunteers, rows.Err()
}

// SetPresence marks whether a volunteer showed up
func (r *RegistrationRepository) SetPresence(ctx context.Context, slotID, memberID int64, present bool) error {
	sql, args, err := r.sb.Update("volunteer_registrations").
		Set("is_present", present).
		Where(squirrel.Eq{"member_id": memberID, "slot_id": slotID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set presence query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", slotID).Int64("memberID", memberID).Msg("Error setting presence")
		return fmt.Errorf("error setting presence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// AddParticipation registers a member on an association event
func (r *RegistrationRepository) AddParticipation(ctx context.Context, p *models.Participation) error {
	sql, args, err := r.sb.Insert("participations").
		Columns("member_id", "association_event_id", "payment_confirmed", "guest_count", "participation_date").
		Values(p.MemberID, p.AssociationEventID, p.PaymentConfirmed, p.GuestCount, p.ParticipationDate).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add participation query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, participationKey) {
			return apperrors.ErrAlreadyRegistered
		}
		logger.Error().Err(err).Int64("memberID", p.MemberID).Int64("associationEventID", p.AssociationEventID).
			Msg("Error adding participation")
		return fmt.Errorf("error adding participation: %w", err)
	}
	return nil
}

// IsParticipating reports whether a member is registered on an association event
func (r *RegistrationRepository) IsParticipating(ctx context.Context, memberID, eventID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("participations").
		Where(squirrel.Eq{"member_id": memberID, "association_event_id": eventID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build participation exists query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error checking participation")
		return false, fmt.Errorf("error checking participation: %w", err)
	}
	return exists, nil
}

// RemoveParticipation drops a participation. Nothing to delete is not an error.
func (r *RegistrationRepository) RemoveParticipation(ctx context.Context, memberID, eventID int64) error {
	del := r.sb.Delete("participations").
		Where(squirrel.Eq{"member_id": memberID, "association_event_id": eventID})
	if err := execDelete(ctx, r.db.Pool, del); err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Int64("associationEventID", eventID).Msg("Error removing participation")
		return fmt.Errorf("error removing participation: %w", err)
	}
	return nil
}

// ListMemberParticipations returns the association events a member attends, latest first
func (r *RegistrationRepository) ListMemberParticipations(ctx context.Context, memberID int64) ([]*models.MemberParticipation, error) {
	columns := []string{
		"p.member_id", "p.association_event_id", "p.payment_confirmed", "p.guest_count",
		"p.participation_date", "p.created_at",
	}
	for _, c := range associationEventColumns {
		columns = append(columns, "e."+c)
	}

	sql, args, err := r.sb.Select(columns...).
		From("participations p").
		Join("association_events e ON e.id = p.association_event_id").
		Where(squirrel.Eq{"p.member_id": memberID}).
		OrderBy("e.event_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member participations query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", memberID).Msg("Error listing member participations")
		return nil, fmt.Errorf("error listing member participations: %w", err)
	}
	defer rows.Close()

	var list []*models.MemberParticipation
	for rows.Next() {
		var mp models.MemberParticipation
		p, e := &mp.Participation, &mp.Event
		if err := rows.Scan(
			&p.MemberID, &p.AssociationEventID, &p.PaymentConfirmed, &p.GuestCount, &p.ParticipationDate, &p.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.LocationText, &e.LocationMapURL, &e.VisibleDate,
			&e.ClosingAt, &e.EventAt, &e.Price, &e.IsPrivate, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning member participation row: %w", err)
		}
		list = append(list, &mp)
	}
	return list, rows.Err()
}

// ListParticipants returns the members registered on an association event, by name
func (r *RegistrationRepository) ListParticipants(ctx context.Context, eventID int64) ([]*models.EventParticipant, error) {
	sql, args, err := r.sb.Select(
		"m.id", "m.first_name", "m.last_name", "m.email", "m.phone",
		"p.guest_count", "p.payment_confirmed", "p.created_at",
	).
		From("participations p").
		Join("members m ON m.id = p.member_id").
		Where(squirrel.Eq{"p.association_event_id": eventID}).
		OrderBy("m.last_name ASC", "m.first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("associationEventID", eventID).Msg("Error listing participants")
		return nil, fmt.Errorf("error listing participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.EventParticipant
	for rows.Next() {
		var p models.EventParticipant
		if err := rows.Scan(&p.MemberID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
			&p.GuestCount, &p.PaymentConfirmed, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}
