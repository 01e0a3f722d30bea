package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/db"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var timeSlotColumns = []string{
	"id", "sport_event_id", "slot_type", "slot_date", "start_time", "end_time", "comment",
}

// ITimeSlotRepository defines time slot data access
type ITimeSlotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.TimeSlot, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.TimeSlot, error)
	Update(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, id int64) error
	EarliestStart(ctx context.Context, eventID int64) (*time.Time, error)
}

// TimeSlotRepository handles time slot database operations
type TimeSlotRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewTimeSlotRepository creates a new TimeSlotRepository
func NewTimeSlotRepository(database *db.PostgresDB) *TimeSlotRepository {
	return &TimeSlotRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanTimeSlot(row pgx.Row) (*models.TimeSlot, error) {
	var s models.TimeSlot
	var slotType string
	var start, end pgtype.Time
	if err := row.Scan(&s.ID, &s.SportEventID, &slotType, &s.SlotDate, &start, &end, &s.Comment); err != nil {
		return nil, err
	}
	s.Type = models.SlotType(slotType)
	s.StartTime = fromPgTime(start)
	s.EndTime = fromPgTime(end)
	return &s, nil
}

// Create inserts a time slot
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) (int64, error) {
	sql, args, err := r.sb.Insert("time_slots").
		Columns("sport_event_id", "slot_type", "slot_date", "start_time", "end_time", "comment").
		Values(slot.SportEventID, string(slot.Type), slot.SlotDate,
			toPgTime(slot.StartTime), toPgTime(slot.EndTime), emptyToNil(slot.Comment)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create time slot SQL")
		return 0, fmt.Errorf("failed to build create time slot query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&slot.ID); err != nil {
		logger.Error().Err(err).Int64("sportEventID", slot.SportEventID).Msg("Error creating time slot")
		return 0, fmt.Errorf("error creating time slot: %w", err)
	}
	return slot.ID, nil
}

// GetByID retrieves a time slot by ID
func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*models.TimeSlot, error) {
	sql, args, err := r.sb.Select(timeSlotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get time slot query: %w", err)
	}

	slot, err := scanTimeSlot(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrTimeSlotNotFound
		}
		logger.Error().Err(err).Int64("slotID", id).Msg("Error getting time slot")
		return nil, fmt.Errorf("error getting time slot: %w", err)
	}
	return slot, nil
}

// ListByEvent returns the slots of an event in chronological order
func (r *TimeSlotRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.TimeSlot, error) {
	sql, args, err := r.sb.Select(timeSlotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"sport_event_id": eventID}).
		OrderBy("slot_date ASC", "start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list time slots query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sportEventID", eventID).Msg("Error listing time slots")
		return nil, fmt.Errorf("error listing time slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.TimeSlot
	for rows.Next() {
		s, err := scanTimeSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning time slot row: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// Update writes the type, schedule and comment of a slot. The owning event never changes.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	sql, args, err := r.sb.Update("time_slots").
		Set("slot_type", string(slot.Type)).
		Set("slot_date", slot.SlotDate).
		Set("start_time", toPgTime(slot.StartTime)).
		Set("end_time", toPgTime(slot.EndTime)).
		Set("comment", emptyToNil(slot.Comment)).
		Where(squirrel.Eq{"id": slot.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update time slot query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("slotID", slot.ID).Msg("Error updating time slot")
		return fmt.Errorf("error updating time slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTimeSlotNotFound
	}
	return nil
}

// Delete removes a slot and its volunteer registrations
func (r *TimeSlotRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := execDelete(ctx, tx, r.sb.Delete("volunteer_registrations").Where(squirrel.Eq{"slot_id": id})); err != nil {
			logger.Error().Err(err).Int64("slotID", id).Msg("Error deleting slot volunteers")
			return fmt.Errorf("error deleting slot volunteers: %w", err)
		}

		sql, args, err := r.sb.Delete("time_slots").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete time slot query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("slotID", id).Msg("Error deleting time slot")
			return fmt.Errorf("error deleting time slot: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrTimeSlotNotFound
		}
		return nil
	})
}

// EarliestStart returns the start of the first slot of an event, nil when it has none
func (r *TimeSlotRepository) EarliestStart(ctx context.Context, eventID int64) (*time.Time, error) {
	slots, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}
	start := slots[0].StartsAt()
	return &start, nil
}
