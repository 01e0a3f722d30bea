package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Asus75000/sae-prof/internal/app/models"
	"github.com/Asus75000/sae-prof/internal/db"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/dberrors"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var sportEventColumns = []string{
	"e.id", "e.title", "e.description", "e.location_text", "e.location_map_url",
	"e.visible_date", "e.closing_at", "e.category_id", "e.created_at", "e.updated_at", "c.label",
}

// ISportEventRepository defines sport event data access
type ISportEventRepository interface {
	Create(ctx context.Context, event *models.SportEvent) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SportEvent, error)
	ListVisible(ctx context.Context, day time.Time) ([]*models.SportEvent, error)
	Update(ctx context.Context, event *models.SportEvent) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// SportEventRepository handles sport event database operations
type SportEventRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewSportEventRepository creates a new SportEventRepository
func NewSportEventRepository(database *db.PostgresDB) *SportEventRepository {
	return &SportEventRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanSportEvent(row pgx.Row) (*models.SportEvent, error) {
	var e models.SportEvent
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.LocationText, &e.LocationMapURL,
		&e.VisibleDate, &e.ClosingAt, &e.CategoryID, &e.CreatedAt, &e.UpdatedAt, &e.CategoryLabel,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SportEventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(sportEventColumns...).
		From("sport_events e").
		Join("sport_categories c ON c.id = e.category_id")
}

// Create inserts a sport event
func (r *SportEventRepository) Create(ctx context.Context, event *models.SportEvent) (int64, error) {
	sql, args, err := r.sb.Insert("sport_events").
		Columns("title", "description", "location_text", "location_map_url",
			"visible_date", "closing_at", "category_id").
		Values(event.Title, event.Description, event.LocationText, emptyToNil(event.LocationMapURL),
			event.VisibleDate, event.ClosingAt, event.CategoryID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create sport event SQL")
		return 0, fmt.Errorf("failed to build create sport event query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, sportEventCategoryFKeyName) {
			return 0, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Msg("Error executing create sport event query")
		return 0, fmt.Errorf("error creating sport event: %w", err)
	}
	return event.ID, nil
}

// GetByID retrieves a sport event with its category label
func (r *SportEventRepository) GetByID(ctx context.Context, id int64) (*models.SportEvent, error) {
	sql, args, err := r.selectEvents().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get sport event query: %w", err)
	}

	event, err := scanSportEvent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrSportEventNotFound
		}
		logger.Error().Err(err).Int64("sportEventID", id).Msg("Error getting sport event")
		return nil, fmt.Errorf("error getting sport event: %w", err)
	}
	return event, nil
}

// ListVisible returns the events visible on day, latest closing first
func (r *SportEventRepository) ListVisible(ctx context.Context, day time.Time) ([]*models.SportEvent, error) {
	sql, args, err := r.selectEvents().
		Where(squirrel.LtOrEq{"e.visible_date": day}).
		OrderBy("e.closing_at DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sport events query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing sport events")
		return nil, fmt.Errorf("error listing sport events: %w", err)
	}
	defer rows.Close()

	var events []*models.SportEvent
	for rows.Next() {
		e, err := scanSportEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning sport event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes every editable field of a sport event
func (r *SportEventRepository) Update(ctx context.Context, event *models.SportEvent) error {
	sql, args, err := r.sb.Update("sport_events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("location_text", event.LocationText).
		Set("location_map_url", emptyToNil(event.LocationMapURL)).
		Set("visible_date", event.VisibleDate).
		Set("closing_at", event.ClosingAt).
		Set("category_id", event.CategoryID).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update sport event query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, sportEventCategoryFKeyName) {
			return apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Int64("sportEventID", event.ID).Msg("Error updating sport event")
		return fmt.Errorf("error updating sport event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSportEventNotFound
	}
	return nil
}

// Delete removes a sport event together with its slots and their volunteers
func (r *SportEventRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		volunteers := r.sb.Delete("volunteer_registrations").
			Where(squirrel.Expr("slot_id IN (SELECT id FROM time_slots WHERE sport_event_id = ?)", id))
		if err := execDelete(ctx, tx, volunteers); err != nil {
			logger.Error().Err(err).Int64("sportEventID", id).Msg("Error deleting event volunteers")
			return fmt.Errorf("error deleting event volunteers: %w", err)
		}

		if err := execDelete(ctx, tx, r.sb.Delete("time_slots").Where(squirrel.Eq{"sport_event_id": id})); err != nil {
			logger.Error().Err(err).Int64("sportEventID", id).Msg("Error deleting event time slots")
			return fmt.Errorf("error deleting event time slots: %w", err)
		}

		sql, args, err := r.sb.Delete("sport_events").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete sport event query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("sportEventID", id).Msg("Error deleting sport event")
			return fmt.Errorf("error deleting sport event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrSportEventNotFound
		}
		return nil
	})
}

// Count returns the number of sport events
func (r *SportEventRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb, "sport_events")
}
