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
)

var associationEventColumns = []string{
	"id", "title", "description", "location_text", "location_map_url", "visible_date",
	"closing_at", "event_at", "price", "is_private", "created_at", "updated_at",
}

// IAssociationEventRepository defines association event data access
type IAssociationEventRepository interface {
	Create(ctx context.Context, event *models.AssociationEvent) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.AssociationEvent, error)
	ListVisible(ctx context.Context, day time.Time, includePrivate bool) ([]*models.AssociationEvent, error)
	Update(ctx context.Context, event *models.AssociationEvent) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// AssociationEventRepository handles association event database operations
type AssociationEventRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewAssociationEventRepository creates a new AssociationEventRepository
func NewAssociationEventRepository(database *db.PostgresDB) *AssociationEventRepository {
	return &AssociationEventRepository{
		db: database,
		sb: statementBuilder(),
	}
}

func scanAssociationEvent(row pgx.Row) (*models.AssociationEvent, error) {
	var e models.AssociationEvent
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.LocationText, &e.LocationMapURL, &e.VisibleDate,
		&e.ClosingAt, &e.EventAt, &e.Price, &e.IsPrivate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an association event
func (r *AssociationEventRepository) Create(ctx context.Context, event *models.AssociationEvent) (int64, error) {
	sql, args, err := r.sb.Insert("association_events").
		Columns("title", "description", "location_text", "location_map_url",
			"visible_date", "closing_at", "event_at", "price", "is_private").
		Values(event.Title, event.Description, event.LocationText, emptyToNil(event.LocationMapURL),
			event.VisibleDate, event.ClosingAt, event.EventAt, event.Price, event.IsPrivate).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create association event SQL")
		return 0, fmt.Errorf("failed to build create association event query: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create association event query")
		return 0, fmt.Errorf("error creating association event: %w", err)
	}
	return event.ID, nil
}

// GetByID retrieves an association event by ID
func (r *AssociationEventRepository) GetByID(ctx context.Context, id int64) (*models.AssociationEvent, error) {
	sql, args, err := r.sb.Select(associationEventColumns...).
		From("association_events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get association event query: %w", err)
	}

	event, err := scanAssociationEvent(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAssociationEventNotFound
		}
		logger.Error().Err(err).Int64("associationEventID", id).Msg("Error getting association event")
		return nil, fmt.Errorf("error getting association event: %w", err)
	}
	return event, nil
}

// ListVisible returns the events visible on day, latest first. Private events
// are left out unless includePrivate is set.
func (r *AssociationEventRepository) ListVisible(ctx context.Context, day time.Time, includePrivate bool) ([]*models.AssociationEvent, error) {
	q := r.sb.Select(associationEventColumns...).
		From("association_events").
		Where(squirrel.LtOrEq{"visible_date": day})
	if !includePrivate {
		q = q.Where(squirrel.Eq{"is_private": false})
	}

	sql, args, err := q.OrderBy("event_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list association events query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing association events")
		return nil, fmt.Errorf("error listing association events: %w", err)
	}
	defer rows.Close()

	var events []*models.AssociationEvent
	for rows.Next() {
		e, err := scanAssociationEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning association event row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes every editable field of an association event. Participations
// follow the event date.
func (r *AssociationEventRepository) Update(ctx context.Context, event *models.AssociationEvent) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.updateEvent(ctx, tx, event); err != nil {
			return err
		}

		sql, args, err := r.sb.Update("participations").
			Set("participation_date", event.EventAt).
			Where(squirrel.Eq{"association_event_id": event.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update participations query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("associationEventID", event.ID).Msg("Error moving participations")
			return fmt.Errorf("error updating participation dates: %w", err)
		}
		return nil
	})
}

func (r *AssociationEventRepository) updateEvent(ctx context.Context, tx pgx.Tx, event *models.AssociationEvent) error {
	sql, args, err := r.sb.Update("association_events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("location_text", event.LocationText).
		Set("location_map_url", emptyToNil(event.LocationMapURL)).
		Set("visible_date", event.VisibleDate).
		Set("closing_at", event.ClosingAt).
		Set("event_at", event.EventAt).
		Set("price", event.Price).
		Set("is_private", event.IsPrivate).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update association event query: %w", err)
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("associationEventID", event.ID).Msg("Error updating association event")
		return fmt.Errorf("error updating association event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssociationEventNotFound
	}
	return nil
}

// Delete removes an association event and its participations
func (r *AssociationEventRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := execDelete(ctx, tx, r.sb.Delete("participations").Where(squirrel.Eq{"association_event_id": id})); err != nil {
			logger.Error().Err(err).Int64("associationEventID", id).Msg("Error deleting participations")
			return fmt.Errorf("error deleting participations: %w", err)
		}

		sql, args, err := r.sb.Delete("association_events").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete association event query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("associationEventID", id).Msg("Error deleting association event")
			return fmt.Errorf("error deleting association event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAssociationEventNotFound
		}
		return nil
	})
}

// Count returns the number of association events
func (r *AssociationEventRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb, "association_events")
}
