package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Asus75000/sae-prof/internal/db"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Repositories holds all the repository instances
type Repositories struct {
	MemberRepository           *MemberRepository
	CategoryRepository         *CategoryRepository
	SportEventRepository       *SportEventRepository
	TimeSlotRepository         *TimeSlotRepository
	AssociationEventRepository *AssociationEventRepository
	RegistrationRepository     *RegistrationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		MemberRepository:           NewMemberRepository(database),
		CategoryRepository:         NewCategoryRepository(database),
		SportEventRepository:       NewSportEventRepository(database),
		TimeSlotRepository:         NewTimeSlotRepository(database),
		AssociationEventRepository: NewAssociationEventRepository(database),
		RegistrationRepository:     NewRegistrationRepository(database),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// TIME columns travel as pgtype.Time (microseconds since midnight)
func toPgTime(d time.Duration) pgtype.Time {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) time.Duration {
	return time.Duration(t.Microseconds) * time.Microsecond
}

// emptyToNil stores optional text as NULL
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// execDelete runs a delete whose affected row count does not matter
func execDelete(ctx context.Context, q db.Querier, del squirrel.DeleteBuilder) error {
	sql, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	_, err = q.Exec(ctx, sql, args...)
	return err
}

func countRows(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, table string) (int64, error) {
	sql, args, err := sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error counting rows")
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return count, nil
}
