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
)

const (
	categoryLabelConstraint    = "sport_categories_label_key"
	sportEventCategoryFKeyName = "sport_events_category_fkey"
)

// ICategoryRepository defines sport category data access
type ICategoryRepository interface {
	Create(ctx context.Context, category *models.SportCategory) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SportCategory, error)
	List(ctx context.Context) ([]*models.SportCategory, error)
	Update(ctx context.Context, category *models.SportCategory) error
	Delete(ctx context.Context, id int64) error
	CountEvents(ctx context.Context, id int64) (int64, error)
}

// CategoryRepository handles sport category database operations
type CategoryRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(database *db.PostgresDB) *CategoryRepository {
	return &CategoryRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.SportCategory) (int64, error) {
	sql, args, err := r.sb.Insert("sport_categories").
		Columns("label").
		Values(category.Label).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create category SQL")
		return 0, fmt.Errorf("failed to build create category query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&category.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, categoryLabelConstraint) {
			return 0, apperrors.ErrCategoryAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create category query")
		return 0, fmt.Errorf("error creating category: %w", err)
	}
	return category.ID, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.SportCategory, error) {
	sql, args, err := r.sb.Select("id", "label").
		From("sport_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	var c models.SportCategory
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Label); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error getting category")
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return &c, nil
}

// List returns every category ordered by label
func (r *CategoryRepository) List(ctx context.Context) ([]*models.SportCategory, error) {
	sql, args, err := r.sb.Select("id", "label").
		From("sport_categories").
		OrderBy("label ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing categories")
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.SportCategory
	for rows.Next() {
		var c models.SportCategory
		if err := rows.Scan(&c.ID, &c.Label); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Update renames a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.SportCategory) error {
	sql, args, err := r.sb.Update("sport_categories").
		Set("label", category.Label).
		Where(squirrel.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update category query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, categoryLabelConstraint) {
			return apperrors.ErrCategoryAlreadyExists
		}
		logger.Error().Err(err).Int64("categoryID", category.ID).Msg("Error updating category")
		return fmt.Errorf("error updating category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CountEvents counts the sport events referencing a category
func (r *CategoryRepository) CountEvents(ctx context.Context, id int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("sport_events").
		Where(squirrel.Eq{"category_id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count category events query: %w", err)
	}

	var count int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error counting category events")
		return 0, fmt.Errorf("error counting category events: %w", err)
	}
	return count, nil
}

// Delete removes a category. The foreign key rejects the delete if an event
// was attached since the caller's CountEvents check.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("sport_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete category query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, sportEventCategoryFKeyName) {
			return apperrors.ErrCategoryInUse
		}
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error deleting category")
		return fmt.Errorf("error deleting category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
