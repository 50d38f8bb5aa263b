package store

import (
	"binaahub/internal/utils"
	"binaahub/pkg/types"
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requirementTableName = "binaahub.document_requirements"

var requirementColumns = utils.StructTagValues(types.RequirementDefinition{})

type RequirementRepository struct {
	pool *pgxpool.Pool
}

func NewRequirementRepository(pool *pgxpool.Pool) *RequirementRepository {
	return &RequirementRepository{pool: pool}
}

// RequirementsByRole returns the active requirement catalog for one role.
func (r *RequirementRepository) RequirementsByRole(ctx context.Context, role types.Role) ([]*types.RequirementDefinition, error) {
	query, args, err := psql().
		Select(requirementColumns...).
		From(requirementTableName).
		Where(sq.Eq{"role": role, "is_active": true}).
		OrderBy("display_order ASC", "label ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requirements query: %w", err)
	}

	var requirements []*types.RequirementDefinition
	err = pgxscan.Select(ctx, r.pool, &requirements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	return requirements, nil
}

func (r *RequirementRepository) Requirement(ctx context.Context, id string) (*types.RequirementDefinition, error) {
	query, args, err := psql().
		Select(requirementColumns...).
		From(requirementTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requirement query: %w", err)
	}

	var requirement types.RequirementDefinition
	err = pgxscan.Get(ctx, r.pool, &requirement, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequirementNotFound
		}
		return nil, fmt.Errorf("failed to fetch requirement: %w", err)
	}

	return &requirement, nil
}

// AllRequirementsUnfiltered returns every requirement row, including
// inactive ones. Used by the seed sync.
func (r *RequirementRepository) AllRequirementsUnfiltered(ctx context.Context) ([]*types.RequirementDefinition, error) {
	query, args, err := psql().
		Select(requirementColumns...).
		From(requirementTableName).
		OrderBy("role ASC", "display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requirements query: %w", err)
	}

	var requirements []*types.RequirementDefinition
	err = pgxscan.Select(ctx, r.pool, &requirements, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	return requirements, nil
}

func (r *RequirementRepository) UpsertRequirement(ctx context.Context, requirement *types.RequirementDefinition) error {
	values := utils.StructToMap(requirement)
	delete(values, "created_at")
	delete(values, "updated_at")

	columns := make([]string, 0, len(values))
	rowValues := make([]any, 0, len(values))
	updates := make([]string, 0, len(values))
	for _, column := range requirementColumns {
		value, ok := values[column]
		if !ok {
			continue
		}
		columns = append(columns, column)
		rowValues = append(rowValues, value)
		if column != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
		}
	}
	updates = append(updates, "updated_at = now()")

	query, args, err := psql().
		Insert(requirementTableName).
		Columns(columns...).
		Values(rowValues...).
		Suffix(fmt.Sprintf("ON CONFLICT (id) DO UPDATE SET %s", strings.Join(updates, ", "))).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert requirement query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert requirement: %w", err)
	}

	return nil
}

func (r *RequirementRepository) DeleteRequirement(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(requirementTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete requirement query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete requirement: %w", err)
	}

	return nil
}
