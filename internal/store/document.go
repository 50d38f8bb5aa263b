package store

import (
	"binaahub/internal/utils"
	"binaahub/pkg/types"
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentTableName = "binaahub.profile_documents"

var documentColumns = utils.StructTagValues(types.ProfileDocument{})

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Document retrieves a single uploaded document by ID
func (r *DocumentRepository) Document(ctx context.Context, id string) (*types.ProfileDocument, error) {
	query, args, _ := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	var doc types.ProfileDocument
	err := pgxscan.Get(ctx, r.pool, &doc, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// DocumentsByRoleAndUser retrieves every uploaded document backing the
// user's requirement catalog for one role
func (r *DocumentRepository) DocumentsByRoleAndUser(ctx context.Context, role types.Role, userID string) ([]types.ProfileDocument, error) {
	query, args, _ := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"role": role, "user_id": userID}).
		OrderBy("uploaded_at ASC").
		ToSql()

	var docs []types.ProfileDocument
	err := pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// DocumentsByRequirement retrieves the user's uploaded documents for one
// requirement slot
func (r *DocumentRepository) DocumentsByRequirement(ctx context.Context, requirementID, userID string) ([]types.ProfileDocument, error) {
	query, args, _ := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"requirement_id": requirementID, "user_id": userID}).
		OrderBy("uploaded_at ASC").
		ToSql()

	var docs []types.ProfileDocument
	err := pgxscan.Select(ctx, r.pool, &docs, query, args...)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// CreateDocument inserts a new uploaded document record
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *types.ProfileDocument) error {
	doc.UploadedAt = time.Now()

	query, args, _ := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

// UpdateDocumentMetadata overwrites the caller-editable metadata fields
func (r *DocumentRepository) UpdateDocumentMetadata(ctx context.Context, id string, customName, description *string, expiryDate *time.Time) error {
	builder := psql().Update(documentTableName).Where(sq.Eq{"id": id})
	if customName != nil {
		builder = builder.Set("custom_name", nullable(*customName))
	}
	if description != nil {
		builder = builder.Set("description", nullable(*description))
	}
	if expiryDate != nil {
		builder = builder.Set("expiry_date", *expiryDate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

// ApprovePendingDocuments flips every pending document for the role to
// approved and returns the number of rows touched
func (r *DocumentRepository) ApprovePendingDocuments(ctx context.Context, role types.Role, userID string) (int64, error) {
	query, args, _ := psql().
		Update(documentTableName).
		Set("status", types.DocumentStatusApproved).
		Where(sq.Eq{"role": role, "user_id": userID, "status": types.DocumentStatusPending}).
		ToSql()

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteDocument removes an uploaded document record
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	query, args, _ := psql().
		Delete(documentTableName).
		Where(sq.Eq{"id": id}).
		ToSql()

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}
