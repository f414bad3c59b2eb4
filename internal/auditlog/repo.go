package auditlog

import (
	"context"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes the append-only audit log store.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an auditlog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one audit entry. Entries are never updated or deleted.
func (r *Repository) Append(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Page is one cursor-paginated slice of audit entries, newest first.
type Page struct {
	Entries    []models.AuditLog
	NextCursor string
}

// UserActivity returns the entries recorded for one actor, newest first.
func (r *Repository) UserActivity(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.page(ctx, query, params)
}

// RecentActions returns the entries recorded for one action, newest first.
func (r *Repository) RecentActions(ctx context.Context, action enums.LogAction, params pagination.Params) (*Page, error) {
	query := r.db.WithContext(ctx).Where("action = ?", action)
	return r.page(ctx, query, params)
}

func (r *Repository) page(_ context.Context, query *gorm.DB, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var entries []models.AuditLog
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Entries = entries
	return page, nil
}
