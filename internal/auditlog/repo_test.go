package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/artemvolkov/furnistock-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS audit_logs (
  id TEXT PRIMARY KEY,
  action TEXT NOT NULL,
  user_id TEXT NOT NULL,
  target_model TEXT,
  target_id TEXT,
  details TEXT,
  ip_address TEXT,
  user_agent TEXT,
  status TEXT NOT NULL DEFAULT 'success',
  error TEXT,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func appendEntry(t *testing.T, repo *Repository, userID uuid.UUID, action enums.LogAction, at time.Time) *models.AuditLog {
	t.Helper()

	entry := &models.AuditLog{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Status:    enums.LogStatusSuccess,
		CreatedAt: at,
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	return entry
}

func TestUserActivityNewestFirst(t *testing.T) {
	repo := NewRepository(setupAuditTestDB(t))
	userID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, userID, enums.LogActionUserLogin, base)
	appendEntry(t, repo, userID, enums.LogActionFurnitureAdded, base.Add(time.Minute))
	appendEntry(t, repo, uuid.New(), enums.LogActionUserLogin, base.Add(2*time.Minute))

	page, err := repo.UserActivity(context.Background(), userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, enums.LogActionFurnitureAdded, page.Entries[0].Action)
	assert.Equal(t, enums.LogActionUserLogin, page.Entries[1].Action)
	assert.Empty(t, page.NextCursor)
}

func TestRecentActionsFiltersByAction(t *testing.T) {
	repo := NewRepository(setupAuditTestDB(t))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, uuid.New(), enums.LogActionStockTransfer, base)
	appendEntry(t, repo, uuid.New(), enums.LogActionUserLogin, base.Add(time.Minute))
	appendEntry(t, repo, uuid.New(), enums.LogActionStockTransfer, base.Add(2*time.Minute))

	page, err := repo.RecentActions(context.Background(), enums.LogActionStockTransfer, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	for _, entry := range page.Entries {
		assert.Equal(t, enums.LogActionStockTransfer, entry.Action)
	}
}

func TestUserActivityCursorWalksAllPages(t *testing.T) {
	repo := NewRepository(setupAuditTestDB(t))
	userID := uuid.New()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		appendEntry(t, repo, userID, enums.LogActionUserLogin, base.Add(time.Duration(i)*time.Minute))
	}

	seen := map[uuid.UUID]bool{}
	params := pagination.Params{Limit: 2}
	for {
		page, err := repo.UserActivity(context.Background(), userID, params)
		require.NoError(t, err)
		for _, entry := range page.Entries {
			require.False(t, seen[entry.ID], "entry repeated across pages")
			seen[entry.ID] = true
		}
		if page.NextCursor == "" {
			break
		}
		params.Cursor = page.NextCursor
	}
	assert.Len(t, seen, 5)
}

func TestInvalidCursorIsRejected(t *testing.T) {
	repo := NewRepository(setupAuditTestDB(t))

	_, err := repo.UserActivity(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!"})
	require.Error(t, err)
}
