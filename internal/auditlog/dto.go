package auditlog

import (
	"encoding/json"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/google/uuid"
)

// AuditLogDTO is the transport shape of one audit entry.
type AuditLogDTO struct {
	ID          uuid.UUID          `json:"id"`
	Action      enums.LogAction    `json:"action"`
	UserID      uuid.UUID          `json:"user_id"`
	TargetModel *enums.TargetModel `json:"target_model,omitempty"`
	TargetID    *uuid.UUID         `json:"target_id,omitempty"`
	Details     json.RawMessage    `json:"details,omitempty"`
	IPAddress   string             `json:"ip_address,omitempty"`
	UserAgent   string             `json:"user_agent,omitempty"`
	Status      enums.LogStatus    `json:"status"`
	Error       *string            `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// PageDTO is one cursor-paginated slice of audit entries.
type PageDTO struct {
	Entries    []*AuditLogDTO `json:"entries"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func FromModel(l *models.AuditLog) *AuditLogDTO {
	if l == nil {
		return nil
	}
	return &AuditLogDTO{
		ID:          l.ID,
		Action:      l.Action,
		UserID:      l.UserID,
		TargetModel: l.TargetModel,
		TargetID:    l.TargetID,
		Details:     l.Details,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		Status:      l.Status,
		Error:       l.Error,
		CreatedAt:   l.CreatedAt,
	}
}

func pageFromRepo(page *Page) *PageDTO {
	out := &PageDTO{
		Entries:    make([]*AuditLogDTO, 0, len(page.Entries)),
		NextCursor: page.NextCursor,
	}
	for i := range page.Entries {
		out.Entries = append(out.Entries, FromModel(&page.Entries[i]))
	}
	return out
}
