package models

import (
	"encoding/json"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a state-changing request. The
// application never updates or deletes rows in this table.
type AuditLog struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Action      enums.LogAction    `gorm:"column:action;type:text;not null;index:idx_audit_logs_action_created,priority:1"`
	UserID      uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:idx_audit_logs_user_created,priority:1"`
	User        *User              `gorm:"foreignKey:UserID"`
	TargetModel *enums.TargetModel `gorm:"column:target_model;type:text"`
	TargetID    *uuid.UUID         `gorm:"column:target_id;type:uuid"`
	Details     json.RawMessage    `gorm:"column:details;type:jsonb"`
	IPAddress   string             `gorm:"column:ip_address"`
	UserAgent   string             `gorm:"column:user_agent"`
	Status      enums.LogStatus    `gorm:"column:status;type:text;not null;default:success"`
	Error       *string            `gorm:"column:error"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime;index:idx_audit_logs_action_created,priority:2;index:idx_audit_logs_user_created,priority:2"`
}

func (l *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
