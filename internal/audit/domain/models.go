package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one state-changing call. Rows are never updated.
type AuditLog struct {
	ID         string            `gorm:"type:char(26);primaryKey" json:"id" bson:"_id"`
	ActorID    string            `gorm:"type:varchar(32);index" json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	ActorRole  string            `gorm:"type:varchar(16)" json:"actor_role,omitempty" bson:"actor_role,omitempty"`
	Action     string            `gorm:"type:varchar(64);not null;index" json:"action" bson:"action"`
	TargetType string            `gorm:"type:varchar(32);not null;index:idx_audit_target" json:"target_type" bson:"target_type"`
	TargetID   string            `gorm:"type:varchar(32);index:idx_audit_target" json:"target_id,omitempty" bson:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty" bson:"metadata,omitempty"`
	RequestID  string            `gorm:"type:varchar(64)" json:"request_id,omitempty" bson:"request_id,omitempty"`
	IPAddress  string            `gorm:"type:varchar(64)" json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent  string            `gorm:"type:text" json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at" bson:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
