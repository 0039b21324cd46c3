package model

import "time"

// AuditLog records privileged actions tied to tenant and user. Writes are
// best-effort: a failed insert is logged server-side and never blocks the
// triggering request. Append-only.
type AuditLog struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index"`
	Action    string    `json:"action" gorm:"type:varchar(100);not null"`
	Metadata  JSON      `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName keeps the historical singular table name
func (AuditLog) TableName() string {
	return "audit_log"
}
