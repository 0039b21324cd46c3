package model

import "time"

// AppEvent is the legacy free-form telemetry row. Kept for backward
// compatibility with older clients; AnalyticsEvent is the tenant-aware
// successor. Append-only.
type AppEvent struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	EventName  string    `json:"event_name" gorm:"type:varchar(100);not null;index"`
	UserID     *string   `json:"user_id,omitempty" gorm:"type:varchar(64)"`
	CampaignID *string   `json:"campaign_id,omitempty" gorm:"type:varchar(64);index"`
	TenantID   *string   `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	Payload    JSON      `json:"payload,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
