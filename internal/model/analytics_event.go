package model

import "time"

// Analytics event types that additionally produce an audit trail entry.
const (
	EventCampaignCreated   = "campaign_created"
	EventStrategyGenerated = "strategy_generated"
	EventCampaignExported  = "campaign_exported"
)

// AnalyticsEvent is the tenant-aware telemetry row. Append-only.
type AnalyticsEvent struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string    `json:"user_id" gorm:"type:uuid;index"`
	TenantID     string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	EventType    string    `json:"event_type" gorm:"type:varchar(100);not null;index"`
	CampaignID   *string   `json:"campaign_id,omitempty" gorm:"type:varchar(64);index"`
	InfluencerID *string   `json:"influencer_id,omitempty" gorm:"type:varchar(64)"`
	Metadata     JSON      `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
