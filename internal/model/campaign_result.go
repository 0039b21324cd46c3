package model

import "time"

// CampaignResult holds raw performance facts per (campaign, influencer).
// Rows are written by ingestion tooling and only ever aggregated by the API.
type CampaignResult struct {
	ID           uint64    `json:"id" gorm:"primaryKey"`
	CampaignID   string    `json:"campaign_id" gorm:"type:varchar(64);not null;index"`
	TenantID     string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	InfluencerID string    `json:"influencer_id" gorm:"type:varchar(64);not null"`
	Impressions  int       `json:"impressions" gorm:"not null;default:0"`
	Clicks       int       `json:"clicks" gorm:"not null;default:0"`
	Conversions  int       `json:"conversions" gorm:"not null;default:0"`
	Spend        float64   `json:"spend" gorm:"type:numeric(12,2);not null;default:0"`
	Revenue      float64   `json:"revenue" gorm:"type:numeric(12,2);not null;default:0"`
	RecordedAt   time.Time `json:"recorded_at" gorm:"autoCreateTime;index"`
}
