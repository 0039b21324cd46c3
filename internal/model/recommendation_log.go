package model

import "time"

// RecommendationLog records one (campaign, influencer) recommendation emitted
// by the AI service. Rank is the 1-based position in the response array as
// returned upstream, never re-sorted. Append-only.
type RecommendationLog struct {
	ID           uint64    `json:"id" gorm:"primaryKey"`
	CampaignID   string    `json:"campaign_id" gorm:"type:varchar(64);not null;index"`
	TenantID     string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	InfluencerID string    `json:"influencer_id" gorm:"type:varchar(64);not null"`
	Score        float64   `json:"score" gorm:"not null"`
	Rank         int       `json:"rank" gorm:"not null"`
	Factors      JSON      `json:"factors,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
