package model

import "time"

// Campaign is owned by exactly one tenant and immutable after creation;
// there are no update or delete endpoints.
type Campaign struct {
	ID             string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	TenantID       string    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	BrandName      string    `json:"brand_name" gorm:"type:varchar(200);not null"`
	Goal           string    `json:"goal" gorm:"type:text"`
	TargetRegion   string    `json:"target_region" gorm:"type:varchar(100)"`
	TargetAgeRange string    `json:"target_age_range" gorm:"type:varchar(20)"`
	Budget         float64   `json:"budget" gorm:"type:numeric(12,2);default:0"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}
