package model

import "time"

// Tenant represents an isolated customer workspace. Every other row in the
// schema is partitioned by tenant ID.
type Tenant struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`
}
