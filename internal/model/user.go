package model

import "time"

// User represents an account independent of any tenant; membership and role
// per tenant live in UserTenant.
type User struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}
