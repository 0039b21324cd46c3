package model

import "time"

// Roles a user can hold within a tenant. The role gate middleware checks
// against these values.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleViewer  = "viewer"
)

// UserTenant associates a user with a tenant and carries the user's role
// inside that tenant. This is the sole authorization surface.
type UserTenant struct {
	UserID    string    `json:"user_id" gorm:"type:uuid;primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:uuid;primaryKey"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null;default:'viewer'"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}
