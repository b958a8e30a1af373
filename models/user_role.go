package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// UserRole is a capability gate: a row with role 'admin' makes the user an
// administrator, everybody else is implicitly a customer.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
