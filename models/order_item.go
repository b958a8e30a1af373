package models

import (
	"time"
)

// OrderItem is a denormalized snapshot of one cart line. Name, service and
// unit price are copied from the catalog at order time so that later price
// changes never rewrite history.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	ItemID        uint    `gorm:"not null" json:"item_id"`
	ServiceTypeID uint    `gorm:"not null" json:"service_type_id"`
	ItemName      string  `gorm:"type:varchar(255);not null" json:"item_name"`
	ServiceName   string  `gorm:"type:varchar(100);not null" json:"service_name"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	UnitPrice     float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal     float64 `gorm:"type:decimal(10,2);not null" json:"line_total"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
