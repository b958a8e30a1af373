package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Item struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CategoryID uint        `gorm:"not null;index" json:"category_id"`
	Category   Category    `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name       string      `gorm:"type:varchar(255);not null" json:"name"`
	Prices     []ItemPrice `gorm:"foreignKey:ItemID" json:"prices"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ServiceType is one washing service (wash, wash & iron, dry clean ...).
type ServiceType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemPrice is the current price of one item under one service type.
type ItemPrice struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ItemID        uint        `gorm:"not null;uniqueIndex:idx_item_service" json:"item_id"`
	Item          Item        `gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ServiceTypeID uint        `gorm:"not null;uniqueIndex:idx_item_service" json:"service_type_id"`
	ServiceType   ServiceType `gorm:"foreignKey:ServiceTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"service_type"`
	Price         float64     `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
