package models

import (
	"time"
)

// Order status vocabulary. Transitions only move forward; the single
// exception is the admin "unmark batch" rollback handled in the batch
// controller.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderDelivered  = "delivered"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Batch status values stored per order row. The batch-level status shown to
// admins is the mode over its member rows, recomputed on every read.
const (
	BatchPending   = "pending"
	BatchCompleted = "completed"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`

	// Snapshot of the customer's profile at the time of ordering. Later
	// profile edits must not change what is printed on the batch sheets.
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(20);not null" json:"customer_phone"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	StudentID     string `gorm:"type:varchar(50)" json:"student_id"`
	RoomNumber    string `gorm:"type:varchar(20)" json:"room_number"`

	TotalAmount   float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status        string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus string  `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod string  `gorm:"type:varchar(20)" json:"payment_method"`

	BatchNumber int    `gorm:"index" json:"batch_number"`
	BatchStatus string `gorm:"type:varchar(20);not null;default:'pending'" json:"batch_status"`

	DeliveryQRCode string  `gorm:"type:varchar(64)" json:"delivery_qr_code"`
	PickupToken    *string `gorm:"type:varchar(64);uniqueIndex" json:"pickup_token,omitempty"`

	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// IsTerminal reports whether no further status transition is allowed.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}
