package models

import "time"

// Gender routes orders into one of two parallel daily batch sequences.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Profile holds the contact and identity fields of one user. Exactly one
// per user.
type Profile struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
	Email      string `gorm:"type:varchar(255);not null" json:"email"`
	StudentID  string `gorm:"type:varchar(50)" json:"student_id"`
	RoomNumber string `gorm:"type:varchar(20)" json:"room_number"`
	Gender     string `gorm:"type:varchar(10);not null" json:"gender"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
