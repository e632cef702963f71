package model

import (
	"time"

	"gorm.io/gorm"
)

// Appointment represents a scheduled appointment with a client
type Appointment struct {
	ID              uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string         `json:"title" gorm:"type:varchar(255);not null"`
	ClientID        uint           `json:"client_id" gorm:"not null;index"`
	Date            time.Time      `json:"date" gorm:"not null"`
	Time            string         `json:"time" gorm:"type:varchar(16)"`
	AppointmentType string         `json:"appointment_type" gorm:"type:varchar(128)"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Client *Client `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName specifies the table name for Appointment
func (Appointment) TableName() string {
	return "appointments"
}
