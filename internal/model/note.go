package model

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a case note attached to a client
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	ClientID  uint           `json:"client_id" gorm:"not null;index"`
	CreatedBy string         `json:"created_by" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Client *Client `json:"-" gorm:"foreignKey:ClientID"`
}

// TableName specifies the table name for Note
func (Note) TableName() string {
	return "notes"
}
