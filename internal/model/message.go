package model

import (
	"time"

	"gorm.io/gorm"
)

// Message represents an internal or SMS message between a staff member and a client
type Message struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderID    uint           `json:"sender_id" gorm:"not null;index"`
	RecipientID uint           `json:"recipient_id" gorm:"not null;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	Channel     string         `json:"channel" gorm:"type:varchar(16);default:'internal'"` // internal, sms
	ExternalID  string         `json:"external_id,omitempty" gorm:"type:varchar(255);index"`
	IsRead      bool           `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}
