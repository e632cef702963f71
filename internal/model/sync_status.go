package model

import "time"

// EmailSyncStatus records the watermark of the last completed Gmail sync run
type EmailSyncStatus struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	LastSyncAt time.Time `json:"last_sync_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for EmailSyncStatus
func (EmailSyncStatus) TableName() string {
	return "email_sync_status"
}
