package model

import (
	"time"

	"gorm.io/gorm"
)

// Mail directions
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// MailAttachment is an uploaded attachment reference stored on a mail record
type MailAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Mail represents a stored email record, one row per inbound or outbound message.
// ThreadID equals the root message's MessageID for every record in a conversation
// and never changes once assigned. Exactly one of ReceivedAt/SentAt is set,
// depending on Direction.
type Mail struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	// Binary collation keeps thread lookups by message id case-exact.
	MessageID   string           `json:"message_id" gorm:"type:varchar(255) COLLATE utf8mb4_bin;not null;index"`
	InReplyTo   *string          `json:"in_reply_to,omitempty" gorm:"type:varchar(255);index"`
	ThreadID    string           `json:"thread_id" gorm:"type:varchar(255);not null;index"`
	ClientID    *uint            `json:"client_id,omitempty" gorm:"index"`
	Direction   string           `json:"direction" gorm:"type:varchar(16);not null"`
	FromAddress string           `json:"from_address" gorm:"type:varchar(255)"`
	ToAddress   []string         `json:"to_address" gorm:"serializer:json;type:text"`
	Subject     string           `json:"subject" gorm:"type:varchar(1000)"`
	RawBody     string           `json:"raw_body" gorm:"type:text"`
	ParsedBody  string           `json:"parsed_body" gorm:"type:text"`
	ReceivedAt  *time.Time       `json:"received_at,omitempty"`
	SentAt      *time.Time       `json:"sent_at,omitempty"`
	Attachments []MailAttachment `json:"attachments,omitempty" gorm:"serializer:json;type:text"`
	CreatedAt   time.Time        `json:"created_at"`
	DeletedAt   gorm.DeletedAt   `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for Mail
func (Mail) TableName() string {
	return "mails"
}
