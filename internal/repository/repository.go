package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"lawfirm-crm/internal/model"
)

// Repository wraps the datastore queries used by the ingestion pipeline
// and the Gmail sync service.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ResolveThreadID returns the thread id of the mail whose message id equals
// inReplyTo. A single lookup hop: if the parent is unknown the second return
// value is false and the caller starts a new thread.
func (r *Repository) ResolveThreadID(inReplyTo string) (string, bool, error) {
	var mail model.Mail
	result := r.db.Select("thread_id").Where("message_id = ?", inReplyTo).First(&mail)
	if result.Error == nil {
		return mail.ThreadID, true, nil
	}
	if result.Error == gorm.ErrRecordNotFound {
		return "", false, nil
	}
	return "", false, fmt.Errorf("database error resolving thread: %w", result.Error)
}

// FindClientByEmail looks up a client whose primary or alternate email equals
// the given address. Returns nil without error when no client matches;
// when several match, the first row wins.
func (r *Repository) FindClientByEmail(address string) (*model.Client, error) {
	var client model.Client
	result := r.db.Where("primary_email = ? OR alternate_email = ?", address, address).First(&client)
	if result.Error == nil {
		return &client, nil
	}
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, fmt.Errorf("database error finding client: %w", result.Error)
}

// InsertMail stores a mail record. No uniqueness check is made against
// message_id: a message fetched twice is stored twice.
func (r *Repository) InsertMail(mail *model.Mail) error {
	if err := r.db.Create(mail).Error; err != nil {
		return fmt.Errorf("failed to insert mail: %w", err)
	}
	return nil
}

// MailsByClient returns all mail records associated with a client
func (r *Repository) MailsByClient(clientID uint) ([]model.Mail, error) {
	var mails []model.Mail
	if err := r.db.Where("client_id = ?", clientID).Order("created_at").Find(&mails).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch mails: %w", err)
	}
	return mails, nil
}

// LastSyncTime returns the most recent Gmail sync watermark, or the zero time
// when no sync has run yet
func (r *Repository) LastSyncTime() (time.Time, error) {
	var status model.EmailSyncStatus
	result := r.db.Order("created_at DESC").First(&status)
	if result.Error == nil {
		return status.LastSyncAt, nil
	}
	if result.Error == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("failed to get last sync time: %w", result.Error)
}

// UpdateSyncTime records a new Gmail sync watermark
func (r *Repository) UpdateSyncTime(at time.Time) error {
	status := model.EmailSyncStatus{LastSyncAt: at}
	if err := r.db.Create(&status).Error; err != nil {
		return fmt.Errorf("failed to update sync time: %w", err)
	}
	return nil
}
