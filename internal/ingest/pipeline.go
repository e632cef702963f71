package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/mailbox"
	"lawfirm-crm/internal/model"
	"lawfirm-crm/internal/storage"
)

// Store is the slice of the datastore the pipeline needs
type Store interface {
	ResolveThreadID(inReplyTo string) (string, bool, error)
	FindClientByEmail(address string) (*model.Client, error)
	InsertMail(mail *model.Mail) error
}

// Pipeline turns a raw inbound message into a stored mail record:
// parse, resolve thread, match sender, upload attachments, insert.
type Pipeline struct {
	store          Store
	uploader       storage.Uploader
	mailboxAddress string
	now            func() time.Time
}

// New creates an ingestion pipeline. mailboxAddress is the monitored inbox
// address, recorded as the recipient of every inbound mail.
func New(store Store, uploader storage.Uploader, mailboxAddress string) *Pipeline {
	return &Pipeline{
		store:          store,
		uploader:       uploader,
		mailboxAddress: mailboxAddress,
		now:            time.Now,
	}
}

// ProcessMessage ingests one raw message. Any error aborts this message only;
// the caller decides whether to continue the batch. No idempotency guard:
// a message fetched in two cycles is inserted twice.
func (p *Pipeline) ProcessMessage(ctx context.Context, raw []byte) (*model.Mail, error) {
	email, err := mailbox.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	threadID, err := p.resolveThread(email)
	if err != nil {
		return nil, err
	}

	client, err := p.store.FindClientByEmail(email.From)
	if err != nil {
		return nil, fmt.Errorf("failed to match sender %s: %w", email.From, err)
	}

	var clientID *uint
	if client != nil {
		clientID = &client.ID
	} else {
		logrus.Debugf("No client matched sender %s", email.From)
	}

	attachments, err := p.uploadAttachments(ctx, clientID, email.Attachments)
	if err != nil {
		return nil, err
	}

	mail := &model.Mail{
		MessageID:   email.MessageID,
		ThreadID:    threadID,
		ClientID:    clientID,
		Direction:   model.DirectionIncoming,
		FromAddress: email.From,
		ToAddress:   []string{p.mailboxAddress},
		Subject:     email.Subject,
		RawBody:     email.RawBody,
		ParsedBody:  email.ParsedBody,
		ReceivedAt:  email.Date,
		Attachments: attachments,
	}
	if email.InReplyTo != "" {
		mail.InReplyTo = &email.InReplyTo
	}

	if err := p.store.InsertMail(mail); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"message_id": mail.MessageID,
		"thread_id":  mail.ThreadID,
		"from":       mail.FromAddress,
	}).Info("Stored inbound mail")

	return mail, nil
}

// resolveThread inherits the parent's thread id when the In-Reply-To header
// matches a stored record; otherwise the message starts its own thread under
// its own message id. One lookup hop, no chain walking.
func (p *Pipeline) resolveThread(email *mailbox.InboundEmail) (string, error) {
	if email.InReplyTo == "" {
		return email.MessageID, nil
	}

	threadID, found, err := p.store.ResolveThreadID(email.InReplyTo)
	if err != nil {
		return "", fmt.Errorf("failed to resolve thread for %s: %w", email.MessageID, err)
	}
	if !found {
		return email.MessageID, nil
	}
	return threadID, nil
}

func (p *Pipeline) uploadAttachments(ctx context.Context, clientID *uint, attachments []mailbox.Attachment) ([]model.MailAttachment, error) {
	var stored []model.MailAttachment
	for _, att := range attachments {
		key := storage.AttachmentKey(clientID, att.Filename, p.now())
		url, err := p.uploader.Upload(ctx, key, att.Data, att.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment %s: %w", att.Filename, err)
		}
		stored = append(stored, model.MailAttachment{Name: att.Filename, URL: url})
	}
	return stored, nil
}
