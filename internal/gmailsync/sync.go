package gmailsync

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"lawfirm-crm/internal/config"
	"lawfirm-crm/internal/model"
)

// Store is the slice of the datastore the sync service needs
type Store interface {
	FindClientByEmail(address string) (*model.Client, error)
	InsertMail(mail *model.Mail) error
	LastSyncTime() (time.Time, error)
	UpdateSyncTime(at time.Time) error
}

// Service mirrors the monitored Gmail account into the mails table. Messages
// are fetched since the last sync watermark and stored only when the sender
// or recipient matches a client.
type Service struct {
	config *config.GmailConfig
	store  Store

	mu      sync.Mutex
	service *gmail.Service
}

// NewService creates the sync service. When a refresh token is configured the
// Gmail client is built immediately; otherwise CompleteAuth must run first.
func NewService(cfg *config.GmailConfig, store Store) (*Service, error) {
	s := &Service{config: cfg, store: store}

	if cfg.RefreshToken != "" {
		service, err := buildGmailService(context.Background(), cfg, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		if err != nil {
			return nil, err
		}
		s.service = service
	}

	return s, nil
}

func oauthConfig(cfg *config.GmailConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailModifyScope},
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.RedirectURL,
	}
}

func buildGmailService(ctx context.Context, cfg *config.GmailConfig, token *oauth2.Token) (*gmail.Service, error) {
	tokenSource := oauthConfig(cfg).TokenSource(ctx, token)
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return service, nil
}

// AuthURL returns the OAuth consent URL for the configured client
func (s *Service) AuthURL() string {
	return oauthConfig(s.config).AuthCodeURL("state-token",
		oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// CompleteAuth exchanges an authorization code for a token and builds the
// Gmail client from it
func (s *Service) CompleteAuth(ctx context.Context, code string) error {
	token, err := oauthConfig(s.config).Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	service, err := buildGmailService(ctx, s.config, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.service = service
	s.mu.Unlock()

	logrus.Info("Gmail authentication completed")
	return nil
}

// Authenticated reports whether a Gmail client is available
func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service != nil
}

// Sync fetches messages since the last watermark, stores those related to a
// client, and advances the watermark. Per-message failures are logged and
// skipped.
func (s *Service) Sync(ctx context.Context) error {
	s.mu.Lock()
	service := s.service
	s.mu.Unlock()

	if service == nil {
		return fmt.Errorf("gmail service not authenticated")
	}

	lastSync, err := s.store.LastSyncTime()
	if err != nil {
		return err
	}

	call := service.Users.Messages.List(s.config.UserEmail).MaxResults(100).Context(ctx)
	if !lastSync.IsZero() {
		call = call.Q(fmt.Sprintf("after:%d", lastSync.Unix()))
	}

	response, err := call.Do()
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	logrus.Infof("Gmail sync found %d messages", len(response.Messages))

	stored := 0
	for _, ref := range response.Messages {
		msg, err := service.Users.Messages.Get(s.config.UserEmail, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			logrus.Warnf("Failed to get message %s: %v", ref.Id, err)
			continue
		}

		if err := s.storeMessage(msg); err != nil {
			logrus.Warnf("Failed to store message %s: %v", ref.Id, err)
			continue
		}
		stored++
	}

	if err := s.store.UpdateSyncTime(time.Now()); err != nil {
		return err
	}

	logrus.Infof("Gmail sync completed, stored %d messages", stored)
	return nil
}

// storeMessage maps one Gmail message into a mail record. Messages matching
// no client in either direction are dropped.
func (s *Service) storeMessage(msg *gmail.Message) error {
	headers := headerMap(msg)

	from := bareAddress(headers["From"])
	to := bareAddress(headers["To"])

	client, err := s.store.FindClientByEmail(from)
	if err != nil {
		return err
	}
	direction := model.DirectionIncoming
	if client == nil {
		client, err = s.store.FindClientByEmail(to)
		if err != nil {
			return err
		}
		direction = model.DirectionOutgoing
	}
	if client == nil {
		return nil
	}

	messageID := headers["Message-Id"]
	if messageID == "" {
		messageID = msg.Id
	}

	at := time.UnixMilli(msg.InternalDate)

	record := &model.Mail{
		MessageID:   messageID,
		ThreadID:    msg.ThreadId,
		ClientID:    &client.ID,
		Direction:   direction,
		FromAddress: from,
		ToAddress:   []string{to},
		Subject:     headers["Subject"],
		RawBody:     plainBody(msg.Payload),
		ParsedBody:  plainBody(msg.Payload),
	}
	if inReplyTo := headers["In-Reply-To"]; inReplyTo != "" {
		record.InReplyTo = &inReplyTo
	}
	if direction == model.DirectionIncoming {
		record.ReceivedAt = &at
	} else {
		record.SentAt = &at
	}

	return s.store.InsertMail(record)
}

func headerMap(msg *gmail.Message) map[string]string {
	headers := make(map[string]string)
	if msg.Payload == nil {
		return headers
	}
	for _, h := range msg.Payload.Headers {
		headers[textprotoCanonical(h.Name)] = h.Value
	}
	return headers
}

// textprotoCanonical normalizes header names like Message-ID vs Message-Id
func textprotoCanonical(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

func bareAddress(value string) string {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return addr.Address
}

// plainBody walks the payload tree for the first text/plain part
func plainBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		// Gmail encodes body data as unpadded base64url.
		data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "="))
		if err != nil {
			return ""
		}
		return string(data)
	}
	for _, sub := range part.Parts {
		if body := plainBody(sub); body != "" {
			return body
		}
	}
	return ""
}
