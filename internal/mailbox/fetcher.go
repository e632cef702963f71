package mailbox

import (
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/config"
)

// Fetcher retrieves raw unseen messages from the mailbox
type Fetcher interface {
	FetchUnseen(ctx context.Context) ([][]byte, error)
}

// IMAPFetcher opens a fresh TLS session per cycle: login, select INBOX,
// search UNSEEN, fetch message bodies, logout. The server marks fetched
// messages seen; nothing is flagged explicitly here, so a crash between
// fetch and store can re-deliver a message on the next cycle.
type IMAPFetcher struct {
	config *config.MailboxConfig
}

// NewIMAPFetcher creates a new IMAP fetcher
func NewIMAPFetcher(cfg *config.MailboxConfig) *IMAPFetcher {
	return &IMAPFetcher{config: cfg}
}

// FetchUnseen returns the raw bytes of every unseen message in the inbox.
// Cancellation is honored before dialing and between the search and fetch
// round trips; an individual IMAP command cannot be interrupted mid-flight.
func (f *IMAPFetcher) FetchUnseen(ctx context.Context) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := client.DialTLS(f.config.Address(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	defer c.Logout()

	if err := c.Login(f.config.Username, f.config.Password); err != nil {
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}

	if _, err := c.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search for unseen messages: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)

	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var raw [][]byte
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			logrus.Warnf("No body section in fetched message %d", msg.SeqNum)
			continue
		}
		body, err := io.ReadAll(r)
		if err != nil {
			logrus.Warnf("Failed to read message %d body: %v", msg.SeqNum, err)
			continue
		}
		raw = append(raw, body)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return raw, nil
}
