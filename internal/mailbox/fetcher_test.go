package mailbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawfirm-crm/internal/config"
)

func TestFetchUnseenCancelledContext(t *testing.T) {
	f := NewIMAPFetcher(&config.MailboxConfig{
		Host:     "imap.example.com",
		Port:     993,
		Username: "inbox@firm.test",
		Password: "secret",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context returns before any connection is attempted.
	raw, err := f.FetchUnseen(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, raw)
}
