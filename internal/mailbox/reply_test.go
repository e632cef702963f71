package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReplySignature(t *testing.T) {
	body := "Hi there\n\nSent from my iPhone"
	assert.Equal(t, "Hi there", StripReply(body))
}

func TestStripReplyQuotedHistory(t *testing.T) {
	body := "Thanks, that works for me.\n\nOn Tue, Jan 2, 2024 at 3:04 PM Alice <alice@example.com> wrote:\n> Does Thursday work?\n> Let me know."
	assert.Equal(t, "Thanks, that works for me.", StripReply(body))
}

func TestStripReplyQuoteWithoutAttribution(t *testing.T) {
	body := "Sounds good.\n> earlier text"
	assert.Equal(t, "Sounds good.", StripReply(body))
}

func TestStripReplyOutlookStyle(t *testing.T) {
	body := "See below.\r\n\r\n-----Original Message-----\r\nFrom: Bob <bob@example.com>\r\nolder content"
	assert.Equal(t, "See below.", StripReply(body))

	body = "Forwarding this.\n\nFrom: Carol <carol@example.com>\nSent: Monday"
	assert.Equal(t, "Forwarding this.", StripReply(body))
}

func TestStripReplySignatureDelimiter(t *testing.T) {
	body := "Best regards\n-- \nJane Doe\nAttorney at Law"
	assert.Equal(t, "Best regards", StripReply(body))
}

func TestStripReplyNoMarkers(t *testing.T) {
	body := "Line one\nLine two"
	assert.Equal(t, body, StripReply(body))
}

func TestStripReplyEmpty(t *testing.T) {
	assert.Equal(t, "", StripReply(""))
	assert.Equal(t, "", StripReply("> only quoted text\n> nothing new"))
}

func TestStripReplyIdempotent(t *testing.T) {
	bodies := []string{
		"Hi there\n\nSent from my iPhone",
		"Thanks!\n\nOn Mon, Alice wrote:\n> old",
		"Plain message with no quoting",
	}
	for _, body := range bodies {
		once := StripReply(body)
		assert.Equal(t, once, StripReply(once))
	}
}
