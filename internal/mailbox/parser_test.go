package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawMessage(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParseSinglePart(t *testing.T) {
	raw := rawMessage(
		"From: Alice Smith <alice@example.com>",
		"To: inbox@firm.test",
		"Subject: Hello",
		"Message-Id: <m1@example.com>",
		"Date: Tue, 02 Jan 2024 15:04:05 -0700",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Hi there",
		"",
		"Sent from my iPhone",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "<m1@example.com>", email.MessageID)
	assert.Empty(t, email.InReplyTo)
	assert.Equal(t, "alice@example.com", email.From)
	assert.Equal(t, "Hello", email.Subject)
	assert.Equal(t, "Hi there", email.ParsedBody)
	assert.True(t, strings.HasPrefix(email.RawBody, "Hi there"))
	assert.Contains(t, email.RawBody, "Sent from my iPhone")
	assert.Empty(t, email.Attachments)

	require.NotNil(t, email.Date)
	assert.Equal(t, 2024, email.Date.Year())
	assert.Equal(t, time.January, email.Date.Month())
}

func TestParseFirstPlainPartWins(t *testing.T) {
	raw := rawMessage(
		"From: bob@example.com",
		"Subject: Multi",
		"Message-Id: <m2@example.com>",
		"In-Reply-To: <m1@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="BOUND"`,
		"",
		"--BOUND",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>HTML rendition</p>",
		"--BOUND",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"First plain part",
		"--BOUND",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Second plain part",
		"--BOUND--",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "<m2@example.com>", email.MessageID)
	assert.Equal(t, "<m1@example.com>", email.InReplyTo)
	assert.Equal(t, "First plain part", email.ParsedBody)
	assert.NotContains(t, email.RawBody, "Second plain part")
	assert.NotContains(t, email.RawBody, "HTML rendition")
}

func TestParseAttachmentExcludedFromBody(t *testing.T) {
	raw := rawMessage(
		"From: carol@example.com",
		"Subject: With file",
		"Message-Id: <m3@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="BOUND"`,
		"",
		"--BOUND",
		`Content-Type: text/plain; name="notes.txt"`,
		`Content-Disposition: attachment; filename="notes.txt"`,
		"",
		"attached text",
		"--BOUND",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Body text",
		"--BOUND--",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Body text", email.ParsedBody)
	require.Len(t, email.Attachments, 1)
	assert.Equal(t, "notes.txt", email.Attachments[0].Filename)
	assert.Equal(t, "text/plain", email.Attachments[0].ContentType)
	assert.Equal(t, "attached text", strings.TrimSpace(string(email.Attachments[0].Data)))
}

func TestParseEncodedSubjectCleaned(t *testing.T) {
	raw := rawMessage(
		"From: dave@example.com",
		"Subject: =?utf-8?q?Meeting=0Aabout=20the=20case?=",
		"Message-Id: <m4@example.com>",
		"Content-Type: text/plain",
		"",
		"Body",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	// Newlines smuggled through encoded words become single spaces.
	assert.Equal(t, "Meeting about the case", email.Subject)
}

func TestParseMissingHeaders(t *testing.T) {
	raw := rawMessage(
		"From: not a valid address",
		"Content-Type: text/plain",
		"",
		"Body only",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	assert.Empty(t, email.MessageID)
	assert.Empty(t, email.Subject)
	assert.Nil(t, email.Date)
	assert.Equal(t, "not a valid address", email.From)
	assert.Equal(t, "Body only", email.ParsedBody)
}

func TestParseNoPlainPart(t *testing.T) {
	raw := rawMessage(
		"From: eve@example.com",
		"Subject: HTML only",
		"Message-Id: <m5@example.com>",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Only HTML here</p>",
	)

	email, err := Parse(raw)
	require.NoError(t, err)

	assert.Empty(t, email.RawBody)
	assert.Empty(t, email.ParsedBody)
}

func TestCleanNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, "a b", clean("a\r\nb"))
	assert.Equal(t, "a b", clean("  a\nb  "))
	assert.Equal(t, "", clean("\r\n\r\n"))
}
