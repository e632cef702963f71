package mailbox

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// Attachment is a decoded MIME attachment awaiting upload
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// InboundEmail is the parsed form of a fetched message
type InboundEmail struct {
	MessageID   string
	InReplyTo   string
	From        string
	Subject     string
	Date        *time.Time
	RawBody     string
	ParsedBody  string
	Attachments []Attachment
}

// Parse decodes a raw MIME message: headers (charset-aware, subject forced to
// a single line), the first text/plain non-attachment part as body, the
// reply-stripped and whitespace-normalized body, and any attachment parts.
func Parse(raw []byte) (*InboundEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read MIME envelope: %w", err)
	}

	email := &InboundEmail{
		MessageID: env.GetHeader("Message-Id"),
		InReplyTo: env.GetHeader("In-Reply-To"),
		Subject:   clean(env.GetHeader("Subject")),
		From:      senderAddress(env.GetHeader("From")),
	}

	if dateHeader := env.GetHeader("Date"); dateHeader != "" {
		if parsed, err := mail.ParseDate(dateHeader); err == nil {
			email.Date = &parsed
		}
	}

	email.RawBody = plainBody(env)
	email.ParsedBody = clean(StripReply(email.RawBody))

	for _, part := range env.Attachments {
		email.Attachments = append(email.Attachments, Attachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Data:        part.Content,
		})
	}

	return email, nil
}

// plainBody returns the decoded content of the first text/plain part whose
// disposition is not attachment, walking parts in stored order. Non-multipart
// messages are a single part and match directly. No text/plain part means an
// empty body.
func plainBody(env *enmime.Envelope) string {
	part := env.Root.DepthMatchFirst(func(p *enmime.Part) bool {
		return p.ContentType == "text/plain" && p.Disposition != "attachment"
	})
	if part == nil {
		return ""
	}
	return string(part.Content)
}

// senderAddress extracts the bare address from a From header value,
// degrading to the raw value when it does not parse
func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return addr.Address
}

// clean drops carriage returns, collapses newlines into single spaces and trims
func clean(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
