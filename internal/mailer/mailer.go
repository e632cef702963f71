package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/smtp"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lawfirm-crm/internal/config"
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// SendRequest describes an outbound email
type SendRequest struct {
	To               []string
	Subject          string
	Body             string
	ReplyToMessageID string
	OriginalSubject  string
	AttachmentURLs   []string
}

// Mailer composes multipart messages and submits them over an authenticated
// STARTTLS SMTP session
type Mailer struct {
	config     *config.SMTPConfig
	transport  func(from string, to []string, msg []byte) error
	httpClient *http.Client
}

// New creates a mailer for the configured submission server
func New(cfg *config.SMTPConfig) *Mailer {
	m := &Mailer{
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	m.transport = m.submitSMTP
	return m
}

// Send composes and submits the message. It returns the generated message id;
// failures are reported to the caller and not retried.
func (m *Mailer) Send(ctx context.Context, req SendRequest) (string, error) {
	messageID, msg, err := m.Compose(ctx, req)
	if err != nil {
		return "", err
	}

	if err := m.transport(m.config.Username, req.To, msg); err != nil {
		return "", fmt.Errorf("failed to submit message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"to":         strings.Join(req.To, ","),
		"message_id": messageID,
	}).Info("Email sent")

	return messageID, nil
}

// Compose builds the full RFC 5322 message and returns its generated
// message id along with the serialized bytes
func (m *Mailer) Compose(ctx context.Context, req SendRequest) (string, []byte, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), m.domain())
	subject := req.Subject

	var header mail.Header
	header.SetDate(time.Now())
	header.SetAddressList("From", []*mail.Address{{Name: m.config.SenderName, Address: m.config.Username}})
	recipients := make([]*mail.Address, 0, len(req.To))
	for _, addr := range req.To {
		recipients = append(recipients, &mail.Address{Address: addr})
	}
	header.SetAddressList("To", recipients)
	header.Set("Message-Id", messageID)

	if req.ReplyToMessageID != "" {
		header.Set("In-Reply-To", req.ReplyToMessageID)
		header.Set("References", req.ReplyToMessageID)
		if !strings.HasPrefix(subject, "Re:") {
			original := req.OriginalSubject
			if original == "" {
				original = subject
			}
			subject = "Re: " + original
		}
	}
	header.SetSubject(subject)

	var buf bytes.Buffer
	writer, err := mail.CreateWriter(&buf, header)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	if err := m.writeBody(writer, req.Body); err != nil {
		return "", nil, err
	}

	for _, attachmentURL := range req.AttachmentURLs {
		if err := m.writeAttachment(ctx, writer, attachmentURL); err != nil {
			return "", nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	return messageID, buf.Bytes(), nil
}

// writeBody renders a plain text part and a minimal HTML part
func (m *Mailer) writeBody(writer *mail.Writer, body string) error {
	inline, err := writer.CreateInline()
	if err != nil {
		return fmt.Errorf("failed to create inline part: %w", err)
	}

	var textHeader mail.InlineHeader
	textHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	textPart, err := inline.CreatePart(textHeader)
	if err != nil {
		return fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := io.WriteString(textPart, ToPlainText(body)); err != nil {
		return err
	}
	textPart.Close()

	var htmlHeader mail.InlineHeader
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	htmlPart, err := inline.CreatePart(htmlHeader)
	if err != nil {
		return fmt.Errorf("failed to create html part: %w", err)
	}
	if _, err := io.WriteString(htmlPart, ToHTML(body)); err != nil {
		return err
	}
	htmlPart.Close()

	return inline.Close()
}

// writeAttachment fetches an attachment by URL and embeds it with an
// inferred MIME type
func (m *Mailer) writeAttachment(ctx context.Context, writer *mail.Writer, attachmentURL string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, attachmentURL, nil)
	if err != nil {
		return fmt.Errorf("invalid attachment URL %s: %w", attachmentURL, err)
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to fetch attachment %s: %w", attachmentURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch attachment %s: status %d", attachmentURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", attachmentURL, err)
	}

	filename := attachmentName(attachmentURL)

	var header mail.AttachmentHeader
	header.SetFilename(filename)
	header.SetContentType(inferContentType(filename, resp.Header.Get("Content-Type")), nil)

	part, err := writer.CreateAttachment(header)
	if err != nil {
		return fmt.Errorf("failed to create attachment part: %w", err)
	}
	defer part.Close()

	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return nil
}

// submitSMTP delivers the message over STARTTLS with credential auth
func (m *Mailer) submitSMTP(from string, to []string, msg []byte) error {
	c, err := smtp.Dial(m.config.Address())
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := c.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to open data stream: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data stream: %w", err)
	}

	return c.Quit()
}

func (m *Mailer) domain() string {
	if m.config.Domain != "" {
		return m.config.Domain
	}
	if at := strings.LastIndex(m.config.Username, "@"); at >= 0 {
		return m.config.Username[at+1:]
	}
	return "localhost"
}

// ToHTML converts markdown-style body text to a minimal HTML document:
// **bold** becomes <b>bold</b> and newlines become <br>
func ToHTML(body string) string {
	html := strings.ReplaceAll(body, "\n", "<br>")
	html = boldPattern.ReplaceAllString(html, "<b>$1</b>")
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<body>\n%s\n</body>\n</html>", html)
}

// ToPlainText strips markdown bold markers and any HTML from body text
func ToPlainText(body string) string {
	text := boldPattern.ReplaceAllString(body, "$1")
	text = strings.ReplaceAll(text, "<br>", "\n")
	return tagPattern.ReplaceAllString(text, "")
}

func attachmentName(attachmentURL string) string {
	parsed, err := url.Parse(attachmentURL)
	if err != nil {
		return path.Base(attachmentURL)
	}
	return path.Base(parsed.Path)
}

func inferContentType(filename, fallback string) string {
	if byExt := mime.TypeByExtension(path.Ext(filename)); byExt != "" {
		return byExt
	}
	if fallback != "" {
		return fallback
	}
	return "application/octet-stream"
}
