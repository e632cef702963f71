package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawfirm-crm/internal/model"
)

type fakeStore struct {
	threads   map[string]string
	clients   map[string]*model.Client
	inserted  []*model.Mail
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		threads: make(map[string]string),
		clients: make(map[string]*model.Client),
	}
}

func (s *fakeStore) ResolveThreadID(inReplyTo string) (string, bool, error) {
	threadID, ok := s.threads[inReplyTo]
	return threadID, ok, nil
}

func (s *fakeStore) FindClientByEmail(address string) (*model.Client, error) {
	return s.clients[address], nil
}

func (s *fakeStore) InsertMail(mail *model.Mail) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, mail)
	return nil
}

type fakeUploader struct {
	keys      []string
	uploadErr error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if u.uploadErr != nil {
		return "", u.uploadErr
	}
	u.keys = append(u.keys, key)
	return "https://files.test/attachments-bucket/" + key, nil
}

func rawMessage(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n"))
}

func simpleMessage(messageID, from, subject, body string) []byte {
	return rawMessage(
		fmt.Sprintf("From: %s", from),
		"To: inbox@firm.test",
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Message-Id: %s", messageID),
		"Date: Tue, 02 Jan 2024 15:04:05 -0700",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	)
}

func newTestPipeline(store *fakeStore, uploader *fakeUploader) *Pipeline {
	p := New(store, uploader, "inbox@firm.test")
	p.now = func() time.Time { return time.UnixMilli(1704207845123) }
	return p
}

func TestProcessMessageStoresMail(t *testing.T) {
	store := newFakeStore()
	store.clients["alice@example.com"] = &model.Client{ID: 7, PrimaryEmail: "alice@example.com"}

	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := simpleMessage("<m1@example.com>", "Alice <alice@example.com>", "Hello",
		"Hi there\r\n\r\nSent from my iPhone")

	mail, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)

	assert.Equal(t, "<m1@example.com>", mail.MessageID)
	assert.Equal(t, "<m1@example.com>", mail.ThreadID)
	assert.Nil(t, mail.InReplyTo)
	require.NotNil(t, mail.ClientID)
	assert.Equal(t, uint(7), *mail.ClientID)
	assert.Equal(t, model.DirectionIncoming, mail.Direction)
	assert.Equal(t, "alice@example.com", mail.FromAddress)
	assert.Equal(t, []string{"inbox@firm.test"}, mail.ToAddress)
	assert.Equal(t, "Hi there", mail.ParsedBody)
	assert.Contains(t, mail.RawBody, "Sent from my iPhone")
	require.NotNil(t, mail.ReceivedAt)
}

func TestProcessMessageInheritsThread(t *testing.T) {
	store := newFakeStore()
	store.threads["<m1@example.com>"] = "root-1"

	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := rawMessage(
		"From: bob@example.com",
		"Subject: Re: Hello",
		"Message-Id: <m2@example.com>",
		"In-Reply-To: <m1@example.com>",
		"Content-Type: text/plain",
		"",
		"Reply body",
	)

	mail, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "root-1", mail.ThreadID)
	require.NotNil(t, mail.InReplyTo)
	assert.Equal(t, "<m1@example.com>", *mail.InReplyTo)
}

func TestProcessMessageUnknownParentStartsOwnThread(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := rawMessage(
		"From: bob@example.com",
		"Subject: Re: Hello",
		"Message-Id: <m2@example.com>",
		"In-Reply-To: <never-seen@example.com>",
		"Content-Type: text/plain",
		"",
		"Reply body",
	)

	mail, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "<m2@example.com>", mail.ThreadID)
}

func TestProcessMessageUnmatchedSender(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := simpleMessage("<m1@example.com>", "stranger@example.com", "Hello", "Body")

	mail, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)
	assert.Nil(t, mail.ClientID)
	require.Len(t, store.inserted, 1)
}

func TestProcessMessageDuplicatesAccepted(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := simpleMessage("<m1@example.com>", "alice@example.com", "Hello", "Body")

	_, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)
	_, err = pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)

	// The same message fetched twice yields two rows with one message id.
	require.Len(t, store.inserted, 2)
	assert.Equal(t, store.inserted[0].MessageID, store.inserted[1].MessageID)
}

func TestProcessMessageUploadsAttachments(t *testing.T) {
	store := newFakeStore()
	store.clients["carol@example.com"] = &model.Client{ID: 3, PrimaryEmail: "carol@example.com"}

	uploader := &fakeUploader{}
	pipeline := newTestPipeline(store, uploader)

	raw := rawMessage(
		"From: carol@example.com",
		"Subject: With file",
		"Message-Id: <m3@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="BOUND"`,
		"",
		"--BOUND",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Body text",
		"--BOUND",
		`Content-Type: application/pdf; name="contract.pdf"`,
		`Content-Disposition: attachment; filename="contract.pdf"`,
		"Content-Transfer-Encoding: base64",
		"",
		"JVBERi0=",
		"--BOUND--",
	)

	mail, err := pipeline.ProcessMessage(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, uploader.keys, 1)
	assert.Equal(t, "attachments/3/1704207845123.pdf", uploader.keys[0])

	require.Len(t, mail.Attachments, 1)
	assert.Equal(t, "contract.pdf", mail.Attachments[0].Name)
	assert.Equal(t, "https://files.test/attachments-bucket/attachments/3/1704207845123.pdf", mail.Attachments[0].URL)
}

func TestProcessMessageUploadFailureAborts(t *testing.T) {
	store := newFakeStore()
	uploader := &fakeUploader{uploadErr: errors.New("bucket unavailable")}
	pipeline := newTestPipeline(store, uploader)

	raw := rawMessage(
		"From: carol@example.com",
		"Subject: With file",
		"Message-Id: <m3@example.com>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="BOUND"`,
		"",
		"--BOUND",
		"Content-Type: text/plain",
		"",
		"Body text",
		"--BOUND",
		`Content-Type: application/pdf; name="contract.pdf"`,
		`Content-Disposition: attachment; filename="contract.pdf"`,
		"",
		"data",
		"--BOUND--",
	)

	_, err := pipeline.ProcessMessage(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract.pdf")
	assert.Empty(t, store.inserted)
}

func TestProcessMessageInsertFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("connection lost")
	pipeline := newTestPipeline(store, &fakeUploader{})

	raw := simpleMessage("<m1@example.com>", "alice@example.com", "Hello", "Body")

	_, err := pipeline.ProcessMessage(context.Background(), raw)
	require.Error(t, err)
	assert.Empty(t, store.inserted)
}
