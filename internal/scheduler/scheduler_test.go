package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawfirm-crm/internal/config"
	"lawfirm-crm/internal/ingest"
	"lawfirm-crm/internal/metrics"
	"lawfirm-crm/internal/model"
)

type fakeFetcher struct {
	raws [][]byte
	err  error
}

func (f *fakeFetcher) FetchUnseen(ctx context.Context) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

type fakeStore struct {
	mu            sync.Mutex
	inserted      []*model.Mail
	failMessageID string
}

func (s *fakeStore) ResolveThreadID(inReplyTo string) (string, bool, error) {
	return "", false, nil
}

func (s *fakeStore) FindClientByEmail(address string) (*model.Client, error) {
	return nil, nil
}

func (s *fakeStore) InsertMail(mail *model.Mail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMessageID != "" && mail.MessageID == s.failMessageID {
		return errors.New("insert failed")
	}
	s.inserted = append(s.inserted, mail)
	return nil
}

type fakeUploader struct{}

func (u *fakeUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "https://files.test/attachments/" + key, nil
}

type fakeSyncer struct {
	authenticated bool
	synced        int
}

func (g *fakeSyncer) Authenticated() bool { return g.authenticated }

func (g *fakeSyncer) Sync(ctx context.Context) error {
	g.synced++
	return nil
}

// The metrics registry rejects duplicate registration, so tests share one set.
var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

func sharedMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		testMetrics = metrics.New()
	})
	return testMetrics
}

func simpleMessage(messageID string) []byte {
	return []byte(strings.Join([]string{
		"From: alice@example.com",
		"Subject: Hello",
		fmt.Sprintf("Message-Id: %s", messageID),
		"Content-Type: text/plain",
		"",
		"Body",
	}, "\r\n"))
}

func newTestScheduler(fetcher *fakeFetcher, store *fakeStore, gmail GmailSyncer) *Scheduler {
	pipeline := ingest.New(store, &fakeUploader{}, "inbox@firm.test")
	cfg := &config.SchedulerConfig{IntervalMinutes: 60}
	return New(cfg, fetcher, pipeline, gmail, sharedMetrics())
}

func TestSchedulerStartStop(t *testing.T) {
	s := newTestScheduler(&fakeFetcher{}, &fakeStore{}, nil)

	assert.False(t, s.IsRunning())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Starting twice is an error.
	assert.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stopping an idle scheduler is a no-op.
	assert.NoError(t, s.Stop())
}

func TestSchedulerRestart(t *testing.T) {
	s := newTestScheduler(&fakeFetcher{}, &fakeStore{}, nil)

	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())

	// A restart replaces the cancelled context so cycles can run again.
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.NoError(t, s.ctx.Err())
	require.NoError(t, s.Stop())
}

func TestSchedulerNextRun(t *testing.T) {
	s := newTestScheduler(&fakeFetcher{}, &fakeStore{}, nil)

	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	assert.False(t, s.GetNextRun().IsZero())
	require.NoError(t, s.Stop())
}

func TestRunOnceStoresMessages(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{raws: [][]byte{
		simpleMessage("<m1@example.com>"),
		simpleMessage("<m2@example.com>"),
	}}

	s := newTestScheduler(fetcher, store, nil)
	require.NoError(t, s.RunOnce())

	require.Len(t, store.inserted, 2)
	assert.Equal(t, "<m1@example.com>", store.inserted[0].MessageID)
	assert.Equal(t, "<m2@example.com>", store.inserted[1].MessageID)
}

func TestRunOnceSkipsFailedMessage(t *testing.T) {
	store := &fakeStore{failMessageID: "<m1@example.com>"}
	fetcher := &fakeFetcher{raws: [][]byte{
		simpleMessage("<m1@example.com>"),
		simpleMessage("<m2@example.com>"),
	}}

	s := newTestScheduler(fetcher, store, nil)
	require.NoError(t, s.RunOnce())

	// The failed message is skipped, the rest of the batch continues.
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "<m2@example.com>", store.inserted[0].MessageID)
}

func TestRunOnceFetchFailureAbortsCycle(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{err: errors.New("connection reset")}

	s := newTestScheduler(fetcher, store, nil)
	require.NoError(t, s.RunOnce())
	assert.Empty(t, store.inserted)
}

func TestRunOnceTriggersGmailSync(t *testing.T) {
	syncer := &fakeSyncer{authenticated: true}
	s := newTestScheduler(&fakeFetcher{}, &fakeStore{}, syncer)

	require.NoError(t, s.RunOnce())
	assert.Equal(t, 1, syncer.synced)

	// An unauthenticated syncer is left alone.
	idle := &fakeSyncer{authenticated: false}
	s = newTestScheduler(&fakeFetcher{}, &fakeStore{}, idle)
	require.NoError(t, s.RunOnce())
	assert.Equal(t, 0, idle.synced)
}
