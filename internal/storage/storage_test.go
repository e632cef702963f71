package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentKey(t *testing.T) {
	at := time.UnixMilli(1704207845123)

	clientID := uint(7)
	key := AttachmentKey(&clientID, "contract.pdf", at)
	assert.Equal(t, "attachments/7/1704207845123.pdf", key)

	key = AttachmentKey(nil, "scan.jpeg", at)
	assert.Equal(t, "attachments/unknown/1704207845123.jpeg", key)
}

func TestAttachmentKeyNoExtension(t *testing.T) {
	at := time.UnixMilli(1704207845123)
	key := AttachmentKey(nil, "README", at)
	assert.Equal(t, "attachments/unknown/1704207845123", key)
}

func TestAttachmentKeyCollision(t *testing.T) {
	at := time.UnixMilli(1704207845123)

	// Same millisecond, same extension: the keys collide.
	first := AttachmentKey(nil, "a.pdf", at)
	second := AttachmentKey(nil, "b.pdf", at)
	assert.Equal(t, first, second)

	// Differing extensions keep them apart.
	third := AttachmentKey(nil, "c.png", at)
	assert.NotEqual(t, first, third)

	// A later millisecond keeps them apart.
	fourth := AttachmentKey(nil, "d.pdf", at.Add(time.Millisecond))
	assert.NotEqual(t, first, fourth)
}
