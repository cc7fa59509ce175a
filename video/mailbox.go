// Package video provides the frame sources the renderer uploads from.
package video

import (
	"image"
	"sync"
	"sync/atomic"
)

// Source provides the latest decoded frame. ok is false until a frame has
// arrived.
type Source interface {
	Frame() (img *image.RGBA, ok bool)
}

// Mailbox holds the most recent frame published by a producer goroutine.
// Newer frames replace older ones; a frame replaced before anyone read it
// counts as dropped. Published images must not be modified afterwards.
type Mailbox struct {
	mu     sync.Mutex
	frame  *image.RGBA
	unread bool

	published uint64
	dropped   uint64
}

// MailboxStats reports how many frames were published and how many were
// overwritten before being read.
type MailboxStats struct {
	Published uint64
	Dropped   uint64
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish replaces the held frame. It never blocks on readers.
func (m *Mailbox) Publish(img *image.RGBA) {
	m.mu.Lock()
	if m.unread {
		atomic.AddUint64(&m.dropped, 1)
	}
	m.frame = img
	m.unread = true
	m.mu.Unlock()
	atomic.AddUint64(&m.published, 1)
}

// Frame returns the latest frame. The same frame is returned until a newer
// one is published.
func (m *Mailbox) Frame() (*image.RGBA, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unread = false
	return m.frame, m.frame != nil
}

func (m *Mailbox) Stats() MailboxStats {
	return MailboxStats{
		Published: atomic.LoadUint64(&m.published),
		Dropped:   atomic.LoadUint64(&m.dropped),
	}
}
