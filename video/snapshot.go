package video

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

// Snapshot polls a camera snapshot location (typically an http URL serving
// a JPEG) and publishes every decoded image. Failed polls are counted and
// retried on the next tick.
type Snapshot struct {
	*Mailbox

	location   string
	interval   time.Duration
	maxW, maxH int
	client     *http.Client

	failures uint64
}

// NewSnapshot creates a poller fetching location fps times per second.
// Frames are downscaled to fit maxW x maxH.
func NewSnapshot(location string, fps float64, maxW, maxH int) *Snapshot {
	if fps <= 0 {
		fps = 10
	}
	return &Snapshot{
		Mailbox:  NewMailbox(),
		location: location,
		interval: time.Duration(float64(time.Second) / fps),
		maxW:     maxW,
		maxH:     maxH,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Failures returns the number of polls that did not produce a frame.
func (s *Snapshot) Failures() uint64 {
	return atomic.LoadUint64(&s.failures)
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (s *Snapshot) Run(ctx context.Context) error {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		if err := s.poll(ctx); err != nil && ctx.Err() == nil {
			atomic.AddUint64(&s.failures, 1)
			logger.Debugf("snapshot poll failed: %s", err.Error())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}

func (s *Snapshot) poll(ctx context.Context) error {
	res, err := OpenResource(ctx, s.location, s.client)
	if err != nil {
		return err
	}
	defer res.Close()

	img, err := DecodeImage(res, res.Path(), s.maxW, s.maxH)
	if err != nil {
		return err
	}
	s.Publish(img)
	return nil
}
