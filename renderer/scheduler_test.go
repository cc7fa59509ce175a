package renderer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerStartIsIdempotent(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	frames := 0
	s := NewScheduler(ticker, func() error { frames++; return nil })

	s.Start()
	s.Start()
	if !s.Running() {
		t.Fatal("expected scheduler to be running")
	}
	if got := ticker.RunFrames(3); got != 3 {
		t.Fatalf("expected 3 callbacks; got %d", got)
	}
	if frames != 3 {
		t.Fatalf("expected 3 frames; got %d", frames)
	}
	if !ticker.Pending() {
		t.Fatal("expected scheduler to re-arm after each frame")
	}
}

func TestSchedulerStopCancelsPendingFrame(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	frames := 0
	s := NewScheduler(ticker, func() error { frames++; return nil })

	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatal("expected scheduler to be stopped")
	}
	if ticker.Fire() {
		t.Fatal("expected no pending callback after stop")
	}
	if frames != 0 {
		t.Fatalf("expected no frames; got %d", frames)
	}
}

func TestSchedulerStopDuringFrame(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	frames := 0
	var s *Scheduler
	s = NewScheduler(ticker, func() error {
		frames++
		s.Stop()
		return nil
	})

	s.Start()
	ticker.RunFrames(10)
	if frames != 1 {
		t.Fatalf("expected the in-flight frame to complete and nothing after it; got %d frames", frames)
	}
	if ticker.Pending() {
		t.Fatal("expected no re-arm after stop")
	}
}

func TestSchedulerRestartDuringFrame(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	requests := 0
	counting := &countingRequester{Ticker: ticker, requests: &requests}

	var s *Scheduler
	s = NewScheduler(counting, func() error {
		s.Stop()
		s.Start()
		return nil
	})

	s.Start()
	ticker.Fire()
	if !s.Running() || !ticker.Pending() {
		t.Fatal("expected scheduler to be running with one pending frame")
	}
	if requests != 2 {
		t.Fatalf("expected exactly 2 frame requests; got %d", requests)
	}
}

func TestSchedulerSurvivesFailedFrames(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	frames, failures := 0, 0
	s := NewScheduler(ticker, func() error {
		frames++
		if frames%2 == 0 {
			return errors.New("upload failed")
		}
		return nil
	})
	s.OnError = func(error) { failures++ }

	s.Start()
	if got := ticker.RunFrames(6); got != 6 {
		t.Fatalf("expected 6 callbacks; got %d", got)
	}
	if failures != 3 {
		t.Fatalf("expected 3 failures; got %d", failures)
	}
	if presented := ticker.Presented(); presented != 3 {
		t.Fatalf("expected only the 3 successful frames to be presented; got %d", presented)
	}
	if !s.Running() {
		t.Fatal("expected scheduler to keep running")
	}
}

func TestTickerRun(t *testing.T) {
	ticker := NewTicker(time.Millisecond)
	frames := 0
	var s *Scheduler
	s = NewScheduler(ticker, func() error {
		frames++
		if frames == 5 {
			s.Stop()
		}
		return nil
	})

	s.Start()
	if err := ticker.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if frames != 5 {
		t.Fatalf("expected 5 frames; got %d", frames)
	}
}

type countingRequester struct {
	*Ticker
	requests *int
}

func (c *countingRequester) RequestFrame(fn func() bool) {
	*c.requests++
	c.Ticker.RequestFrame(fn)
}
