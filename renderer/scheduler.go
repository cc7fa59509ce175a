package renderer

// Scheduler runs a frame function once per display refresh while started.
// It is either running or stopped; Start and Stop are idempotent. A frame
// that fails is logged, is not presented and the next one is still
// scheduled.
//
// A Scheduler is not safe for concurrent use. It must be driven from the
// goroutine that delivers the requester's callbacks.
type Scheduler struct {
	requester FrameRequester
	frame     func() error

	running bool
	pending bool

	// Invoked with the error of every failed frame.
	OnError func(error)
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(requester FrameRequester, frame func() error) *Scheduler {
	return &Scheduler{
		requester: requester,
		frame:     frame,
	}
}

// Start arms the first frame callback.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.arm()
}

// Stop cancels the pending callback. A frame currently executing completes
// but does not schedule another one.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	if s.pending {
		s.pending = false
		s.requester.CancelFrame()
	}
}

// Running reports whether frames are being scheduled.
func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) arm() {
	if s.pending {
		return
	}
	s.pending = true
	s.requester.RequestFrame(s.tick)
}

func (s *Scheduler) tick() bool {
	s.pending = false
	if !s.running {
		return false
	}

	err := s.frame()
	if err != nil {
		logger.Debugf("frame skipped: %s", err.Error())
		if s.OnError != nil {
			s.OnError(err)
		}
	}

	if s.running {
		s.arm()
	}
	return err == nil
}
