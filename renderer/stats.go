package renderer

import (
	"time"

	"github.com/achilleasa/stereocam/gpu"
)

type FrameStats struct {
	// The pipeline id.
	Id string

	// The device and capability tier the program was built for.
	Device string
	Tier   gpu.Tier

	// Current backing store size in device pixels and the number of times
	// it was reallocated.
	BackingW int
	BackingH int
	Resizes  uint64

	// Frame counters.
	Frames       uint64
	FailedFrames uint64

	// Texture upload counters. Skipped uploads happen when the video source
	// had no frame ready.
	Uploads        uint64
	SkippedUploads uint64

	// Time spent drawing frames.
	RenderTime time.Duration
}

// AvgFrameTime returns the mean time spent per drawn frame.
func (s FrameStats) AvgFrameTime() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.RenderTime / time.Duration(s.Frames)
}
