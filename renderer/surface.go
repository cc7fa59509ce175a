package renderer

import (
	"image"
	"sync"

	"github.com/google/uuid"
)

// Surface is the render target a pipeline draws into.
type Surface interface {
	// Logical size and the ratio between device pixels and logical units.
	ClientSize() (width, height int, pixelRatio float32)

	// Reallocate the backing store to the given device pixel size.
	ResizeBacking(width, height int)
}

// FrameRequester delivers a single callback on the next display refresh.
// The callback reports whether it drew a frame worth presenting; when it
// returns false the previous frame stays on screen.
type FrameRequester interface {
	RequestFrame(fn func() bool)
	CancelFrame()
}

// FrameSource provides the most recent decoded video frame. ok is false
// while no frame is ready.
type FrameSource interface {
	Frame() (img *image.RGBA, ok bool)
}

// Surfaces currently owned by a pipeline.
var (
	boundMu  sync.Mutex
	boundSet = map[Surface]uuid.UUID{}
)

func bindSurface(s Surface, id uuid.UUID) error {
	boundMu.Lock()
	defer boundMu.Unlock()
	if _, taken := boundSet[s]; taken {
		return ErrSurfaceInUse
	}
	boundSet[s] = id
	return nil
}

func unbindSurface(s Surface, id uuid.UUID) {
	boundMu.Lock()
	defer boundMu.Unlock()
	if boundSet[s] == id {
		delete(boundSet, s)
	}
}
