package renderer

import "errors"

var (
	ErrNoDevice         = errors.New("renderer: no gpu device available")
	ErrNoSurface        = errors.New("renderer: no output surface")
	ErrNoFrameSource    = errors.New("renderer: no video frame source")
	ErrSurfaceInUse     = errors.New("renderer: surface is bound to another pipeline")
	ErrMissingAttribute = errors.New("renderer: program does not expose a required attribute")
	ErrClosed           = errors.New("renderer: pipeline is closed")
)
