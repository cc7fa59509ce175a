package renderer

type Renderer interface {
	// Begin drawing one frame per display refresh. Calling Start on a running
	// renderer has no effect.
	Start()

	// Stop scheduling frames. A frame already in progress completes.
	Stop()

	// Stop the renderer and release every GPU resource it owns.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
