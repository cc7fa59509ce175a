package renderer

type Options struct {
	// Color used to clear the surface before the eyes are drawn.
	ClearColor [4]float32

	// Optional label used in log output; defaults to the pipeline id.
	Label string
}

// DefaultOptions returns options with an opaque black clear color.
func DefaultOptions() Options {
	return Options{
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}
