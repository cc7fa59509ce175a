package renderer

// Viewport is a rectangle in device pixels with its origin at the bottom
// left corner of the surface.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// StereoLayout holds the two eye viewports for one frame.
type StereoLayout struct {
	// Edge of the square eye viewports.
	Size int

	Left  Viewport
	Right Viewport
}

// Eye returns the viewport for the given eye.
func (l StereoLayout) Eye(e Eye) Viewport {
	if e == RightEye {
		return l.Right
	}
	return l.Left
}

// Layout splits a surface of w x h device pixels into two equal squares that
// sit side by side, centered on both axes. Degenerate sizes produce 1x1
// viewports.
func Layout(w, h int) StereoLayout {
	size := min(h, w/2)
	if size < 1 {
		size = 1
	}

	offX := max(0, floorHalf(w-2*size))
	offY := max(0, floorHalf(h-size))
	return StereoLayout{
		Size:  size,
		Left:  Viewport{X: offX, Y: offY, Width: size, Height: size},
		Right: Viewport{X: offX + size, Y: offY, Width: size, Height: size},
	}
}

func floorHalf(v int) int {
	if v < 0 {
		return (v - 1) / 2
	}
	return v / 2
}
