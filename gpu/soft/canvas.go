package soft

import "image"

// Canvas is an off-screen output surface backed by an RGBA image.
type Canvas struct {
	clientW, clientH int
	pixelRatio       float32

	img     *image.RGBA
	resizes int
}

// NewCanvas creates a canvas with the given client size and device pixel
// ratio. The backing image is allocated on the first ResizeBacking call.
func NewCanvas(clientW, clientH int, pixelRatio float32) *Canvas {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Canvas{
		clientW:    clientW,
		clientH:    clientH,
		pixelRatio: pixelRatio,
		img:        image.NewRGBA(image.Rectangle{}),
	}
}

// ClientSize returns the logical size and device pixel ratio.
func (c *Canvas) ClientSize() (int, int, float32) {
	return c.clientW, c.clientH, c.pixelRatio
}

// SetClientSize changes the logical size, like a window resize would.
func (c *Canvas) SetClientSize(w, h int) {
	c.clientW, c.clientH = w, h
}

// ResizeBacking reallocates the backing image.
func (c *Canvas) ResizeBacking(w, h int) {
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.resizes++
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Resizes returns how many times the backing image was reallocated.
func (c *Canvas) Resizes() int {
	return c.resizes
}
