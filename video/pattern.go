package video

import (
	"context"
	"image"
	"image/color"
	"time"
)

// Color bars from left to right.
var bars = []color.RGBA{
	{R: 235, G: 235, B: 235, A: 255},
	{R: 235, G: 235, B: 16, A: 255},
	{R: 16, G: 235, B: 235, A: 255},
	{R: 16, G: 235, B: 16, A: 255},
	{R: 235, G: 16, B: 235, A: 255},
	{R: 235, G: 16, B: 16, A: 255},
	{R: 16, G: 16, B: 235, A: 255},
}

// TestPattern draws a test card: color bars with a white grid every 1/8 of
// the frame and a dark vertical sweep at the given phase in [0, 1).
func TestPattern(w, h int, phase float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}

	cellW, cellH := max(w/8, 1), max(h/8, 1)
	sweep := int(phase*float64(w)) % w
	sweepW := max(w/32, 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := bars[x*len(bars)/w]
			switch {
			case x%cellW == 0 || y%cellH == 0:
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			case x >= sweep && x < sweep+sweepW:
				c = color.RGBA{R: c.R / 4, G: c.G / 4, B: c.B / 4, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Generator publishes an animated test pattern at a fixed rate, standing in
// for a live camera.
type Generator struct {
	*Mailbox

	width, height int
	interval      time.Duration
	period        int
}

// NewGenerator creates a generator for w x h frames at fps frames per
// second. The sweep crosses the frame once every two seconds.
func NewGenerator(w, h int, fps float64) *Generator {
	if fps <= 0 {
		fps = 30
	}
	return &Generator{
		Mailbox:  NewMailbox(),
		width:    w,
		height:   h,
		interval: time.Duration(float64(time.Second) / fps),
		period:   max(int(2*fps), 1),
	}
}

// Run publishes frames until ctx is cancelled. The first frame is published
// immediately.
func (g *Generator) Run(ctx context.Context) error {
	tick := time.NewTicker(g.interval)
	defer tick.Stop()

	for n := 0; ; n++ {
		g.Publish(TestPattern(g.width, g.height, float64(n%g.period)/float64(g.period)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
