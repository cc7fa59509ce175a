package cmd

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/soft"
	"github.com/achilleasa/stereocam/renderer"
	"github.com/urfave/cli"
)

// Render frames headless with the software device and save the last one.
func RenderPreview(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	tier, err := parseTier(ctx.String("tier"))
	if err != nil {
		return err
	}

	live, err := loadParams(ctx)
	if err != nil {
		return err
	}

	source, err := openStill(ctx)
	if err != nil {
		return err
	}

	canvas := soft.NewCanvas(ctx.Int("width"), ctx.Int("height"), float32(ctx.Float64("pixel-ratio")))
	dev := soft.New(canvas, tier)
	ticker := renderer.NewTicker(time.Millisecond)

	r, err := renderer.NewStereo(dev, canvas, source, live, ticker, renderer.DefaultOptions())
	if err != nil {
		return err
	}
	defer r.Close()

	r.Start()
	frames := ticker.RunFrames(max(ctx.Int("frames"), 1))
	r.Stop()
	logger.Infof("rendered %d frame(s) on %s", frames, dev.Name())

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = png.Encode(f, canvas.Image()); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}
	logger.Noticef("wrote %s", out)

	displayFrameStats(r.Stats())
	return nil
}

func parseTier(name string) (gpu.Tier, error) {
	switch name {
	case "a", "A", "extended":
		return gpu.TierExtended, nil
	case "b", "B", "baseline":
		return gpu.TierBaseline, nil
	}
	return gpu.TierBaseline, fmt.Errorf("unknown capability tier %q", name)
}
