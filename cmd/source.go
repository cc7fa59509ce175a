package cmd

import (
	"context"

	"github.com/achilleasa/stereocam/renderer"
	"github.com/achilleasa/stereocam/video"
	"github.com/urfave/cli"
)

// Open the frame source selected by the command flags: a polled camera
// snapshot URL when --camera is set, a still image when --image is set,
// otherwise an animated test pattern. Pollers and generators run until
// runCtx is cancelled.
func openSource(runCtx context.Context, ctx *cli.Context) (renderer.FrameSource, error) {
	fps := ctx.Float64("fps")
	if camera := ctx.String("camera"); camera != "" {
		snap := video.NewSnapshot(camera, fps, ctx.Int("max-video-width"), ctx.Int("max-video-height"))
		go snap.Run(runCtx)
		logger.Infof("polling camera snapshots from %s", camera)
		return snap, nil
	}
	if ctx.String("image") != "" || fps <= 0 {
		still, err := openStill(ctx)
		if err != nil {
			return nil, err
		}
		return still, nil
	}

	maxW, maxH := ctx.Int("max-video-width"), ctx.Int("max-video-height")
	gen := video.NewGenerator(maxW, maxH, fps)
	go gen.Run(runCtx)
	logger.Infof("serving %dx%d test pattern at %.1f fps", maxW, maxH, fps)
	return gen, nil
}

// Open the image named by --image, or a static test pattern.
func openStill(ctx *cli.Context) (*video.Still, error) {
	maxW, maxH := ctx.Int("max-video-width"), ctx.Int("max-video-height")
	path := ctx.String("image")
	if path == "" {
		return video.NewStill(video.TestPattern(maxW, maxH, 0)), nil
	}

	img, err := video.LoadImage(path, maxW, maxH)
	if err != nil {
		return nil, err
	}
	logger.Infof("serving still frame %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return video.NewStill(img), nil
}
