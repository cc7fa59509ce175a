package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/display"
	"github.com/achilleasa/stereocam/params"
	"github.com/achilleasa/stereocam/renderer"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"
)

// Show the stereo view in a window until it is closed.
func ViewStereo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	live, err := loadParams(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := openSource(runCtx, ctx)
	if err != nil {
		return err
	}

	win, r, err := openPipeline(ctx, source, live)
	if err != nil {
		return err
	}
	defer win.Close()
	defer r.Close()

	tier := win.Device().Tier()
	updateTitle := func(p params.ParameterSet) {
		win.SetTitle(windowTitle(tier, p))
	}
	updateTitle(live.Snapshot())
	watchParams(runCtx, ctx, live, func(p params.ParameterSet) {
		win.Post(func() { updateTitle(p) })
	})

	running := true
	win.OnKey(func(key glfw.Key, _ glfw.ModifierKey) {
		switch key {
		case glfw.KeySpace:
			if running {
				r.Stop()
			} else {
				r.Start()
			}
			running = !running
			logger.Noticef("rendering running: %t", running)
		case glfw.KeyC:
			p := live.Update(func(p *params.ParameterSet) { p.Calibration = !p.Calibration })
			logger.Noticef("calibration overlay: %t", p.Calibration)
			updateTitle(p)
		case glfw.KeyM:
			p := live.Update(func(p *params.ParameterSet) { p.MagnifierEnabled = !p.MagnifierEnabled })
			logger.Noticef("magnifier: %t", p.MagnifierEnabled)
			updateTitle(p)
		case glfw.KeyF:
			p := live.Update(func(p *params.ParameterSet) { p.FilterMode = p.FilterMode.Next() })
			logger.Noticef("filter: %s", p.FilterMode)
			updateTitle(p)
		case glfw.KeyQ:
			win.RequestClose()
		}
	})

	r.Start()
	err = win.Run(runCtx)
	r.Stop()
	displayFrameStats(r.Stats())

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Open the window and build the pipeline on it. When the program for the
// extended tier does not build, retry on a baseline context.
func openPipeline(ctx *cli.Context, source renderer.FrameSource, live *params.Live) (*display.Window, renderer.Renderer, error) {
	opts := display.Options{
		Width:         ctx.Int("width"),
		Height:        ctx.Int("height"),
		ForceBaseline: ctx.Bool("baseline"),
	}

	for {
		win, err := display.Open(opts)
		if err != nil {
			return nil, nil, err
		}

		r, err := renderer.NewStereo(win.Device(), win, source, live, win, renderer.DefaultOptions())
		if err == nil {
			return win, r, nil
		}

		tier := win.Device().Tier()
		win.Close()
		buildFailed := errors.Is(err, gpu.ErrCompileFailed) || errors.Is(err, gpu.ErrLinkFailed)
		if !buildFailed || tier != gpu.TierExtended {
			return nil, nil, err
		}
		logger.Warningf("%s program failed to build; retrying with a baseline context:\n%s", tier, err.Error())
		opts.ForceBaseline = true
	}
}

func windowTitle(tier gpu.Tier, p params.ParameterSet) string {
	return fmt.Sprintf("stereocam [%s] filter: %s, magnifier: %t, calibration: %t", tier, p.FilterMode, p.MagnifierEnabled, p.Calibration)
}
