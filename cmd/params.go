package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/achilleasa/stereocam/params"
	"github.com/urfave/cli"
)

// Load the parameter set named by the --params flag, or the defaults.
func loadParams(ctx *cli.Context) (*params.Live, error) {
	p := params.Defaults()
	if path := ctx.String("params"); path != "" {
		var err error
		if p, err = params.Load(path); err != nil {
			return nil, err
		}
		logger.Infof("loaded parameters from %s", path)
	}
	return params.NewLive(p), nil
}

// Reload the parameter file into live whenever it changes and pass every
// reloaded set to onReload. Returns immediately when --watch is not set.
func watchParams(runCtx context.Context, ctx *cli.Context, live *params.Live, onReload func(params.ParameterSet)) {
	path := ctx.String("params")
	if !ctx.Bool("watch") || path == "" {
		return
	}

	go func() {
		if err := params.Watch(runCtx, path, live, onReload); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warningf("stopped watching %s: %s", path, err.Error())
		}
	}()
}

// Print the default parameter set as YAML.
func PrintParams(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	return params.Encode(os.Stdout, params.Defaults())
}
