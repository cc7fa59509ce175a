package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/stereocam/gpu/display"
	"github.com/achilleasa/stereocam/renderer"
	"github.com/urfave/cli"
)

// Report which capability tier the driver provides and whether the program
// for each tier builds.
func ListTiers(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	for idx, forceBaseline := range []bool{false, true} {
		requested := "best available"
		if forceBaseline {
			requested = "baseline"
		}
		buf.WriteString(fmt.Sprintf("\n[Context %02d] requested %s\n", idx, requested))

		win, err := display.Open(display.Options{Width: 64, Height: 64, Hidden: true, ForceBaseline: forceBaseline})
		if err != nil {
			buf.WriteString(fmt.Sprintf("  Error   %s\n", err.Error()))
			continue
		}

		dev := win.Device()
		buf.WriteString(fmt.Sprintf("  Device  %s\n  Tier    %s\n", dev.Name(), dev.Tier()))
		prog, err := renderer.BuildProgram(dev)
		if err != nil {
			buf.WriteString(fmt.Sprintf("  Program FAILED\n%s\n", err.Error()))
		} else {
			buf.WriteString(fmt.Sprintf("  Program ok (missing uniforms: %v)\n", prog.Handles.Missing()))
			prog.Release()
		}
		win.Close()
	}

	logger.Notice(buf.String())
	return nil
}
