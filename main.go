package main

import (
	"os"

	"github.com/achilleasa/stereocam/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sourceFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "params, p",
			Usage: "YAML parameter file; omitted keys use their defaults",
		},
		cli.StringFlag{
			Name:  "image, i",
			Usage: "show a still image (path or http URL) instead of the test pattern",
		},
		cli.IntFlag{
			Name:  "max-video-width",
			Value: 1280,
			Usage: "downscale video frames wider than this",
		},
		cli.IntFlag{
			Name:  "max-video-height",
			Value: 720,
			Usage: "downscale video frames taller than this",
		},
	}

	app := cli.NewApp()
	app.Name = "stereocam"
	app.Usage = "render a camera feed as a stereoscopic view for cardboard style VR viewers"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "show the stereo view in a window",
			Description: `
Open a window with the best OpenGL context available (3.3 core, falling back
to 2.1) and render the stereo view once per display refresh.

Keys: Esc quits, Space pauses/resumes rendering, C toggles the calibration
overlay, M toggles the magnifier and F cycles through the filters.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "window height",
				},
				cli.BoolFlag{
					Name:  "watch, w",
					Usage: "reload the parameter file whenever it changes",
				},
				cli.Float64Flag{
					Name:  "fps",
					Value: 30,
					Usage: "test pattern or camera poll rate; 0 shows a static pattern",
				},
				cli.StringFlag{
					Name:  "camera, c",
					Usage: "poll camera snapshots from this URL at --fps",
				},
				cli.BoolFlag{
					Name:  "baseline",
					Usage: "skip the OpenGL 3.3 context and use the baseline tier",
				},
			}, sourceFlags...),
			Action: cmd.ViewStereo,
		},
		{
			Name:        "preview",
			Usage:       "render the stereo view headless and save it as PNG",
			Description: `Render frames with the software device and write the last one to a PNG file.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "surface width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "surface height",
				},
				cli.Float64Flag{
					Name:  "pixel-ratio",
					Value: 1,
					Usage: "device pixel ratio of the surface",
				},
				cli.StringFlag{
					Name:  "tier, t",
					Value: "a",
					Usage: "capability tier to emulate (a or b)",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to render",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "stereo.png",
					Usage: "image filename for the rendered frame",
				},
			}, sourceFlags...),
			Action: cmd.RenderPreview,
		},
		{
			Name:   "tiers",
			Usage:  "report the available OpenGL capability tiers",
			Action: cmd.ListTiers,
		},
		{
			Name:   "params",
			Usage:  "print the default parameter set as YAML",
			Action: cmd.PrintParams,
		},
	}

	app.Run(os.Args)
}
