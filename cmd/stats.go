package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/stereocam/renderer"
	"github.com/olekukonko/tablewriter"
)

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pipeline", "Device", "Backing", "Frames", "Failed", "Uploads", "Skipped", "Avg frame time"})
	table.Append([]string{
		stats.Id,
		stats.Device,
		fmt.Sprintf("%dx%d", stats.BackingW, stats.BackingH),
		fmt.Sprintf("%d", stats.Frames),
		fmt.Sprintf("%d", stats.FailedFrames),
		fmt.Sprintf("%d", stats.Uploads),
		fmt.Sprintf("%d", stats.SkippedUploads),
		stats.AvgFrameTime().String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
