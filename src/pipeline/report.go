package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/NiceneNerd/ukmm-release/src/output"
)

// Report renders one section per profile plus a final summary table.
// Results are rendered after all runs complete so parallel profiles
// never interleave in the job log.
func Report(w io.Writer, results []ProfileResult, elapsed time.Duration, color bool) {
	for _, res := range results {
		sec := output.NewSection(w, res.Profile.Platform, res.Duration, color)
		for _, s := range res.Steps {
			icon := output.StatusIcon(s.Status, color)
			switch s.Status {
			case "skipped":
				sec.Row("%-14s%s  %s", s.Name, icon, output.Dimmed(s.Detail, color))
			case "failed":
				sec.Row("%-14s%s  %s", s.Name, icon, s.Detail)
			default:
				sec.Row("%-14s%s  %s", s.Name, icon, formatDuration(s.Duration))
			}
		}
		if res.AssetName != "" {
			sec.Separator()
			sec.Row("artifact      %s", res.AssetName)
		}
		sec.Close()
	}

	sec := output.NewSection(w, "summary", 0, color)
	for _, res := range results {
		detail := res.AssetName
		if res.Status != "success" {
			detail = fmt.Sprintf("failed at %s", res.FailedStage)
		}
		output.SummaryRow(w, res.Profile.Platform, res.Status, detail, color)
	}
	sec.Separator()
	total := "success"
	if Failed(results) {
		total = "failed"
	}
	output.SummaryTotal(w, elapsed, total, color)
	sec.Close()
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
