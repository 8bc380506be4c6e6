// Package reporter renders scan reports for terminals and machine consumers.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"devsweep/internal/detect"
	"devsweep/internal/scanner"
	"devsweep/pkg/utils"
)

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	safeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	unsafeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Reporter writes reports in a fixed format.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Report renders a full detector report.
func (r *Reporter) Report(rep *detect.Report) error {
	switch r.format {
	case FormatJSON:
		return r.reportJSON(rep)
	case FormatSummary:
		return r.reportSummary(rep)
	case FormatTable:
		return r.reportTable(rep)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(rep *detect.Report) error {
	fmt.Fprintln(r.writer, headerStyle.Render("Developer tool disk usage"))
	fmt.Fprintf(r.writer, "Scanned at: %s\n", rep.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.writer, "Total: %s across %d tools\n",
		utils.FormatBytes(rep.TotalBytes), len(rep.Summaries))
	fmt.Fprintf(r.writer, "Reclaimable now: %s\n", utils.FormatBytes(rep.SafeBytes))
	return nil
}

func (r *Reporter) reportTable(rep *detect.Report) error {
	if err := r.reportSummary(rep); err != nil {
		return err
	}
	fmt.Fprintln(r.writer)
	for _, s := range rep.Summaries {
		fmt.Fprintf(r.writer, "%s  %s (%d artifacts, %s safe)\n",
			headerStyle.Render(s.Tool),
			utils.FormatBytes(s.TotalBytes), s.ArtifactCount,
			utils.FormatBytes(s.SafeBytes))
		for _, a := range s.Artifacts {
			risk := unsafeStyle.Render(a.Risk.String())
			if a.SafeToDelete {
				risk = safeStyle.Render(a.Risk.String())
			}
			fmt.Fprintf(r.writer, "  %-24s %12s  %-14s %s\n",
				a.Kind, utils.FormatBytes(a.SizeBytes), risk,
				dimStyle.Render(a.Explanation))
		}
	}
	return nil
}

func (r *Reporter) reportJSON(rep *detect.Report) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// ScanResult renders a single directory scan.
func (r *Reporter) ScanResult(root string, res *scanner.Result) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Root    string
			Entries []scanner.Entry
		}{Root: root, Entries: res.Entries})
	}

	fmt.Fprintln(r.writer, headerStyle.Render(root))
	for _, e := range res.Entries {
		fmt.Fprintf(r.writer, "  %12s  %s\n", utils.FormatBytes(e.SizeBytes), e.Name())
	}
	fmt.Fprintf(r.writer, "Total: %s in %d top-level folders\n",
		utils.FormatBytes(res.TotalBytes()), len(res.Entries))
	return nil
}
