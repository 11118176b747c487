// internal/accuracy/report.go
package accuracy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/senticv/internal/util"
)

const (
	// reportTextWidth bounds texts and error messages quoted in the report.
	reportTextWidth = 72
	// maxUnmatchedListed caps the unmatched texts listed in the report.
	maxUnmatchedListed = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("242")).
			Padding(0, 1)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// FormatHitRate renders a rate as a percentage coloured by quality.
func FormatHitRate(rate float64) string {
	text := fmt.Sprintf("%.2f%%", rate*100)
	switch {
	case rate >= 0.7:
		return color.GreenString(text)
	case rate >= 0.5:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

// Render writes a human-readable report of s.
func Render(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render("senticv cross-validation"))
	if s.Backend != "" {
		fmt.Fprintf(&b, "backend:    %s (%s)\n", s.Backend, s.Classifier)
	}
	fmt.Fprintf(&b, "records:    %d (dropped %d)\n", s.Records, s.Dropped)
	fmt.Fprintf(&b, "folds:      %d scored, %d failed\n\n", len(s.PerFold), len(s.Failures))

	fmt.Fprintf(&b, "%-6s %-10s %-12s %s\n", "fold", "hit rate", "hits", "unmatched")
	for _, fs := range s.PerFold {
		if fs.Err != "" {
			fmt.Fprintf(&b, "%-6d %s\n", fs.Fold, failStyle.Render(clip(fs.Err)))
			continue
		}
		hits := fmt.Sprintf("%d/%d", fs.Result.Hits, fs.Result.Evaluated)
		fmt.Fprintf(&b, "%-6d %-10s %-12s %d\n", fs.Fold, FormatHitRate(fs.Result.HitRate), hits, fs.Result.UnmatchedCount)
	}

	fmt.Fprintf(&b, "\naggregate:  %s (%d/%d), unmatched %d\n",
		FormatHitRate(s.Aggregate.HitRate), s.Aggregate.Hits, s.Aggregate.Evaluated, s.Aggregate.UnmatchedCount)
	if s.FoldStats.Count > 0 {
		fmt.Fprintf(&b, "fold rates: mean %.4f, stddev %.4f, min %.4f, max %.4f\n",
			s.FoldStats.Mean, s.StdDev, s.FoldStats.Min, s.FoldStats.Max)
	}

	fmt.Fprintf(&b, "\n%-8s %6s %8s %6s\n", "truth", "neg", "neutral", "pos")
	for truth, name := range []string{"neg", "neutral", "pos"} {
		row := s.Aggregate.Confusion[truth]
		fmt.Fprintf(&b, "%-8s %6d %8d %6d\n", name, row[0], row[1], row[2])
	}

	if unmatched := s.Aggregate.Unmatched; len(unmatched) > 0 {
		fmt.Fprintf(&b, "\nunmatched outputs:\n")
		for i, text := range unmatched {
			if i == maxUnmatchedListed {
				fmt.Fprintf(&b, "  ... %d more\n", len(unmatched)-i)
				break
			}
			fmt.Fprintf(&b, "  %q\n", clip(text))
		}
	}

	for _, f := range s.Failures {
		fmt.Fprintln(&b, failStyle.Render(fmt.Sprintf("fold %d failed: %s", f.Fold, clip(f.Error))))
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

// clip flattens text onto one line and bounds its width.
func clip(text string) string {
	return util.TruncateRunes(util.SingleLine(text), reportTextWidth)
}

// RenderJSON writes s as indented JSON.
func RenderJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
