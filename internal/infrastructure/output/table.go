package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/execution"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats responses as human-readable tables.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", 64), colorGray)
}

// Format writes the reaction result as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(resp *dto.ReactionResponse) error {
	f.formatResult(resp.Result)
	return nil
}

// FormatBatch writes every batch item followed by a summary.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatBatch(resp *dto.BatchResponse) error {
	for _, item := range resp.Items {
		if item.Failed() {
			fmt.Fprintln(f.writer, f.rule())
			fmt.Fprintf(f.writer, "%s %s-%s: %s (%s)\n",
				f.colorize("✗", colorRed), item.Pair.ElementA, item.Pair.ElementB, item.Error, item.ErrorKind)
			fmt.Fprintln(f.writer)
			continue
		}
		f.formatResult(item.Result)
	}

	fmt.Fprintln(f.writer, f.rule())
	failed := resp.Failures()
	summary := fmt.Sprintf("%d pairs, %d succeeded, %d failed", len(resp.Items), len(resp.Items)-failed, failed)
	if failed > 0 {
		fmt.Fprintln(f.writer, f.colorize(summary, colorYellow))
	} else {
		fmt.Fprintln(f.writer, f.colorize(summary, colorGreen))
	}
	return nil
}

// hullPath joins the hull vertex formulas in fraction order.
func hullPath(d *entities.PhaseDiagram) string {
	if d == nil {
		return ""
	}
	vertices := d.HullVertices()
	names := make([]string, 0, len(vertices))
	for _, v := range vertices {
		names = append(names, d.Entry(v).ReducedFormula())
	}
	return strings.Join(names, " → ")
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatResult(r *execution.ReactionResult) {
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintf(f.writer, "System: %s\n", f.colorize(r.System, colorBold))
	fmt.Fprintf(f.writer, "Query: %s\n", r.ID)
	fmt.Fprintf(f.writer, "Estimator: %s\n", r.Estimator)
	fmt.Fprintf(f.writer, "Candidates: %d (%d valid, %d rejected)\n",
		r.CandidateCount, r.Screening.Valid, r.Screening.Rejected)
	fmt.Fprintf(f.writer, "Duration: %s\n", r.Duration.Round(time.Microsecond))
	fmt.Fprintln(f.writer)

	if len(r.Products) == 0 {
		fmt.Fprintln(f.writer, "No stable compounds.")
	} else {
		fmt.Fprintln(f.writer, f.colorize("Stable products:", colorBold))
		fmt.Fprintf(f.writer, "  %-12s %10s %18s\n", "FORMULA", "FRACTION", "ENERGY (eV/atom)")
		for _, p := range r.Products {
			fmt.Fprintf(f.writer, "  %s %10.4f %18.4f\n",
				f.colorize(fmt.Sprintf("%-12s", p.Formula), colorGreen), p.Fraction, p.EnergyPerAtom)
		}
	}

	if len(r.Entries) > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, f.colorize("Phase diagram:", colorBold))
		if hull := hullPath(r.Diagram); hull != "" {
			fmt.Fprintf(f.writer, "  hull: %s\n", hull)
		}
		fmt.Fprintf(f.writer, "    %-12s %10s %12s %12s\n", "FORMULA", "FRACTION", "ENERGY", "ABOVE HULL")
		for _, e := range r.Entries {
			symbol, color := "·", colorGray
			if e.Stability.IsStable() {
				symbol, color = "●", colorGreen
			}
			name := e.Formula
			if e.Source.IsReference() {
				name += " (ref)"
			}
			fmt.Fprintf(f.writer, "  %s %-12s %10.4f %12.4f %12.4f\n",
				f.colorize(symbol, color), name, e.Fraction, e.EnergyPerAtom, e.EnergyAboveHull)
			if len(e.DecomposesTo) > 0 {
				parts := make([]string, 0, len(e.DecomposesTo))
				for _, p := range e.DecomposesTo {
					parts = append(parts, fmt.Sprintf("%.2f %s", p.Fraction, p.Formula))
				}
				fmt.Fprintf(f.writer, "      %s\n", f.colorize("→ "+strings.Join(parts, " + "), colorGray))
			}
		}
	}

	if len(r.Screening.SampleReasons) > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, f.colorize("Rejected (sample):", colorCyan))
		for _, reason := range r.Screening.SampleReasons {
			fmt.Fprintf(f.writer, "  - %s\n", reason)
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(f.writer, "%s %s\n", f.colorize("warning:", colorYellow), w)
	}
	fmt.Fprintln(f.writer)
}
