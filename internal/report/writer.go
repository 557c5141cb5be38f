// Package report implements spec.md §4.G: a pivoted, schema-stable CSV
// with a fixed header, one row per identity/stats/matcher cell in a
// fixed order, and a trailing final-guess block. Fields are never
// quoted — encoding/csv's quoting-on-demand behaviour would violate
// spec.md's "never quote fields" rule, so rows are written by hand.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

const na = "NA"

var groupOrder = aggregate.AllSizeGroups

// Write emits in, in the exact row order spec.md §4.G specifies. The
// only failure mode is the output stream rejecting a write
// (output-write-failure, spec.md §7); partial output is not rewound.
func Write(w io.Writer, in Input) error {
	bw := &rowWriter{w: w}

	bw.row("title", "read", "write", "erase")

	bw.row("detected_jedec", strOrNA(in.DetectedJedec), strOrNA(in.DetectedJedec), strOrNA(in.DetectedJedec))
	bw.row("chip_model", strOrNA(in.ChipModel), strOrNA(in.ChipModel), strOrNA(in.ChipModel))
	bw.row("chip_family", strOrNA(in.ChipFamily), strOrNA(in.ChipFamily), strOrNA(in.ChipFamily))
	bw.row("company", strOrNA(in.Company), strOrNA(in.Company), strOrNA(in.Company))
	capMbit := fmtIntOpt(in.CapacityMbit)
	bw.row("capacity_mbit", capMbit, capMbit, capMbit)
	capBytes := fmtInt64Opt(in.CapacityBytes)
	bw.row("capacity_bytes", capBytes, capBytes, capBytes)

	sck := fmtSck(in.SckMHz)
	bw.row("spi_sck_MHz", sck, sck, sck)

	bw.row("units_summary", "ms", "ms", "ms")

	for i, g := range groupOrder {
		gs := in.Groups[i]
		suffix := g.String()
		bw.row("n_"+suffix, fmt.Sprintf("%d", gs.Read.N), fmt.Sprintf("%d", gs.Write.N), fmt.Sprintf("%d", gs.Erase.N))
		bw.row("avg_"+suffix+"_ms", fmt3(gs.Read.Mean), fmt3(gs.Write.Mean), fmt3(gs.Erase.Mean))
		bw.row("p25_"+suffix+"_ms", fmt3(gs.Read.P25), fmt3(gs.Write.P25), fmt3(gs.Erase.P25))
		bw.row("p50_"+suffix+"_ms", fmt3(gs.Read.P50), fmt3(gs.Write.P50), fmt3(gs.Erase.P50))
		bw.row("p75_"+suffix+"_ms", fmt3(gs.Read.P75), fmt3(gs.Write.P75), fmt3(gs.Erase.P75))
		bw.row("min_"+suffix+"_ms", fmt3(gs.Read.Min), fmt3(gs.Write.Min), fmt3(gs.Erase.Min))
		bw.row("max_"+suffix+"_ms", fmt3(gs.Read.Max), fmt3(gs.Write.Max), fmt3(gs.Erase.Max))
		bw.row("stddev_"+suffix+"_ms", fmtStddev(gs.Read.Stddev), fmtStddev(gs.Write.Stddev), fmtStddev(gs.Erase.Stddev))
	}

	for i, g := range groupOrder {
		t := in.DBMean[i]
		bw.row("db_mean_"+g.String(), fmt3(t.Read), fmt3(t.Write), fmt3(t.Erase))
	}

	for i, g := range groupOrder {
		t := in.PossibleChips[i]
		bw.row("possible_chips_"+g.String(), joinOrNA(t.Read), joinOrNA(t.Write), joinOrNA(t.Erase))
	}

	bw.row("conclusion_possible_chips",
		joinOrNA(in.ConclusionPossibleChips.Read),
		joinOrNA(in.ConclusionPossibleChips.Write),
		joinOrNA(in.ConclusionPossibleChips.Erase))

	bw.row("notes",
		"read values are latency-derived MB/s summarized in ms per spi_sck_MHz",
		"write values assume 256B page program granularity",
		"erase values are keyed by block size group (4K/32K/64K only)")

	if bw.err != nil {
		return fmt.Errorf("report: write failed: %w", bw.err)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("report: write failed: %w", err)
	}
	if _, err := io.WriteString(w, "final_guess_jedec,final_guess_model,final_guess_company,final_score\n"); err != nil {
		return fmt.Errorf("report: write failed: %w", err)
	}
	finalLine := strings.Join([]string{
		strOrNA(in.FinalGuessJedec),
		strOrNA(in.FinalGuessModel),
		strOrNA(in.FinalGuessCompany),
		fmt3(in.FinalScore),
	}, ",")
	if _, err := io.WriteString(w, finalLine+"\n"); err != nil {
		return fmt.Errorf("report: write failed: %w", err)
	}
	return nil
}

// rowWriter accumulates the first write error so callers can emit an
// entire report body without checking every line, then surface the
// failure once at the end.
type rowWriter struct {
	w   io.Writer
	err error
}

func (r *rowWriter) row(title, read, write, erase string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, "%s,%s,%s,%s\n", title, read, write, erase)
}

func strOrNA(s string) string {
	if s == "" {
		return na
	}
	return s
}

func joinOrNA(list []string) string {
	if len(list) == 0 {
		return na
	}
	return strings.Join(list, "/")
}

func fmt3(o stats.Option[float64]) string {
	v, ok := o.Get()
	if !ok {
		return na
	}
	return fmt.Sprintf("%.3f", v)
}

func fmtStddev(o stats.Option[float64]) string {
	v, ok := o.Get()
	if !ok {
		return na
	}
	mag := math.Abs(v)
	if mag > 0 && mag < 1e-3 {
		return fmt.Sprintf("%.6f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

func fmtSck(o stats.Option[float64]) string {
	v, ok := o.Get()
	if !ok {
		return na
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtIntOpt(o stats.Option[int]) string {
	v, ok := o.Get()
	if !ok {
		return na
	}
	return fmt.Sprintf("%d", v)
}

func fmtInt64Opt(o stats.Option[int64]) string {
	v, ok := o.Get()
	if !ok {
		return na
	}
	return fmt.Sprintf("%d", v)
}
