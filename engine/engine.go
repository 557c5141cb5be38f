// Package engine wires the five spec.md §4 stages into the single
// orchestration entry point §9 calls for: load the catalogue, aggregate
// the results stream, match and score every cell, and write the report.
// Grounded on src/monitor's top-level "run one pass, write one output"
// shape, generalised from a network probe loop to a one-shot call.
package engine

import (
	"io"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
	"github.com/WarriorWiras/Embedded-System/internal/catalog"
	"github.com/WarriorWiras/Embedded-System/internal/devctx"
	"github.com/WarriorWiras/Embedded-System/internal/logx"
	"github.com/WarriorWiras/Embedded-System/internal/match"
	"github.com/WarriorWiras/Embedded-System/internal/report"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// GenerateReport implements spec.md §9's generate_report(results,
// catalogue, context, output): it never returns an error for malformed
// input data (aggregate and catalog both degrade gracefully per spec.md
// §7), only for a failing output writer.
func GenerateReport(results io.Reader, catalogue io.Reader, ctx devctx.Context, out io.Writer) error {
	rows := catalog.Load(catalogue)
	agg := aggregate.Aggregate(results, ctx.CapacityBytes)

	logx.Debugf("engine: loaded %d catalogue rows, device jedec=%q sck_mhz=%.3f capacity_bytes=%d",
		len(rows), ctx.JedecObserved, ctx.SckMHz, ctx.CapacityBytes)

	in := report.Input{}
	buildIdentity(&in, rows, ctx)

	ops := []aggregate.Operation{aggregate.Read, aggregate.Program, aggregate.Erase}
	cellsByOp := map[aggregate.Operation][]match.Cell{}
	for _, op := range ops {
		cellsByOp[op] = make([]match.Cell, len(aggregate.AllSizeGroups))
	}

	for i, g := range aggregate.AllSizeGroups {
		in.Groups[i] = report.GroupStats{
			Read:  agg.Bucket(aggregate.Read, g).LatencyMs,
			Write: agg.Bucket(aggregate.Program, g).ElapsedMs,
			Erase: agg.Bucket(aggregate.Erase, g).ElapsedMs,
		}

		var t report.Triple[stats.Option[float64]]
		var p report.Triple[[]string]
		for _, op := range ops {
			b := agg.Bucket(op, g)
			predict := match.Predictor(op, g, ctx)
			cell := match.MatchCell(rows, predict, match.ObservedMean(op, b))
			cellsByOp[op][i] = cell
			switch op {
			case aggregate.Read:
				t.Read, p.Read = cell.DBMean, cell.Candidates
			case aggregate.Program:
				t.Write, p.Write = cell.DBMean, cell.Candidates
			case aggregate.Erase:
				t.Erase, p.Erase = cell.DBMean, cell.Candidates
			}
		}
		in.DBMean[i] = t
		in.PossibleChips[i] = p
	}

	in.ConclusionPossibleChips = report.Triple[[]string]{
		Read:  match.Intersect(cellsByOp[aggregate.Read]),
		Write: match.Intersect(cellsByOp[aggregate.Program]),
		Erase: match.Intersect(cellsByOp[aggregate.Erase]),
	}

	fg := match.PickFinalGuess(rows, agg, ctx)
	in.FinalGuessJedec = fg.Jedec
	in.FinalGuessModel = fg.Model
	in.FinalGuessCompany = fg.Company
	in.FinalScore = fg.Score

	return report.Write(out, in)
}

// buildIdentity fills the identity block from a direct lookup of the
// observed device JEDEC in the catalogue (not the scored final guess):
// spec.md §4.G's identity rows report what the hardware told us, while
// final_guess reports what the scoring pipeline defends, per spec.md
// §8 scenario 5.
func buildIdentity(in *report.Input, rows []catalog.Row, ctx devctx.Context) {
	in.DetectedJedec = ctx.JedecObserved
	in.SckMHz = optIfKnown(ctx.SckKnown(), ctx.SckMHz)
	in.CapacityBytes = ctx.CapacityOpt()

	if !ctx.HasJedec() {
		return
	}
	for _, row := range rows {
		if row.JedecNorm != ctx.JedecObserved {
			continue
		}
		in.ChipModel = row.ChipModel
		in.ChipFamily = row.Family
		in.Company = row.Company
		in.CapacityMbit = row.CapacityMbit
		if !in.CapacityBytes.Valid() {
			in.CapacityBytes = row.CapacityBytes()
		}
		return
	}
}

func optIfKnown(known bool, v float64) stats.Option[float64] {
	if !known {
		return stats.None[float64]()
	}
	return stats.Some(v)
}
