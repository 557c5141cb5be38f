package match

import (
	"math"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
	"github.com/WarriorWiras/Embedded-System/internal/catalog"
	"github.com/WarriorWiras/Embedded-System/internal/devctx"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

const scoreCap = 3.0
const jedecBias = 0.25

// scorable is one (operation, size group) bucket reduced to exactly what
// the final scorer needs: whether it has samples, its observed mean, and
// the prediction function for that cell.
type scorable struct {
	hasSamples   bool
	observedMean float64
	predict      func(catalog.Row) stats.Option[float64]
}

func buildScorables(agg aggregate.Aggregates, ctx devctx.Context) []scorable {
	ops := []aggregate.Operation{aggregate.Read, aggregate.Program, aggregate.Erase}
	out := make([]scorable, 0, len(ops)*len(aggregate.AllSizeGroups))
	for _, op := range ops {
		for _, g := range aggregate.AllSizeGroups {
			b := agg.Bucket(op, g)
			sc := scorable{predict: Predictor(op, g, ctx)}
			if b.N() > 0 {
				if mean, ok := ObservedMean(op, b).Get(); ok {
					sc.hasSamples = true
					sc.observedMean = mean
				}
			}
			out = append(out, sc)
		}
	}
	return out
}

// score computes spec.md §4.F's capped normalised-error sum for one
// catalogue row. ok is false if no bucket contributed (row ineligible).
func score(row catalog.Row, scorables []scorable) (float64, bool) {
	total := 0.0
	contributed := false
	for _, sb := range scorables {
		if !sb.hasSamples {
			continue
		}
		predVal, ok := sb.predict(row).Get()
		if !ok {
			continue
		}
		if predVal == 0 {
			continue
		}
		err := math.Abs(sb.observedMean-predVal) / predVal
		total += math.Min(err, scoreCap)
		contributed = true
	}
	return total, contributed
}

// FinalGuess is the defended chip identification spec.md §4.F produces.
type FinalGuess struct {
	Jedec   string
	Model   string
	Company string
	Score   stats.Option[float64]
}

// PickFinalGuess scores every catalogue row against every observed
// bucket, applies the JEDEC-match bias, and picks the best row, with the
// degenerate-input fallbacks spec.md §4.F specifies.
func PickFinalGuess(rows []catalog.Row, agg aggregate.Aggregates, ctx devctx.Context) FinalGuess {
	scorables := buildScorables(agg, ctx)

	anySamples := false
	for _, sb := range scorables {
		if sb.hasSamples {
			anySamples = true
			break
		}
	}

	bestIdx := -1
	bestScore := math.Inf(1)
	for i, row := range rows {
		s, ok := score(row, scorables)
		if !ok {
			continue
		}
		if ctx.HasJedec() && row.JedecNorm == ctx.JedecObserved {
			s *= jedecBias
		}
		if s < bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		row := rows[bestIdx]
		return FinalGuess{Jedec: row.JedecNorm, Model: row.ChipModel, Company: row.Company, Score: stats.Some(bestScore)}
	}

	// No row was scoreable: fall back to a JEDEC match if the observed
	// device JEDEC is known.
	if ctx.HasJedec() {
		for _, row := range rows {
			if row.JedecNorm != ctx.JedecObserved {
				continue
			}
			if !anySamples {
				return FinalGuess{Jedec: row.JedecNorm, Model: row.ChipModel, Company: row.Company, Score: stats.Some(0.0)}
			}
			return FinalGuess{Jedec: row.JedecNorm, Model: row.ChipModel, Company: row.Company, Score: stats.None[float64]()}
		}
		if !anySamples {
			// Known JEDEC, no samples, no catalogue row matches it: the
			// original report.c's !any_meas branch sets fscore=0.000
			// unconditionally, whether or not match_row is non-null.
			return FinalGuess{Jedec: ctx.JedecObserved, Model: "undecided", Company: "undecided", Score: stats.Some(0.0)}
		}
	}

	return FinalGuess{Jedec: "undecided", Model: "undecided", Company: "undecided", Score: stats.None[float64]()}
}
