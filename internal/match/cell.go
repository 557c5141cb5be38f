package match

import (
	"math"

	"github.com/WarriorWiras/Embedded-System/internal/catalog"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// Cell is the result of matching one (operation, size group) bucket
// against the catalogue, per spec.md §4.D.
type Cell struct {
	DBMean     stats.Option[float64]
	Candidates []string // JEDEC ids, catalogue order; empty if none; absent cell has nil too
	WinnerRow  int       // index into the catalogue slice; -1 if DBMean absent
}

// MatchCell finds the catalogue row whose prediction is closest to
// observedMean (ties break to the earlier row), then gathers every row
// whose prediction equals the winner's within stats.AlmostEqual
// tolerance and which carries a JEDEC id. If observedMean is absent
// (bucket has no samples) or no row has an eligible prediction, the
// returned Cell is all-absent.
func MatchCell(rows []catalog.Row, predict func(catalog.Row) stats.Option[float64], observedMean stats.Option[float64]) Cell {
	mean, ok := observedMean.Get()
	if !ok {
		return Cell{DBMean: stats.None[float64](), WinnerRow: -1}
	}

	winnerIdx := -1
	winnerVal := 0.0
	bestDiff := math.Inf(1)
	for i, row := range rows {
		pv, ok := predict(row).Get()
		if !ok {
			continue
		}
		diff := math.Abs(pv - mean)
		if diff < bestDiff {
			bestDiff = diff
			winnerIdx = i
			winnerVal = pv
		}
	}
	if winnerIdx < 0 {
		return Cell{DBMean: stats.None[float64](), WinnerRow: -1}
	}

	var candidates []string
	for _, row := range rows {
		if !row.HasJedec() {
			continue
		}
		pv, ok := predict(row).Get()
		if !ok {
			continue
		}
		if stats.AlmostEqual(pv, winnerVal) {
			candidates = append(candidates, row.JedecNorm)
		}
	}

	return Cell{
		DBMean:     stats.Some(winnerVal),
		Candidates: candidates,
		WinnerRow:  winnerIdx,
	}
}
