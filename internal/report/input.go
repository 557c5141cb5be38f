package report

import (
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// GroupStats is one size group's three operation-column stats, feeding
// the n_/avg_/p25_/.../stddev_ row family in spec.md §4.G item 4.
type GroupStats struct {
	Read  stats.Stats // drawn from read-latency-ms
	Write stats.Stats // drawn from program-ms
	Erase stats.Stats // drawn from erase-ms
}

// Input is everything the writer needs to emit spec.md §4.G's report; it
// holds only plain formatted-ready data so the writer's only job is
// layout and number formatting, not computation.
type Input struct {
	DetectedJedec string // "" -> NA
	ChipModel     string // "" -> NA
	ChipFamily    string // "" -> NA
	Company       string // "" -> NA
	CapacityMbit  stats.Option[int]
	CapacityBytes stats.Option[int64]
	SckMHz        stats.Option[float64]

	// Indexed in spec.md §4.G's closed group order: 1B,256B,4K,32K,64K,WHOLE.
	Groups        [6]GroupStats
	DBMean        [6]Triple[stats.Option[float64]]
	PossibleChips [6]Triple[[]string]

	ConclusionPossibleChips Triple[[]string]

	FinalGuessJedec   string
	FinalGuessModel   string
	FinalGuessCompany string
	FinalScore        stats.Option[float64]
}
