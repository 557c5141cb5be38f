// Package match implements spec.md §4.D (datasheet matcher), §4.E
// (candidate intersector), and §4.F (final scorer). All three share the
// same per-row "prediction" abstraction: a function from a catalogue row
// to an optional predicted value for a given (operation, size group)
// cell, per spec.md §9's explicit min_by_key design note.
package match

import (
	"math"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
	"github.com/WarriorWiras/Embedded-System/internal/catalog"
	"github.com/WarriorWiras/Embedded-System/internal/devctx"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

const pageSizeBytes = 256

var fixedGroupBytes = map[aggregate.SizeGroup]int64{
	aggregate.Size1B:   1,
	aggregate.Size256B: 256,
	aggregate.Size4K:   4096,
	aggregate.Size32K:  32768,
	aggregate.Size64K:  65536,
}

// Predictor returns the per-row prediction function for one (operation,
// size group) cell, per spec.md §4.D.
func Predictor(op aggregate.Operation, group aggregate.SizeGroup, ctx devctx.Context) func(catalog.Row) stats.Option[float64] {
	switch op {
	case aggregate.Read:
		return readPredictor(ctx.SckMHz)
	case aggregate.Program:
		return programPredictor(group, ctx.CapacityBytes)
	case aggregate.Erase:
		return erasePredictor(group)
	default:
		return func(catalog.Row) stats.Option[float64] { return stats.None[float64]() }
	}
}

// readPredictor: predicted = row.read50_MBps * (sck_MHz/50). Requires
// sck_MHz > 0 and read50_MBps present.
func readPredictor(sckMHz float64) func(catalog.Row) stats.Option[float64] {
	return func(row catalog.Row) stats.Option[float64] {
		if sckMHz <= 0 {
			return stats.None[float64]()
		}
		v, ok := row.Read50MBps.Get()
		if !ok {
			return stats.None[float64]()
		}
		return stats.Some(v * (sckMHz / 50))
	}
}

// programPredictor: predicted = row.typ_page_ms * pages, pages =
// ceil(bytes/256). For WHOLE, bytes = capacityBytes; skipped if 0.
func programPredictor(group aggregate.SizeGroup, capacityBytes int64) func(catalog.Row) stats.Option[float64] {
	bytes, ok := programBytesForGroup(group, capacityBytes)
	if !ok {
		return func(catalog.Row) stats.Option[float64] { return stats.None[float64]() }
	}
	pages := math.Ceil(float64(bytes) / float64(pageSizeBytes))
	return func(row catalog.Row) stats.Option[float64] {
		v, ok := row.TypPageMs.Get()
		if !ok {
			return stats.None[float64]()
		}
		return stats.Some(v * pages)
	}
}

func programBytesForGroup(group aggregate.SizeGroup, capacityBytes int64) (int64, bool) {
	if group == aggregate.SizeWhole {
		if capacityBytes <= 0 {
			return 0, false
		}
		return capacityBytes, true
	}
	b, ok := fixedGroupBytes[group]
	return b, ok
}

// erasePredictor: reference is typ_4k_ms/typ_32k_ms/typ_64k_ms depending
// on group; other groups have no datasheet reference.
func erasePredictor(group aggregate.SizeGroup) func(catalog.Row) stats.Option[float64] {
	switch group {
	case aggregate.Size4K:
		return func(row catalog.Row) stats.Option[float64] { return row.Typ4kMs }
	case aggregate.Size32K:
		return func(row catalog.Row) stats.Option[float64] { return row.Typ32kMs }
	case aggregate.Size64K:
		return func(row catalog.Row) stats.Option[float64] { return row.Typ64kMs }
	default:
		return func(catalog.Row) stats.Option[float64] { return stats.None[float64]() }
	}
}

// ObservedMean returns the bucket value that predictions are compared
// against for a given operation: read compares against mean MB/s,
// program/erase compare against mean elapsed milliseconds (spec.md §4.D).
func ObservedMean(op aggregate.Operation, b aggregate.Bucket) stats.Option[float64] {
	if op == aggregate.Read {
		return b.MBps.Mean
	}
	return b.ElapsedMs.Mean
}
