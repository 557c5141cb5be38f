// Package devctx models the device context spec.md §3 describes: the
// observed JEDEC id, SCK frequency, and device capacity, each of which
// may be unknown. It is a small structured value, not a stream (spec.md
// §6), so its only job is normalisation.
package devctx

import (
	"strings"

	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// Context is the device context passed into one generate-report call.
// Zero/empty fields mean "unknown" per spec.md §3.
type Context struct {
	JedecObserved string // normalised six-hex-digit JEDEC, or "" if unknown
	SckMHz        float64
	CapacityBytes int64
}

// New normalises a raw observed JEDEC string (spec.md §6: "any
// punctuation"), an SCK in Hz, and a capacity in bytes into a Context.
// sckHz == 0 disables read matching; capacityBytes == 0 disables WHOLE
// classification, matching spec.md §3's invariants.
func New(rawJedec string, sckHz float64, capacityBytes int64) Context {
	return Context{
		JedecObserved: normalizeJedec(rawJedec),
		SckMHz:        sckHz / 1e6,
		CapacityBytes: capacityBytes,
	}
}

// HasJedec reports whether the observed JEDEC is known.
func (c Context) HasJedec() bool { return c.JedecObserved != "" }

// SckKnown reports whether the SCK frequency is known (non-zero).
func (c Context) SckKnown() bool { return c.SckMHz > 0 }

// CapacityKnown reports whether device capacity is known (non-zero).
func (c Context) CapacityKnown() bool { return c.CapacityBytes > 0 }

// CapacityOpt returns the capacity as an Option, absent when unknown.
func (c Context) CapacityOpt() stats.Option[int64] {
	if !c.CapacityKnown() {
		return stats.None[int64]()
	}
	return stats.Some(c.CapacityBytes)
}

func normalizeJedec(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "0X")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') {
			b.WriteRune(r)
		}
	}
	hex := b.String()
	if len(hex) != 6 {
		return ""
	}
	return hex
}
