// Package catalog loads the vendor datasheet catalogue (spec.md §4.B):
// a comma- or tab-separated table, header-driven column mapping, JEDEC
// normalisation, and fields that are absent rather than zero when they
// fail to parse.
package catalog

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/WarriorWiras/Embedded-System/internal/logx"
	"github.com/WarriorWiras/Embedded-System/internal/stats"
)

// Row is one catalogue entry. Numeric fields are Option-typed so that a
// parse failure or an absent column propagates as "absent" rather than a
// sentinel zero (spec.md §3, §4.B).
type Row struct {
	JedecNorm    string // "" means JEDEC-less, per spec.md §3
	ChipModel    string
	Company      string
	Family       string
	CapacityMbit stats.Option[int]
	TypPageMs    stats.Option[float64]
	Typ4kMs      stats.Option[float64]
	Typ32kMs     stats.Option[float64]
	Typ64kMs     stats.Option[float64]
	Read50MBps   stats.Option[float64]
}

// HasJedec reports whether the row carries a usable six-hex-digit JEDEC.
func (r Row) HasJedec() bool { return r.JedecNorm != "" }

// CapacityBytes derives capacity in bytes from CapacityMbit, per spec.md
// §4.B: round(capacity_mbit / 8 * 1024 * 1024).
func (r Row) CapacityBytes() stats.Option[int64] {
	mbit, ok := r.CapacityMbit.Get()
	if !ok {
		return stats.None[int64]()
	}
	bytesF := math.Round(float64(mbit) / 8 * 1024 * 1024)
	return stats.Some(int64(bytesF))
}

type column int

const (
	colNone column = iota
	colModel
	colCompany
	colFamily
	colCapacityMbit
	colJedec
	colTypPage
	colTyp4k
	colTyp32k
	colTyp64k
	colRead50
)

func classifyHeaderToken(upper string) column {
	switch {
	case strings.Contains(upper, "CHIP_MODEL"):
		return colModel
	case strings.Contains(upper, "COMPANY"):
		return colCompany
	case strings.Contains(upper, "CHIP_FAMILY"):
		return colFamily
	case strings.Contains(upper, "CAPACITY") && strings.Contains(upper, "MBIT"):
		return colCapacityMbit
	case strings.Contains(upper, "JEDEC"):
		return colJedec
	case strings.Contains(upper, "TYP_PAGE_PROGRAM"):
		return colTypPage
	case strings.Contains(upper, "TYP_4KB"):
		return colTyp4k
	case strings.Contains(upper, "TYP_32KB"):
		return colTyp32k
	case strings.Contains(upper, "TYP_64KB"):
		return colTyp64k
	case strings.Contains(upper, "50MHZ_READ_SPEED"), strings.Contains(upper, "50MHZ_READ"), strings.Contains(upper, "READ50"):
		return colRead50
	default:
		return colNone
	}
}

// detectDelim follows spec.md §6: the separator is comma or tab,
// auto-detected from the header line's first comma — if the line
// contains a comma at all, treat the table as comma-separated, otherwise
// tab-separated.
func detectDelim(headerLine string) string {
	if strings.Contains(headerLine, ",") {
		return ","
	}
	return "\t"
}

// normalizeJedec upper-cases, strips non-hex characters and a leading
// 0x/0X, and keeps only fully six-digit results; anything else marks the
// row JEDEC-less (spec.md §3).
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

func parseIntField(s string) stats.Option[int] {
	s = strings.TrimSpace(s)
	if s == "" {
		return stats.None[int]()
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return stats.None[int]()
	}
	return stats.Some(int(v))
}

func parseFloatField(s string) stats.Option[float64] {
	s = strings.TrimSpace(s)
	if s == "" {
		return stats.None[float64]()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return stats.None[float64]()
	}
	return stats.Some(v)
}

// Load parses r per spec.md §4.B and returns the in-memory table in
// source order (tie-breaking in §4.D/F depends on this order being
// preserved). An unreadable or header-less catalogue yields an empty,
// non-error table — per spec.md §4.B this failure mode is not fatal.
func Load(r io.Reader) []Row {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var headerLine string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		headerLine = line
		break
	}
	if headerLine == "" {
		logx.Debugf("catalog: no header line found, treating as empty table")
		return nil
	}

	delim := detectDelim(headerLine)
	headerFields := strings.Split(headerLine, delim)
	colOf := make(map[int]column, len(headerFields))
	for i, h := range headerFields {
		colOf[i] = classifyHeaderToken(strings.ToUpper(strings.TrimSpace(h)))
	}

	var rows []Row
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, delim)
		if len(fields) < 2 {
			logx.Debugf("catalog: skipping row with fewer than two fields: %q", line)
			continue
		}
		var row Row
		for i, f := range fields {
			switch colOf[i] {
			case colModel:
				row.ChipModel = strings.TrimSpace(f)
			case colCompany:
				row.Company = strings.TrimSpace(f)
			case colFamily:
				row.Family = strings.TrimSpace(f)
			case colCapacityMbit:
				row.CapacityMbit = parseIntField(f)
			case colJedec:
				row.JedecNorm = normalizeJedec(f)
			case colTypPage:
				row.TypPageMs = parseFloatField(f)
			case colTyp4k:
				row.Typ4kMs = parseFloatField(f)
			case colTyp32k:
				row.Typ32kMs = parseFloatField(f)
			case colTyp64k:
				row.Typ64kMs = parseFloatField(f)
			case colRead50:
				row.Read50MBps = parseFloatField(f)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
