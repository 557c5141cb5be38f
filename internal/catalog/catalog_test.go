package catalog

import (
	"strings"
	"testing"
)

func TestLoadCommaSeparated(t *testing.T) {
	csv := "CHIP_MODEL,COMPANY,CHIP_FAMILY,JEDEC,CAPACITY_MBIT,TYP_PAGE_PROGRAM,TYP_4KB,TYP_32KB,TYP_64KB,50MHZ_READ_SPEED\n" +
		"W25Q16,Winbond,W25Q,EF4015,16,0.7,45,240,400,5.0\n"
	rows := Load(strings.NewReader(csv))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.JedecNorm != "EF4015" {
		t.Fatalf("jedec = %q, want EF4015", r.JedecNorm)
	}
	if r.ChipModel != "W25Q16" || r.Company != "Winbond" {
		t.Fatalf("unexpected identity fields: %+v", r)
	}
	if v, ok := r.CapacityMbit.Get(); !ok || v != 16 {
		t.Fatalf("capacity_mbit = %v,%v want 16,true", v, ok)
	}
	if v, ok := r.Read50MBps.Get(); !ok || v != 5.0 {
		t.Fatalf("read50 = %v,%v want 5.0,true", v, ok)
	}
	bytesOpt := r.CapacityBytes()
	if v, ok := bytesOpt.Get(); !ok || v != 2097152 {
		t.Fatalf("capacity bytes = %v,%v want 2097152,true", v, ok)
	}
}

func TestLoadTabSeparated(t *testing.T) {
	tsv := "CHIP_MODEL\tJEDEC\tTYP_4KB\n" +
		"X\tAAAAAA\t50\n"
	rows := Load(strings.NewReader(tsv))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].JedecNorm != "AAAAAA" {
		t.Fatalf("jedec = %q, want AAAAAA", rows[0].JedecNorm)
	}
}

func TestLoadJedecLess(t *testing.T) {
	csv := "CHIP_MODEL,JEDEC\nfoo,ABCD\nbar,ABCDEFG\n"
	rows := Load(strings.NewReader(csv))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.HasJedec() {
			t.Fatalf("row %+v should be JEDEC-less (wrong digit count)", r)
		}
	}
}

func TestLoadSkipsShortRows(t *testing.T) {
	csv := "CHIP_MODEL,JEDEC\nlonely\nfoo,ABABAB\n"
	rows := Load(strings.NewReader(csv))
	if len(rows) != 1 {
		t.Fatalf("expected short row to be skipped, got %d rows", len(rows))
	}
}

func TestLoadEmptyIsEmptyTable(t *testing.T) {
	rows := Load(strings.NewReader(""))
	if rows != nil {
		t.Fatalf("expected nil/empty table for header-less input, got %+v", rows)
	}
}

func TestLoadNumericParseFailureIsAbsentNotZero(t *testing.T) {
	csv := "CHIP_MODEL,JEDEC,TYP_4KB\nfoo,ABABAB,notanumber\n"
	rows := Load(strings.NewReader(csv))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Typ4kMs.Valid() {
		t.Fatalf("unparseable typ_4k_ms should be absent, not a zero value")
	}
}
