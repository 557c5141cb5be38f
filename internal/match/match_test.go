package match

import (
	"strings"
	"testing"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
	"github.com/WarriorWiras/Embedded-System/internal/catalog"
	"github.com/WarriorWiras/Embedded-System/internal/devctx"
)

func TestMatchCellReadScenario1(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,JEDEC,50MHZ_READ_SPEED\nX,BF2641,5.0\n"))
	ctx := devctx.New("BF2641", 10e6, 2097152)
	csv := "BF2641,read,4096,0x0,800,5\nBF2641,read,4096,0x0,820,5\nBF2641,read,4096,0x0,810,5\n"
	agg := aggregate.Aggregate(strings.NewReader(csv), ctx.CapacityBytes)
	b := agg.Bucket(aggregate.Read, aggregate.Size4K)

	predict := Predictor(aggregate.Read, aggregate.Size4K, ctx)
	cell := MatchCell(rows, predict, ObservedMean(aggregate.Read, b))

	v, ok := cell.DBMean.Get()
	if !ok {
		t.Fatalf("expected db_mean present")
	}
	if v < 0.999 || v > 1.001 {
		t.Fatalf("db_mean = %v, want ~1.000", v)
	}
	if len(cell.Candidates) != 1 || cell.Candidates[0] != "BF2641" {
		t.Fatalf("candidates = %v, want [BF2641]", cell.Candidates)
	}
}

func TestMatchCellProgramPages(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,JEDEC,TYP_PAGE_PROGRAM\nX,AAAAAA,0.7\n"))
	ctx := devctx.New("", 0, 1048576)
	csv := "X,program,4096,0x0,12000,0\n"
	agg := aggregate.Aggregate(strings.NewReader(csv), ctx.CapacityBytes)
	b := agg.Bucket(aggregate.Program, aggregate.Size4K)

	predict := Predictor(aggregate.Program, aggregate.Size4K, ctx)
	cell := MatchCell(rows, predict, ObservedMean(aggregate.Program, b))

	v, ok := cell.DBMean.Get()
	if !ok || v != 11.2 {
		t.Fatalf("db_mean = %v,%v want 11.2,true (0.7ms * 16 pages)", v, ok)
	}
	mean, _ := b.ElapsedMs.Mean.Get()
	if mean != 12.0 {
		t.Fatalf("observed mean = %v want 12.0", mean)
	}
}

func TestMatchCellEraseBySize(t *testing.T) {
	rows := catalog.Load(strings.NewReader(
		"CHIP_MODEL,JEDEC,TYP_4KB,TYP_32KB,TYP_64KB\nX,EFEF00,45,240,400\n"))
	ctx := devctx.New("", 0, 0)
	csv := "X,erase,4096,0x0,46000,0\nX,erase,32768,0x0,238000,0\nX,erase,65536,0x0,402000,0\n"
	agg := aggregate.Aggregate(strings.NewReader(csv), 0)

	cases := []struct {
		g    aggregate.SizeGroup
		want float64
	}{
		{aggregate.Size4K, 45},
		{aggregate.Size32K, 240},
		{aggregate.Size64K, 400},
	}
	for _, c := range cases {
		b := agg.Bucket(aggregate.Erase, c.g)
		predict := Predictor(aggregate.Erase, c.g, ctx)
		cell := MatchCell(rows, predict, ObservedMean(aggregate.Erase, b))
		v, ok := cell.DBMean.Get()
		if !ok || v != c.want {
			t.Fatalf("group %v db_mean = %v,%v want %v,true", c.g, v, ok, c.want)
		}
	}
}

func TestIntersectAmbiguityScenario4(t *testing.T) {
	rows := catalog.Load(strings.NewReader(
		"CHIP_MODEL,JEDEC,TYP_4KB,TYP_32KB,TYP_64KB\n" +
			"A,111111,45,240,400\n" +
			"B,222222,45,240,500\n"))
	ctx := devctx.New("", 0, 0)
	csv := "X,erase,4096,0x0,46000,0\nX,erase,32768,0x0,238000,0\nX,erase,65536,0x0,402000,0\n"
	agg := aggregate.Aggregate(strings.NewReader(csv), 0)

	var cells []Cell
	for _, g := range aggregate.AllSizeGroups {
		b := agg.Bucket(aggregate.Erase, g)
		predict := Predictor(aggregate.Erase, g, ctx)
		cells = append(cells, MatchCell(rows, predict, ObservedMean(aggregate.Erase, b)))
	}
	// 4K and 32K should be ambiguous (both rows tie), 64K should resolve to A.
	idx4k := int(aggregate.Size4K)
	idx32k := int(aggregate.Size32K)
	idx64k := int(aggregate.Size64K)
	if len(cells[idx4k].Candidates) != 2 {
		t.Fatalf("4K candidates = %v, want 2 (ambiguous)", cells[idx4k].Candidates)
	}
	if len(cells[idx32k].Candidates) != 2 {
		t.Fatalf("32K candidates = %v, want 2 (ambiguous)", cells[idx32k].Candidates)
	}
	if len(cells[idx64k].Candidates) != 1 || cells[idx64k].Candidates[0] != "111111" {
		t.Fatalf("64K candidates = %v, want [111111]", cells[idx64k].Candidates)
	}

	intersection := Intersect(cells)
	if len(intersection) != 1 || intersection[0] != "111111" {
		t.Fatalf("intersection = %v, want [111111]", intersection)
	}
}

func TestPickFinalGuessNoSamplesKnownJedec(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,COMPANY,JEDEC\nMX25L,Macronix,C21F17\n"))
	ctx := devctx.New("C21F17", 0, 0)
	agg := aggregate.Aggregate(strings.NewReader(""), 0)
	fg := PickFinalGuess(rows, agg, ctx)
	if fg.Jedec != "C21F17" || fg.Model != "MX25L" || fg.Company != "Macronix" {
		t.Fatalf("final guess = %+v, want C21F17/MX25L/Macronix", fg)
	}
	v, ok := fg.Score.Get()
	if !ok || v != 0 {
		t.Fatalf("score = %v,%v want 0,true", v, ok)
	}
}

func TestPickFinalGuessUndecided(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,COMPANY,JEDEC\nX,Y,AAAAAA\n"))
	ctx := devctx.New("", 0, 0)
	agg := aggregate.Aggregate(strings.NewReader(""), 0)
	fg := PickFinalGuess(rows, agg, ctx)
	if fg.Jedec != "undecided" || fg.Model != "undecided" || fg.Company != "undecided" {
		t.Fatalf("final guess = %+v, want all undecided", fg)
	}
	if fg.Score.Valid() {
		t.Fatalf("score should be absent, got %+v", fg.Score)
	}
}

func TestPickFinalGuessKnownJedecNoCatalogueMatchScoresZero(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,COMPANY,JEDEC\nX,Y,AAAAAA\n"))
	ctx := devctx.New("C21F17", 0, 0)
	agg := aggregate.Aggregate(strings.NewReader(""), 0)
	fg := PickFinalGuess(rows, agg, ctx)
	if fg.Jedec != "C21F17" || fg.Model != "undecided" || fg.Company != "undecided" {
		t.Fatalf("final guess = %+v, want jedec=C21F17 model/company=undecided", fg)
	}
	v, ok := fg.Score.Get()
	if !ok || v != 0 {
		t.Fatalf("score = %v,%v want 0,true", v, ok)
	}
}

func TestPickFinalGuessBiasScenario1(t *testing.T) {
	rows := catalog.Load(strings.NewReader("CHIP_MODEL,JEDEC,50MHZ_READ_SPEED\nX,BF2641,5.0\n"))
	ctx := devctx.New("BF2641", 10e6, 2097152)
	csv := "BF2641,read,4096,0x0,800,5\nBF2641,read,4096,0x0,820,5\nBF2641,read,4096,0x0,810,5\n"
	agg := aggregate.Aggregate(strings.NewReader(csv), ctx.CapacityBytes)
	fg := PickFinalGuess(rows, agg, ctx)
	if fg.Jedec != "BF2641" {
		t.Fatalf("jedec = %v want BF2641", fg.Jedec)
	}
	v, ok := fg.Score.Get()
	if !ok {
		t.Fatalf("expected a score")
	}
	if v < 0 || v >= 3.0 {
		t.Fatalf("score = %v, want in [0,3) due to 0.25 bias", v)
	}
}
