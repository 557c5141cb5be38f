// Command chipviewer renders a PNG chart of per-size-group average
// latency for one operation, straight to a file instead of a Fyne
// canvas. Chart construction is grounded on cmd/iqmviewer's
// renderPercentilesChart: a chart.Chart with one styled ContinuousSeries
// per line and a caption drawn with basicfont, minus the GUI plumbing
// that has no use for a one-shot CLI.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/spf13/pflag"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/WarriorWiras/Embedded-System/internal/aggregate"
)

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

func main() {
	var (
		resultsPath   string
		outPath       string
		operation     string
		capacityBytes int64
	)
	pflag.StringVar(&resultsPath, "results", "results.csv", "path to the raw benchmark results stream")
	pflag.StringVar(&outPath, "out", "chart.png", "path to write the rendered PNG")
	pflag.StringVar(&operation, "op", "read", "operation to chart: read, write, erase")
	pflag.Int64Var(&capacityBytes, "capacity-bytes", 0, "device capacity in bytes, for WHOLE-group classification")
	pflag.Parse()

	f, err := os.Open(resultsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chipviewer: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	op, ok := parseOperation(operation)
	if !ok {
		fmt.Fprintf(os.Stderr, "chipviewer: unknown operation %q (want read, write, or erase)\n", operation)
		os.Exit(1)
	}

	agg := aggregate.Aggregate(f, capacityBytes)

	var labels []string
	var xs []float64
	var ys []float64
	for i, g := range aggregate.AllSizeGroups {
		b := agg.Bucket(op, g)
		var mean float64
		var ok bool
		if op == aggregate.Read {
			mean, ok = b.LatencyMs.Mean.Get()
		} else {
			mean, ok = b.ElapsedMs.Mean.Get()
		}
		if !ok {
			continue
		}
		labels = append(labels, g.String())
		xs = append(xs, float64(i))
		ys = append(ys, mean)
	}

	img := renderChart(operation, labels, xs, ys)
	img = drawCaption(img, fmt.Sprintf("%s latency by size group, from %s", operation, resultsPath))

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chipviewer: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "chipviewer: %v\n", err)
		os.Exit(1)
	}
}

func parseOperation(s string) (aggregate.Operation, bool) {
	switch s {
	case "read":
		return aggregate.Read, true
	case "write", "program":
		return aggregate.Program, true
	case "erase":
		return aggregate.Erase, true
	default:
		return 0, false
	}
}

func renderChart(operation string, labels []string, xs, ys []float64) image.Image {
	if len(xs) == 0 {
		return blank(800, 320)
	}
	st := pointStyle(chart.ColorBlue)
	series := chart.ContinuousSeries{Name: operation, XValues: xs, YValues: ys, Style: st}

	ch := chart.Chart{
		Width:      800,
		Height:     320,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 40}},
		YAxis:      chart.YAxis{Name: "ms"},
		XAxis:      chart.XAxis{Name: "size group"},
		Series:     []chart.Series{series},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf imageBuffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return blank(800, 320)
	}
	img, _, err := image.Decode(&buf)
	if err != nil {
		return blank(800, 320)
	}
	return img
}

// imageBuffer is the minimal io.Writer/io.Reader go-chart's PNG renderer
// and image.Decode both need, without pulling in bytes.Buffer's wider
// API just to round-trip one chart.
type imageBuffer struct {
	data []byte
	pos  int
}

func (b *imageBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *imageBuffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, fmt.Errorf("chipviewer: end of chart buffer")
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

func blank(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// drawCaption draws a small hint string onto the bottom-left of img,
// adapted from cmd/iqmviewer's drawHint.
func drawCaption(img image.Image, text string) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6

	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)

	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
