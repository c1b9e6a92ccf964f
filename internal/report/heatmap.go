package report

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/pable/go-nba-efg/internal/aggregator"
)

// Heatmap colour scale limits.
const (
	HeatmapMin = 0.25
	HeatmapMax = 0.70
)

const (
	cellW      = 72
	cellH      = 46
	marginL    = 120
	marginT    = 60
	barW       = 18
	barGap     = 40
	barSteps   = 45
	axisHeight = 80
)

type rgb struct{ r, g, b float64 }

// Diverging palette: blue for cold, near-white for the middle, red for hot.
var (
	coldColor = rgb{59, 111, 182}
	midColor  = rgb{242, 242, 242}
	hotColor  = rgb{192, 57, 43}
)

func lerp(a, b rgb, t float64) rgb {
	return rgb{a.r + (b.r-a.r)*t, a.g + (b.g-a.g)*t, a.b + (b.b-a.b)*t}
}

// HeatColor maps an eFG value onto the diverging palette, clamped to
// [HeatmapMin, HeatmapMax].
func HeatColor(v float64) string {
	t := (v - HeatmapMin) / (HeatmapMax - HeatmapMin)
	t = math.Max(0, math.Min(1, t))
	var c rgb
	if t < 0.5 {
		c = lerp(coldColor, midColor, t*2)
	} else {
		c = lerp(midColor, hotColor, (t-0.5)*2)
	}
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c.r)), int(math.Round(c.g)), int(math.Round(c.b)))
}

// errWriter keeps the first write error; svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// quarters labels the minute columns by quarter; each spans 3 columns.
var quarters = []string{"1Q", "2Q", "3Q", "4Q or OT"}

// WriteHeatmapSVG renders the eFG pivot as an SVG heatmap annotated with
// FGM/FGA. Cells without attempts are left blank with an outline so they
// cannot be mistaken for a cold cell. The first write error is returned.
func WriteHeatmapSVG(w io.Writer, p aggregator.Pivot, title string) error {
	gridW := cellW * len(p.Cols)
	gridH := cellH * len(p.Rows)
	width := marginL + gridW + barGap + barW + 60
	height := marginT + gridH + axisHeight

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Gstyle("font-family:sans-serif")

	canvas.Text(marginL+gridW/2, marginT/2, title, "text-anchor:middle;font-size:15px;font-weight:bold")

	for r, rowLabel := range p.Rows {
		y := marginT + r*cellH
		canvas.Text(marginL-10, y+cellH/2+4, rowLabel, "text-anchor:end;font-size:12px")
		for c := range p.Cols {
			x := marginL + c*cellW
			v := p.EFG[r][c]
			if v == nil {
				canvas.Rect(x, y, cellW, cellH, "fill:white;stroke:#333;stroke-width:0.5")
				continue
			}
			canvas.Rect(x, y, cellW, cellH, "fill:"+HeatColor(*v)+";stroke:white;stroke-width:0.5")
			canvas.Text(x+cellW/2, y+cellH/2+4, p.Fraction[r][c], "text-anchor:middle;font-size:11px")
		}
	}
	canvas.Rect(marginL, marginT, gridW, gridH, "fill:none;stroke:#333;stroke-width:1")

	axisY := marginT + gridH
	for c, colLabel := range p.Cols {
		canvas.Text(marginL+c*cellW+cellW/2, axisY+16, colLabel, "text-anchor:middle;font-size:11px")
	}
	qw := gridW / len(quarters)
	for i, q := range quarters {
		canvas.Text(marginL+i*qw+qw/2, axisY+38, q, "text-anchor:middle;font-size:12px")
	}
	canvas.Text(marginL+gridW/2, axisY+62, "Minutes Remaining", "text-anchor:middle;font-size:13px")
	canvas.TranslateRotate(24, marginT+gridH/2, -90)
	canvas.Text(0, 0, "Absolute Score Difference", "text-anchor:middle;font-size:13px")
	canvas.Gend()

	barX := marginL + gridW + barGap
	stepH := float64(gridH) / barSteps
	for i := 0; i < barSteps; i++ {
		v := HeatmapMax - (HeatmapMax-HeatmapMin)*float64(i)/float64(barSteps-1)
		y := marginT + int(math.Round(float64(i)*stepH))
		h := int(math.Ceil(stepH))
		canvas.Rect(barX, y, barW, h, "fill:"+HeatColor(v))
	}
	for _, tick := range []float64{0.25, 0.35, 0.45, 0.55, 0.65, 0.70} {
		frac := (HeatmapMax - tick) / (HeatmapMax - HeatmapMin)
		y := marginT + int(math.Round(frac*float64(gridH)))
		canvas.Line(barX+barW, y, barX+barW+4, y, "stroke:#333")
		canvas.Text(barX+barW+7, y+4, fmt.Sprintf("%.0f%%", tick*100), "font-size:10px")
	}

	canvas.Gend()
	canvas.End()
	return ew.err
}
