// Package export renders trend charts to raster/vector files and dumps
// result-set snapshots to external sinks.
package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/rankdeck/rankdeck/pkg/heat"
	"github.com/rankdeck/rankdeck/pkg/trend"
)

// ChartOptions controls trend chart export behaviour.
type ChartOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string // Chart title (usually the book title)
	Width  int    // Logical pixel width; default 880
	Height int    // Logical pixel height; default 360
	Series trend.Series
}

const (
	defaultChartW = 880
	defaultChartH = 360

	padLeft   = 64.0
	padRight  = 20.0
	padTop    = 36.0
	padBottom = 40.0

	gridLines  = 5
	dateLabels = 8
)

var (
	chartBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	chartGrid     = color.RGBA{0xe3, 0xe6, 0xeb, 0xff}
	chartLine     = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	chartFill     = color.RGBA{0x6b, 0x80, 0xbf, 0x33}
	chartMarker   = color.RGBA{0x44, 0x5a, 0xa5, 0xff}
	chartText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	chartSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// SaveTrendChart renders a heat trend chart (PNG or SVG) for one title.
func SaveTrendChart(opts ChartOptions) error {
	if opts.Series.Empty() {
		return fmt.Errorf("no trend points to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "png" // safe default
			if filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".png"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderTrendSVG(f, opts)
	default:
		dc := renderTrendContext(opts)
		return dc.SavePNG(opts.Path)
	}
}

// RenderTrendImage rasterizes the chart and returns the image. Identical
// options produce a pixel-identical image: all geometry derives from the
// logical width/height, independent of any backing-store scale.
func RenderTrendImage(opts ChartOptions) image.Image {
	return renderTrendContext(opts).Image()
}

// --- layout ----------------------------------------------------------------

type chartLayout struct {
	W, H       float64
	PlotX      float64 // left edge of plot area
	PlotY      float64 // top edge of plot area
	PlotW      float64
	PlotH      float64
	Lo, Hi     float64 // vertical value range
	Xs, Ys     []float64
	DateIdx    []int // indices of points that get a date label
	GridValues []float64
}

func buildChartLayout(opts ChartOptions) chartLayout {
	w := opts.Width
	h := opts.Height
	if w <= 0 {
		w = defaultChartW
	}
	if h <= 0 {
		h = defaultChartH
	}

	l := chartLayout{
		W:     float64(w),
		H:     float64(h),
		PlotX: padLeft,
		PlotY: padTop,
		PlotW: float64(w) - padLeft - padRight,
		PlotH: float64(h) - padTop - padBottom,
	}

	s := opts.Series
	lo := s.MinPositive * 0.9
	hi := s.Max * 1.1
	if hi <= lo {
		// Flat or all-zero series still needs a non-degenerate scale.
		hi = lo + 1
	}
	l.Lo, l.Hi = lo, hi

	n := len(s.Points)
	l.Xs = make([]float64, n)
	l.Ys = make([]float64, n)
	for i, p := range s.Points {
		if n == 1 {
			l.Xs[i] = l.PlotX + l.PlotW/2
		} else {
			l.Xs[i] = l.PlotX + l.PlotW*float64(i)/float64(n-1)
		}
		frac := (p.HeatValue - lo) / (hi - lo)
		if frac < 0 {
			frac = 0
		}
		l.Ys[i] = l.PlotY + l.PlotH*(1-frac)
	}

	for g := 0; g <= gridLines-1; g++ {
		l.GridValues = append(l.GridValues, lo+(hi-lo)*float64(g)/float64(gridLines-1))
	}

	// Subsample ~8 date labels; the final date is always forced in even
	// when it falls off the stride.
	stride := 1
	if n > dateLabels {
		stride = int(math.Ceil(float64(n) / dateLabels))
	}
	for i := 0; i < n; i += stride {
		l.DateIdx = append(l.DateIdx, i)
	}
	if last := n - 1; len(l.DateIdx) == 0 || l.DateIdx[len(l.DateIdx)-1] != last {
		l.DateIdx = append(l.DateIdx, last)
	}
	return l
}

// gridY maps a grid value onto the surface.
func (l chartLayout) gridY(v float64) float64 {
	return l.PlotY + l.PlotH*(1-(v-l.Lo)/(l.Hi-l.Lo))
}

// --- raster rendering ------------------------------------------------------

func renderTrendContext(opts ChartOptions) *gg.Context {
	l := buildChartLayout(opts)
	s := opts.Series

	dc := gg.NewContext(int(l.W), int(l.H))
	dc.SetColor(chartBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetColor(chartText)
		dc.DrawStringAnchored(opts.Title, l.PlotX, padTop/2, 0, 0.5)
	}

	// Single point: centered marker with its date, no line or grid math.
	if len(s.Points) == 1 {
		p := s.Points[0]
		x, y := l.Xs[0], l.PlotY+l.PlotH/2
		dc.SetColor(chartMarker)
		dc.DrawCircle(x, y, 5)
		dc.Fill()
		dc.SetColor(chartSubtle)
		dc.DrawStringAnchored(fmt.Sprintf("%s  %s", p.Date, heat.Format(p.HeatValue)), x, y+18, 0.5, 0.5)
		return dc
	}

	// Horizontal grid with value labels.
	dc.SetLineWidth(1)
	for _, v := range l.GridValues {
		y := l.gridY(v)
		dc.SetColor(chartGrid)
		dc.DrawLine(l.PlotX, y, l.PlotX+l.PlotW, y)
		dc.Stroke()
		dc.SetColor(chartSubtle)
		dc.DrawStringAnchored(heat.Format(v), l.PlotX-8, y, 1, 0.5)
	}

	// Area fill under the smoothed curve.
	dc.SetColor(chartFill)
	dc.MoveTo(l.Xs[0], l.PlotY+l.PlotH)
	dc.LineTo(l.Xs[0], l.Ys[0])
	curveTo(dc, l.Xs, l.Ys)
	dc.LineTo(l.Xs[len(l.Xs)-1], l.PlotY+l.PlotH)
	dc.ClosePath()
	dc.Fill()

	// Smoothed line.
	dc.SetColor(chartLine)
	dc.SetLineWidth(2)
	dc.MoveTo(l.Xs[0], l.Ys[0])
	curveTo(dc, l.Xs, l.Ys)
	dc.Stroke()

	// Point markers.
	dc.SetColor(chartMarker)
	for i := range l.Xs {
		dc.DrawCircle(l.Xs[i], l.Ys[i], 3)
		dc.Fill()
	}

	// Date labels.
	dc.SetColor(chartSubtle)
	for _, i := range l.DateIdx {
		dc.DrawStringAnchored(shortDate(s.Points[i].Date), l.Xs[i], l.H-padBottom/2, 0.5, 0.5)
	}
	return dc
}

// curveTo appends the smoothed path from point 0 to the last point using
// symmetric control points: each segment's controls sit at the
// horizontal midpoint at the two endpoint heights.
func curveTo(dc *gg.Context, xs, ys []float64) {
	for i := 1; i < len(xs); i++ {
		mx := (xs[i-1] + xs[i]) / 2
		dc.CubicTo(mx, ys[i-1], mx, ys[i], xs[i], ys[i])
	}
}

// --- vector rendering ------------------------------------------------------

func renderTrendSVG(w io.Writer, opts ChartOptions) error {
	l := buildChartLayout(opts)
	s := opts.Series

	canvas := svg.New(w)
	canvas.Start(int(l.W), int(l.H))
	canvas.Rect(0, 0, int(l.W), int(l.H), fmt.Sprintf("fill:%s", cssColor(chartBackdrop)))

	if opts.Title != "" {
		canvas.Text(int(l.PlotX), int(padTop/2)+4, opts.Title,
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", cssColor(chartText)))
	}

	if len(s.Points) == 1 {
		p := s.Points[0]
		x, y := int(l.Xs[0]), int(l.PlotY+l.PlotH/2)
		canvas.Circle(x, y, 5, fmt.Sprintf("fill:%s", cssColor(chartMarker)))
		canvas.Text(x, y+20, fmt.Sprintf("%s  %s", p.Date, heat.Format(p.HeatValue)),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", cssColor(chartSubtle)))
		canvas.End()
		return nil
	}

	for _, v := range l.GridValues {
		y := int(l.gridY(v))
		canvas.Line(int(l.PlotX), y, int(l.PlotX+l.PlotW), y,
			fmt.Sprintf("stroke:%s;stroke-width:1", cssColor(chartGrid)))
		canvas.Text(int(l.PlotX)-8, y+4, heat.Format(v),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", cssColor(chartSubtle)))
	}

	curve := smoothPath(l.Xs, l.Ys)
	area := fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f %s L%.1f,%.1f Z",
		l.Xs[0], l.PlotY+l.PlotH, l.Xs[0], l.Ys[0],
		strings.TrimPrefix(curve, fmt.Sprintf("M%.1f,%.1f ", l.Xs[0], l.Ys[0])),
		l.Xs[len(l.Xs)-1], l.PlotY+l.PlotH)
	canvas.Path(area, fmt.Sprintf("fill:%s;stroke:none", cssRGBA(chartFill)))
	canvas.Path(curve, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", cssColor(chartLine)))

	for i := range l.Xs {
		canvas.Circle(int(l.Xs[i]), int(l.Ys[i]), 3, fmt.Sprintf("fill:%s", cssColor(chartMarker)))
	}
	for _, i := range l.DateIdx {
		canvas.Text(int(l.Xs[i]), int(l.H-padBottom/2)+4, shortDate(s.Points[i].Date),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", cssColor(chartSubtle)))
	}
	canvas.End()
	return nil
}

func smoothPath(xs, ys []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%.1f,%.1f ", xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		mx := (xs[i-1] + xs[i]) / 2
		fmt.Fprintf(&b, "C%.1f,%.1f %.1f,%.1f %.1f,%.1f ", mx, ys[i-1], mx, ys[i], xs[i], ys[i])
	}
	return strings.TrimSpace(b.String())
}

func shortDate(iso string) string {
	// "2026-08-29" -> "08-29"; anything shorter passes through.
	if len(iso) == 10 {
		return iso[5:]
	}
	return iso
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func cssRGBA(c color.RGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, float64(c.A)/255)
}
