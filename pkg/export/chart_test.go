package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rankdeck/rankdeck/pkg/model"
	"github.com/rankdeck/rankdeck/pkg/trend"
)

func sampleSeries(n int) trend.Series {
	var pts []model.TrendPoint
	base := 6000.0
	for i := 0; i < n; i++ {
		pts = append(pts, model.TrendPoint{
			Date:      "2026-08-" + twoDigit(i+1),
			HeatValue: base + float64(i)*1500,
			HeatText:  "x",
		})
	}
	return trend.Build(pts)
}

func twoDigit(d int) string {
	if d < 10 {
		return "0" + string(rune('0'+d))
	}
	return string(rune('0'+d/10)) + string(rune('0'+d%10))
}

func encodePNG(t *testing.T, opts ChartOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, RenderTrendImage(opts)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestRenderTrendImageDeterministic(t *testing.T) {
	opts := ChartOptions{Title: "测试书", Series: sampleSeries(14)}
	first := encodePNG(t, opts)
	second := encodePNG(t, opts)
	if !bytes.Equal(first, second) {
		t.Error("re-rendering the same series produced different pixels")
	}
}

func TestRenderTrendImageDimensions(t *testing.T) {
	opts := ChartOptions{Series: sampleSeries(5), Width: 400, Height: 200}
	img := RenderTrendImage(opts)
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("bounds = %v, want 400x200", b)
	}
}

func TestRenderSinglePoint(t *testing.T) {
	opts := ChartOptions{Series: sampleSeries(1)}
	// Must not panic and must still produce a full-size surface.
	img := RenderTrendImage(opts)
	if img.Bounds().Dx() != defaultChartW {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestSaveTrendChartFormats(t *testing.T) {
	dir := t.TempDir()
	s := sampleSeries(10)

	pngPath := filepath.Join(dir, "trend.png")
	if err := SaveTrendChart(ChartOptions{Path: pngPath, Series: s}); err != nil {
		t.Fatalf("png: %v", err)
	}
	if fi, err := os.Stat(pngPath); err != nil || fi.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}

	svgPath := filepath.Join(dir, "trend.svg")
	if err := SaveTrendChart(ChartOptions{Path: svgPath, Series: s, Title: "t"}); err != nil {
		t.Fatalf("svg: %v", err)
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "path") {
		t.Error("svg output missing expected elements")
	}
}

func TestSaveTrendChartRejectsEmpty(t *testing.T) {
	err := SaveTrendChart(ChartOptions{Path: filepath.Join(t.TempDir(), "x.png")})
	if err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestSaveTrendChartInfersFormat(t *testing.T) {
	err := SaveTrendChart(ChartOptions{Path: filepath.Join(t.TempDir(), "x.webp"), Format: "webp", Series: sampleSeries(3)})
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported-format error, got %v", err)
	}
}

func TestDateLabelSubsampling(t *testing.T) {
	l := buildChartLayout(ChartOptions{Series: sampleSeries(30)})
	if len(l.DateIdx) < 6 || len(l.DateIdx) > 10 {
		t.Errorf("expected ~8 date labels, got %d", len(l.DateIdx))
	}
	if l.DateIdx[len(l.DateIdx)-1] != 29 {
		t.Errorf("final date label must be forced in, got %v", l.DateIdx)
	}
}

func TestChartScaleUsesPositiveMinimum(t *testing.T) {
	s := trend.Build([]model.TrendPoint{
		{Date: "2026-08-01", HeatValue: 0},
		{Date: "2026-08-02", HeatValue: 10000},
		{Date: "2026-08-03", HeatValue: 20000},
	})
	l := buildChartLayout(ChartOptions{Series: s})
	if l.Lo != 9000 {
		t.Errorf("lower bound = %v, want 9000 (min positive × 0.9)", l.Lo)
	}
	if l.Hi != 22000 {
		t.Errorf("upper bound = %v, want 22000 (max × 1.1)", l.Hi)
	}
	if len(l.GridValues) != 5 {
		t.Errorf("grid line count = %d, want 5", len(l.GridValues))
	}
}
