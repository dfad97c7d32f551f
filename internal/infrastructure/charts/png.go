package charts

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

var (
	green  = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	orange = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	sky    = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	tiers  = []struct {
		label string
		color color.Color
	}{
		{"Excellent (>=90%)", green},
		{"Good (>=75%)", orange},
		{"Problematic", red},
	}
)

// PNGRenderer рисует три PNG-графика отчёта через gonum/plot.
type PNGRenderer struct{}

// NewPNGRenderer создаёт рендерер PNG-графиков
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// Render сохраняет графики в dir
func (r *PNGRenderer) Render(report *entity.DatasetReport, classes *entity.ClassMapping, dir string) (port.ChartPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return port.ChartPaths{}, err
	}
	points := classPoints(report, classes)

	if err := savePerformance(points, filepath.Join(dir, PerformanceFile)); err != nil {
		return port.ChartPaths{}, fmt.Errorf("performance chart: %w", err)
	}
	if err := saveStability(points, filepath.Join(dir, StabilityFile)); err != nil {
		return port.ChartPaths{}, fmt.Errorf("stability chart: %w", err)
	}
	if err := saveFrequency(frequencyPoints(report, classes), filepath.Join(dir, FrequencyFile)); err != nil {
		return port.ChartPaths{}, fmt.Errorf("frequency chart: %w", err)
	}

	return port.ChartPaths{
		Performance: PerformanceFile,
		Stability:   StabilityFile,
		Frequency:   FrequencyFile,
	}, nil
}

// savePerformance столбики среднего IoU по классам, цвет по уровню.
func savePerformance(points []classPoint, path string) error {
	p := plot.New()
	p.Title.Text = "IoU by class"
	p.X.Label.Text = "Classes"
	p.Y.Label.Text = "Mean IoU (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.X.Tick.Label.Rotation = math.Pi / 4

	if len(points) > 0 {
		names := make([]string, len(points))
		for i, pt := range points {
			names[i] = pt.name
		}
		for t, style := range tiers {
			values := make(plotter.Values, len(points))
			for i, pt := range points {
				if tier(pt.mean) == t {
					values[i] = pt.mean
				}
			}
			bars, err := plotter.NewBarChart(values, vg.Points(20))
			if err != nil {
				return err
			}
			bars.Color = style.color
			bars.LineStyle.Width = 0
			p.Add(bars)
			p.Legend.Add(style.label, bars)
		}
		p.NominalX(names...)

		for _, ref := range []struct {
			y     float64
			color color.Color
		}{{90, green}, {75, orange}} {
			line, err := hline(ref.y, -0.5, float64(len(points))-0.5, ref.color)
			if err != nil {
				return err
			}
			p.Add(line)
		}
	}
	p.Legend.Top = true

	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// saveStability точки «средний IoU - разброс» с подписями классов.
func saveStability(points []classPoint, path string) error {
	p := plot.New()
	p.Title.Text = "Performance vs stability"
	p.X.Label.Text = "Mean IoU (%)"
	p.Y.Label.Text = "Std deviation (%)"
	p.X.Min, p.X.Max = 0, 100
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		labels := make([]string, len(points))
		maxStd := 10.0
		for i, pt := range points {
			xys[i] = plotter.XY{X: pt.mean, Y: pt.std}
			labels[i] = pt.name
			maxStd = math.Max(maxStd, pt.std)
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)

		names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return err
		}
		names.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
		p.Add(names)

		top := maxStd * 1.1
		for _, x := range []struct {
			v     float64
			color color.Color
		}{{90, green}, {75, orange}} {
			line, err := plotter.NewLine(plotter.XYs{{X: x.v, Y: 0}, {X: x.v, Y: top}})
			if err != nil {
				return err
			}
			line.Color = x.color
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
			p.Add(line)
		}
		limit, err := hline(10, 0, 100, red)
		if err != nil {
			return err
		}
		p.Add(limit)
		p.Legend.Add("Instability threshold", limit)
		p.Y.Max = top
	}

	return p.Save(10*vg.Inch, 8*vg.Inch, path)
}

// saveFrequency доля изображений с классом, с подписями над столбиками.
func saveFrequency(points []frequencyPoint, path string) error {
	p := plot.New()
	p.Title.Text = "Class frequency"
	p.X.Label.Text = "Classes"
	p.Y.Label.Text = "Frequency (%)"
	p.Y.Min = 0
	p.X.Tick.Label.Rotation = math.Pi / 4

	if len(points) > 0 {
		names := make([]string, len(points))
		values := make(plotter.Values, len(points))
		xys := make(plotter.XYs, len(points))
		labels := make([]string, len(points))
		for i, pt := range points {
			names[i] = pt.name
			values[i] = pt.share
			xys[i] = plotter.XY{X: float64(i), Y: pt.share + 1}
			labels[i] = fmt.Sprintf("%.1f%%", pt.share)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return err
		}
		bars.Color = sky
		p.Add(bars)
		p.NominalX(names...)

		text, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return err
		}
		p.Add(text)
		p.Y.Max = 110
	}

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

func hline(y, x0, x1 float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y}, {X: x1, Y: y}})
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	return line, nil
}

var _ port.ChartRenderer = (*PNGRenderer)(nil)
