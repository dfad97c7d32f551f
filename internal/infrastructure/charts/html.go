package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

var tierHex = []string{"#2ea043", "#ff8c00", "#d62728"}

// HTMLRenderer собирает интерактивную страницу с теми же графиками (go-echarts).
type HTMLRenderer struct {
	assetsHost string
}

// NewHTMLRenderer создаёт рендерер; пустой assetsHost - CDN по умолчанию.
func NewHTMLRenderer(assetsHost string) *HTMLRenderer {
	return &HTMLRenderer{assetsHost: assetsHost}
}

// Render сохраняет dashboard.html в dir
func (r *HTMLRenderer) Render(report *entity.DatasetReport, classes *entity.ClassMapping, dir string) (port.ChartPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return port.ChartPaths{}, err
	}
	points := classPoints(report, classes)

	page := components.NewPage()
	page.PageTitle = "Segmentation evaluation"
	if r.assetsHost != "" {
		page.SetAssetsHost(r.assetsHost)
	}
	page.AddCharts(
		r.performanceBar(report, points),
		r.stabilityScatter(points),
		r.frequencyBar(frequencyPoints(report, classes)),
	)

	f, err := os.Create(filepath.Join(dir, DashboardFile))
	if err != nil {
		return port.ChartPaths{}, err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return port.ChartPaths{}, fmt.Errorf("render dashboard: %w", err)
	}
	if err := f.Close(); err != nil {
		return port.ChartPaths{}, err
	}
	return port.ChartPaths{Dashboard: DashboardFile}, nil
}

func (r *HTMLRenderer) initOpts(title string) charts.GlobalOpts {
	o := opts.Initialization{PageTitle: title, Width: "1100px", Height: "560px"}
	if r.assetsHost != "" {
		o.AssetsHost = r.assetsHost
	}
	return charts.WithInitializationOpts(o)
}

func (r *HTMLRenderer) performanceBar(report *entity.DatasetReport, points []classPoint) *charts.Bar {
	x := make([]string, len(points))
	y := make([]opts.BarData, len(points))
	for i, pt := range points {
		x[i] = pt.name
		y[i] = opts.BarData{
			Value:     round1(pt.mean),
			ItemStyle: &opts.ItemStyle{Color: tierHex[tier(pt.mean)]},
		}
	}

	subtitle := fmt.Sprintf("images=%d mean IoU=%.1f%%", report.GlobalMetrics.TotalImages, report.GlobalMetrics.MeanIoU*100)
	if report.Run != nil {
		subtitle = "run " + report.Run.ID + " " + subtitle
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.initOpts("IoU by class"),
		charts.WithTitleOpts(opts.Title{Title: "IoU by class", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Mean IoU (%)", Min: 0, Max: 100}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
	)
	bar.SetXAxis(x).
		AddSeries("mean IoU", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func (r *HTMLRenderer) stabilityScatter(points []classPoint) *charts.Scatter {
	data := make([]opts.ScatterData, len(points))
	for i, pt := range points {
		data[i] = opts.ScatterData{Name: pt.name, Value: []interface{}{round1(pt.mean), round1(pt.std)}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		r.initOpts("Performance vs stability"),
		charts.WithTitleOpts(opts.Title{Title: "Performance vs stability"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Mean IoU (%)", Min: 0, Max: 100, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Std deviation (%)", Min: 0}),
	)
	scatter.AddSeries("classes", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
	)
	return scatter
}

func (r *HTMLRenderer) frequencyBar(points []frequencyPoint) *charts.Bar {
	x := make([]string, len(points))
	y := make([]opts.BarData, len(points))
	for i, pt := range points {
		x[i] = pt.name
		y[i] = opts.BarData{Value: round1(pt.share)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.initOpts("Class frequency"),
		charts.WithTitleOpts(opts.Title{Title: "Class frequency"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency (%)", Min: 0}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
	)
	bar.SetXAxis(x).
		AddSeries("frequency", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

var _ port.ChartRenderer = (*HTMLRenderer)(nil)
