package report

import (
	"embed"
	"fmt"
	"io"
	"os"
	"text/template"

	"fashion-eval/internal/domain/port"
)

//go:embed templates/report.md.tmpl
var templates embed.FS

const defaultTemplate = "templates/report.md.tmpl"

// Composer заполняет markdown-шаблон отчёта
type Composer struct {
	tmpl *template.Template
}

// NewComposer разбирает шаблон из файла; пустой путь - встроенный шаблон.
func NewComposer(templatePath string) (*Composer, error) {
	var (
		text []byte
		err  error
	)
	if templatePath == "" {
		text, err = templates.ReadFile(defaultTemplate)
	} else {
		text, err = os.ReadFile(templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("read report template: %w", err)
	}

	tmpl, err := template.New("report").Option("missingkey=error").Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Composer{tmpl: tmpl}, nil
}

// templateData именованные поля, доступные шаблону
type templateData struct {
	RunID       string
	GeneratedAt string
	History     string

	TotalImages          int
	MeanIoUPercent       string
	PixelAccuracyPercent string
	StdIoUPercent        string

	ExcellentClassesTable   string
	GoodClassesTable        string
	ProblematicClassesTable string
	StabilityAnalysis       string
	WarningClasses          string

	BestImagesTable  string
	WorstImagesTable string
	BestImageVisual  string
	BestImageTitle   string
	WorstImageVisual string
	WorstImageTitle  string

	WorstImageAnalysis string

	PerformanceChart string
	StabilityChart   string
	FrequencyChart   string
	Dashboard        string
}

// Compose пишет заполненный отчёт в w
func (c *Composer) Compose(w io.Writer, doc port.ReportDocument) error {
	r := doc.Report
	excellent, good, problematic := splitClasses(r, doc.Classes)

	data := templateData{
		History:                 historyNote(r, doc.Previous),
		TotalImages:             r.GlobalMetrics.TotalImages,
		MeanIoUPercent:          fmt.Sprintf("%.1f", r.GlobalMetrics.MeanIoU*100),
		PixelAccuracyPercent:    fmt.Sprintf("%.1f", r.GlobalMetrics.PixelAccuracy),
		StdIoUPercent:           fmt.Sprintf("%.1f", r.StabilityMetrics.StdIoU*100),
		ExcellentClassesTable:   classTable(excellent),
		GoodClassesTable:        classTable(good),
		ProblematicClassesTable: classTable(problematic),
		StabilityAnalysis:       stabilityAnalysis(r.StabilityMetrics.StdIoU),
		WarningClasses:          warningAnalysis(r.ProblematicClasses),
		BestImagesTable:         imagesTable(r.PerformanceRanking.Best5),
		WorstImagesTable:        imagesTable(r.PerformanceRanking.Worst5),
		BestImageVisual:         visualMarkdown(doc.Best.Path, doc.Best.Title, doc.Best.Found),
		BestImageTitle:          doc.Best.Title,
		WorstImageVisual:        visualMarkdown(doc.Worst.Path, doc.Worst.Title, doc.Worst.Found),
		WorstImageTitle:         doc.Worst.Title,
		WorstImageAnalysis:      DataNotAvailable,
		PerformanceChart:        doc.Charts.Performance,
		StabilityChart:          doc.Charts.Stability,
		FrequencyChart:          doc.Charts.Frequency,
		Dashboard:               doc.Charts.Dashboard,
	}
	if r.Run != nil {
		data.RunID = r.Run.ID
		data.GeneratedAt = r.Run.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	}
	if worst, ok := r.PerformanceRanking.Worst(); ok {
		if eval, ok := r.Image(worst.Image); ok {
			data.WorstImageAnalysis = worstImageAnalysis(eval)
		}
	}

	return c.tmpl.Execute(w, data)
}

var _ port.ReportComposer = (*Composer)(nil)
