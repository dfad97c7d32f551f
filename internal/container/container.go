package container

import (
	"time"

	"github.com/rs/zerolog"

	app "fashion-eval/internal/application"
	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// Adapters инфраструктурные реализации портов
type Adapters struct {
	MaskReader  port.MaskReader
	MaskWriter  port.MaskWriter
	Segmenter   port.Segmenter
	Compositor  port.MaskCompositor
	Visualizer  port.ResultVisualizer
	ReportStore port.ReportStore
	Charts      []port.ChartRenderer
	Composer    port.ReportComposer
	Runs        port.RunRepository
	Notifier    port.ReportNotifier // nil, если уведомления выключены
}

// Paths каталоги, с которыми работают сервисы
type Paths struct {
	Segmentation app.SegmentationDirs
	ReportDir    string
}

type Container struct {
	Evaluation   *app.EvaluationService
	Segmentation *app.SegmentationService
	Reports      *app.ReportService
}

func New(classes *entity.ClassMapping, a Adapters, paths Paths, delay time.Duration, log zerolog.Logger) *Container {
	loader := app.NewMaskLoader(a.MaskReader, classes, log)
	engine := app.NewMetricEngine(classes, log)

	return &Container{
		Evaluation: app.NewEvaluationService(loader, engine, log),
		Segmentation: app.NewSegmentationService(a.Segmenter, a.Compositor, a.MaskWriter, loader,
			a.Visualizer, paths.Segmentation, delay, log),
		Reports: app.NewReportService(classes, a.ReportStore, a.Charts, a.Composer, a.Runs, a.Notifier,
			paths.ReportDir, paths.Segmentation.RealResults, log),
	}
}
