package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// Имена артефактов внутри каталога отчёта.
const (
	ReportFileName = "evaluation_report.md"
	ImagesDirName  = "img"
)

// ReportService сохраняет сводку, рисует графики, собирает markdown-отчёт
// и записывает запуск в историю.
type ReportService struct {
	classes    *entity.ClassMapping
	store      port.ReportStore
	charts     []port.ChartRenderer
	composer   port.ReportComposer
	runs       port.RunRepository
	notifier   port.ReportNotifier
	reportDir  string
	resultsDir string // визуализации result_<n>.png реальных предсказаний
	now        func() time.Time
	log        zerolog.Logger
}

// NewReportService создаёт сервис отчётов. notifier может быть nil.
func NewReportService(
	classes *entity.ClassMapping,
	store port.ReportStore,
	charts []port.ChartRenderer,
	composer port.ReportComposer,
	runs port.RunRepository,
	notifier port.ReportNotifier,
	reportDir, resultsDir string,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		classes:    classes,
		store:      store,
		charts:     charts,
		composer:   composer,
		runs:       runs,
		notifier:   notifier,
		reportDir:  reportDir,
		resultsDir: resultsDir,
		now:        time.Now,
		log:        log.With().Str("component", "report").Logger(),
	}
}

// Generate проводит сводку через все артефакты и возвращает путь к отчёту.
// Ошибка уведомления только пишется в лог.
func (s *ReportService) Generate(ctx context.Context, report *entity.DatasetReport) (string, error) {
	report.Run = &entity.RunInfo{ID: uuid.NewString(), GeneratedAt: s.now().UTC()}
	log := s.log.With().Str("run_id", report.Run.ID).Logger()

	previous, ok, err := s.runs.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("load run history: %w", err)
	}
	var prev *entity.RunRecord
	if ok {
		prev = &previous
	}

	jsonPath, err := s.store.Save(report)
	if err != nil {
		return "", fmt.Errorf("save report json: %w", err)
	}
	log.Info().Str("path", jsonPath).Msg("report json saved")

	imgDir := filepath.Join(s.reportDir, ImagesDirName)
	charts, err := s.renderCharts(report, imgDir)
	if err != nil {
		return "", err
	}

	doc := port.ReportDocument{
		Report:   report,
		Classes:  s.classes,
		Charts:   charts,
		Previous: prev,
	}
	if best, ok := report.PerformanceRanking.Best(); ok {
		doc.Best = s.copyVisual(best.Image, "best", "Best segmentation", imgDir)
	}
	if worst, ok := report.PerformanceRanking.Worst(); ok {
		doc.Worst = s.copyVisual(worst.Image, "worst", "Problematic segmentation", imgDir)
	}

	reportPath := filepath.Join(s.reportDir, ReportFileName)
	if err := s.writeReport(reportPath, doc); err != nil {
		return "", err
	}
	log.Info().Str("path", reportPath).Msg("markdown report saved")

	if err := s.runs.Save(ctx, entity.NewRunRecord(report)); err != nil {
		return "", fmt.Errorf("save run history: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report, reportPath); err != nil {
			log.Error().Err(err).Msg("report notification failed")
		} else {
			log.Info().Msg("report notification sent")
		}
	}
	return reportPath, nil
}

// renderCharts запускает все рендереры; непустые пути последнего побеждают.
func (s *ReportService) renderCharts(report *entity.DatasetReport, imgDir string) (port.ChartPaths, error) {
	var merged port.ChartPaths
	for _, r := range s.charts {
		p, err := r.Render(report, s.classes, imgDir)
		if err != nil {
			return port.ChartPaths{}, fmt.Errorf("render charts: %w", err)
		}
		setPath(&merged.Performance, p.Performance)
		setPath(&merged.Stability, p.Stability)
		setPath(&merged.Frequency, p.Frequency)
		setPath(&merged.Dashboard, p.Dashboard)
	}
	return merged, nil
}

func setPath(dst *string, name string) {
	if name != "" {
		*dst = ImagesDirName + "/" + name
	}
}

// copyVisual копирует result_<n>.png изображения в каталог отчёта.
// Отсутствие визуализации не ошибка: в отчёте будет заглушка.
func (s *ReportService) copyVisual(imageID, prefix, title, imgDir string) port.Visual {
	number := ImageNumber(imageID)
	v := port.Visual{Title: fmt.Sprintf("%s (image %s)", title, number)}

	src := filepath.Join(s.resultsDir, ResultFileName(imageID))
	if _, err := os.Stat(src); err != nil {
		s.log.Warn().Str("image", imageID).Str("path", src).Msg("visual not found")
		return v
	}

	name := prefix + "_" + ResultFileName(imageID)
	if err := copyFile(src, filepath.Join(imgDir, name)); err != nil {
		s.log.Error().Err(err).Str("image", imageID).Msg("copy visual failed")
		return v
	}
	v.Path = ImagesDirName + "/" + name
	v.Found = true
	return v
}

func (s *ReportService) writeReport(path string, doc port.ReportDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := s.composer.Compose(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("compose report: %w", err)
	}
	return f.Close()
}
