package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"fashion-eval/config"
	telegram "fashion-eval/internal/api"
	app "fashion-eval/internal/application"
	"fashion-eval/internal/container"
	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
	"fashion-eval/internal/infrastructure/charts"
	"fashion-eval/internal/infrastructure/report"
	"fashion-eval/internal/infrastructure/segmentation"
	"fashion-eval/internal/infrastructure/storage"
	"fashion-eval/internal/infrastructure/vision"
	"fashion-eval/internal/logger"
)

func main() {
	sample := flag.BoolP("sample", "s", false, "segment only the first 5 images")
	evaluation := flag.BoolP("evaluation", "e", false, "evaluate predicted masks against ground truth")
	seed := flag.Uint64("seed", 0, "seed for the random single-image analysis (0 = time based)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.New(cfg.LogDir, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *sample, *evaluation, *seed, log); err != nil {
		log.Error().Err(err).Msg("run failed")
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, sample, evaluation bool, seed uint64, log zerolog.Logger) error {
	classes := entity.DefaultClassMapping()

	// Хранилище истории запусков
	var runs port.RunRepository
	if cfg.HistoryDB != "" {
		repo, err := storage.NewSQLiteRunRepository(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer repo.Close()
		runs = repo
	} else {
		runs = storage.NewMemoryRunRepository()
	}

	var notifier port.ReportNotifier
	if cfg.NotifyEnabled() {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = n
		}
	}

	composer, err := report.NewComposer(cfg.ReportTemplate)
	if err != nil {
		return err
	}

	modelURL := cfg.HFModelURL
	if modelURL == "" {
		modelURL = segmentation.DefaultModelURL
	}

	// Собираем сервисы приложения
	maskIO := vision.NewMaskIO()
	c := container.New(classes, container.Adapters{
		MaskReader:  maskIO,
		MaskWriter:  maskIO,
		Segmenter:   segmentation.NewClient(modelURL, cfg.HFToken, cfg.RequestTimeout, log),
		Compositor:  segmentation.NewCompositor(classes, log),
		Visualizer:  vision.NewVisualizer(classes),
		ReportStore: storage.NewJSONReportStore(cfg.ReportJSON),
		Charts:      []port.ChartRenderer{charts.NewPNGRenderer(), charts.NewHTMLRenderer("")},
		Composer:    composer,
		Runs:        runs,
		Notifier:    notifier,
	}, container.Paths{
		Segmentation: app.SegmentationDirs{
			OutputMasks:     cfg.OutputMaskDir(),
			OutputImages:    cfg.OutputImageDir(),
			RealResults:     cfg.RealResultDir(),
			Images:          cfg.ImageDir(),
			Masks:           cfg.MaskDir(),
			ExpectedResults: cfg.ExpectedResultDir(),
		},
		ReportDir: cfg.ReportDir,
	}, cfg.RequestDelay, log)

	if evaluation {
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return evaluate(ctx, c, cfg, rand.New(rand.NewPCG(seed, seed>>1)), log)
	}
	return segment(ctx, c, cfg, sample, log)
}

func segment(ctx context.Context, c *container.Container, cfg *config.Config, sample bool, log zerolog.Logger) error {
	names, err := app.ListImages(cfg.ImageDir())
	if err != nil {
		return err
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(cfg.ImageDir(), name)
	}

	if _, err := c.Segmentation.Run(ctx, paths, sample); err != nil {
		return err
	}
	if _, err := c.Segmentation.SaveRealVisuals(); err != nil {
		return err
	}
	if _, err := c.Segmentation.SaveExpectedVisuals(); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			log.Warn().Err(err).Msg("ground truth visuals skipped")
			return nil
		}
		return err
	}
	return nil
}

func evaluate(ctx context.Context, c *container.Container, cfg *config.Config, rng *rand.Rand, log zerolog.Logger) error {
	rep, err := c.Evaluation.Run(ctx, cfg.OutputMaskDir(), cfg.MaskDir(), rng)
	if err != nil {
		return err
	}
	path, err := c.Reports.Generate(ctx, rep)
	if err != nil {
		return err
	}
	log.Info().Str("report", path).Msg("evaluation finished")
	return nil
}
