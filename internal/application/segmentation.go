package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/port"
)

// SampleSize сколько снимков обрабатывается в режиме выборки
const SampleSize = 5

// SegmentationDirs каталоги режима сегментации
type SegmentationDirs struct {
	OutputMasks     string // Output_API/Mask
	OutputImages    string // Output_API/IMG
	RealResults     string
	Images          string // исходные снимки
	Masks           string // эталонные маски
	ExpectedResults string
}

// SegmentationSummary итог прогона через удалённую модель
type SegmentationSummary struct {
	Processed int
	Failed    int
}

// SegmentationService прогоняет снимки через удалённую модель,
// сохраняет маски и строит визуализации.
type SegmentationService struct {
	segmenter  port.Segmenter
	compositor port.MaskCompositor
	writer     port.MaskWriter
	loader     *MaskLoader
	visualizer port.ResultVisualizer
	dirs       SegmentationDirs
	delay      time.Duration
	log        zerolog.Logger
}

// NewSegmentationService создаёт сервис сегментации
func NewSegmentationService(
	segmenter port.Segmenter,
	compositor port.MaskCompositor,
	writer port.MaskWriter,
	loader *MaskLoader,
	visualizer port.ResultVisualizer,
	dirs SegmentationDirs,
	delay time.Duration,
	log zerolog.Logger,
) *SegmentationService {
	return &SegmentationService{
		segmenter:  segmenter,
		compositor: compositor,
		writer:     writer,
		loader:     loader,
		visualizer: visualizer,
		dirs:       dirs,
		delay:      delay,
		log:        log.With().Str("component", "segmentation").Logger(),
	}
}

// Run сегментирует снимки по очереди. Ошибка одного снимка пишется в лог
// и не прерывает прогон; отмена контекста прерывает.
func (s *SegmentationService) Run(ctx context.Context, imagePaths []string, sample bool) (SegmentationSummary, error) {
	if sample && len(imagePaths) > SampleSize {
		imagePaths = imagePaths[:SampleSize]
	}
	s.log.Info().Int("images", len(imagePaths)).Bool("sample", sample).Msg("segmentation started")

	var sum SegmentationSummary
	for i, path := range imagePaths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if err := s.segmentOne(ctx, path); err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Failed++
			s.log.Error().Err(err).Str("image", path).Msg("segmentation failed")
		} else {
			sum.Processed++
			s.log.Info().Int("n", i+1).Int("total", len(imagePaths)).Str("image", path).Msg("image segmented")
		}

		if i < len(imagePaths)-1 {
			if err := sleep(ctx, s.delay); err != nil {
				return sum, err
			}
		}
	}

	s.log.Info().Int("processed", sum.Processed).Int("failed", sum.Failed).Msg("segmentation finished")
	return sum, nil
}

func (s *SegmentationService) segmentOne(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}

	segments, err := s.segmenter.Segment(ctx, data)
	if err != nil {
		return err
	}
	mask, err := s.compositor.Compose(segments, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	if err := s.writer.WriteMask(filepath.Join(s.dirs.OutputMasks, MaskFileName(name)), mask); err != nil {
		return fmt.Errorf("write mask: %w", err)
	}
	if err := copyFile(path, filepath.Join(s.dirs.OutputImages, name)); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return nil
}

// SaveRealVisuals строит визуализации предсказанных масок в RealResults.
func (s *SegmentationService) SaveRealVisuals() (int, error) {
	return s.SaveVisuals(s.dirs.OutputImages, s.dirs.OutputMasks, s.dirs.RealResults)
}

// SaveExpectedVisuals строит визуализации эталонных масок, только если
// каталог ExpectedResults пуст или отсутствует.
func (s *SegmentationService) SaveExpectedVisuals() (int, error) {
	existing, err := ListImages(s.dirs.ExpectedResults)
	if err == nil && len(existing) > 0 {
		s.log.Info().Str("dir", s.dirs.ExpectedResults).Msg("expected visuals already exist, skipping")
		return 0, nil
	}
	return s.SaveVisuals(s.dirs.Images, s.dirs.Masks, s.dirs.ExpectedResults)
}

// SaveVisuals сопоставляет снимки и маски по номеру в имени и сохраняет
// result_<номер>.png в outDir. Возвращает число сохранённых картинок.
func (s *SegmentationService) SaveVisuals(imageDir, maskDir, outDir string) (int, error) {
	images, err := ListImages(imageDir)
	if err != nil {
		return 0, err
	}
	masks, err := ListImages(maskDir)
	if err != nil {
		return 0, err
	}

	byNumber := make(map[string]string, len(masks))
	for _, m := range masks {
		byNumber[ImageNumber(m)] = m
	}

	saved := 0
	for _, img := range images {
		maskName, ok := byNumber[ImageNumber(img)]
		if !ok {
			s.log.Warn().Str("image", img).Str("dir", maskDir).Msg("no mask for image")
			continue
		}
		mask, err := s.loader.Load(filepath.Join(maskDir, maskName))
		if err != nil {
			s.log.Error().Err(err).Str("mask", maskName).Msg("skip visual")
			continue
		}
		out := filepath.Join(outDir, ResultFileName(img))
		if err := s.visualizer.SaveComparison(filepath.Join(imageDir, img), mask, out); err != nil {
			s.log.Error().Err(err).Str("image", img).Msg("skip visual")
			continue
		}
		saved++
	}

	s.log.Info().Int("saved", saved).Str("dir", outDir).Msg("visuals saved")
	return saved, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
