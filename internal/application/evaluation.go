package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
)

// EvaluationService оценивает пары масок: одну или весь набор.
type EvaluationService struct {
	loader *MaskLoader
	engine *MetricEngine
	log    zerolog.Logger
}

// NewEvaluationService создаёт сервис оценки
func NewEvaluationService(loader *MaskLoader, engine *MetricEngine, log zerolog.Logger) *EvaluationService {
	return &EvaluationService{
		loader: loader,
		engine: engine,
		log:    log.With().Str("component", "evaluation").Logger(),
	}
}

// EvaluateImage загружает обе маски пары и считает все метрики.
// Вместе с оценкой возвращает предупреждения подсчёта IoU.
func (s *EvaluationService) EvaluateImage(pair entity.MaskPair) (*entity.SingleImageEvaluation, []entity.ClassWarning, error) {
	gt, err := s.loader.Load(pair.GroundTruthPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load ground truth for %s: %w", pair.ImageID, err)
	}
	pred, err := s.loader.Load(pair.PredictedPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load prediction for %s: %w", pair.ImageID, err)
	}

	iou, err := s.engine.ComputeIoU(gt, pred)
	if err != nil {
		return nil, nil, fmt.Errorf("iou for %s: %w", pair.ImageID, err)
	}
	accuracy, err := s.engine.ComputePixelAccuracy(gt, pred)
	if err != nil {
		return nil, nil, fmt.Errorf("accuracy for %s: %w", pair.ImageID, err)
	}

	eval := &entity.SingleImageEvaluation{
		ImageID:           pair.ImageID,
		MeanIoU:           iou.MeanIoU,
		IoUScores:         iou.Scores,
		Accuracy:          accuracy,
		DistributionsGT:   s.engine.ComputeDistribution(gt),
		DistributionsPred: s.engine.ComputeDistribution(pred),
	}
	return eval, iou.Warnings, nil
}

// EvaluateDataset оценивает пары по порядку. Первая ошибка прерывает запуск.
func (s *EvaluationService) EvaluateDataset(ctx context.Context, pairs []entity.MaskPair) (entity.DatasetEvaluation, error) {
	if len(pairs) == 0 {
		return nil, entity.ErrEmptyDataset
	}

	evals := make(entity.DatasetEvaluation, 0, len(pairs))
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eval, _, err := s.EvaluateImage(pair)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *eval)

		s.log.Info().
			Int("n", i+1).
			Int("total", len(pairs)).
			Str("image", pair.ImageID).
			Float64("mean_iou", eval.MeanIoU).
			Float64("accuracy", eval.Accuracy).
			Msg("image evaluated")
	}
	return evals, nil
}

// EvaluateRandom оценивает одну случайную пару и пишет в лог подробный разбор.
func (s *EvaluationService) EvaluateRandom(pairs []entity.MaskPair, rng *rand.Rand) (*entity.SingleImageEvaluation, ImageFindings, error) {
	if len(pairs) == 0 {
		return nil, ImageFindings{}, entity.ErrEmptyDataset
	}

	pair := pairs[rng.IntN(len(pairs))]
	s.log.Info().Str("image", pair.ImageID).Msg("evaluating random image")

	eval, warnings, err := s.EvaluateImage(pair)
	if err != nil {
		return nil, ImageFindings{}, err
	}

	for _, w := range DescribeWarnings(warnings, eval.DistributionsGT, eval.DistributionsPred) {
		s.log.Warn().Str("image", pair.ImageID).Str("class", w.ClassName).Str("kind", string(w.Kind)).Msg(w.Message)
	}

	findings := AnalyzeImage(eval)
	LogFindings(s.log, findings)
	return eval, findings, nil
}

// Run оценивает предсказания из predDir против эталонов из gtDir:
// разбор случайного изображения, весь набор, итоговая сводка.
func (s *EvaluationService) Run(ctx context.Context, predDir, gtDir string, rng *rand.Rand) (*entity.DatasetReport, error) {
	pairs, err := PairDirectories(predDir, gtDir)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("pairs", len(pairs)).Str("pred_dir", predDir).Str("gt_dir", gtDir).Msg("masks paired")

	if _, _, err := s.EvaluateRandom(pairs, rng); err != nil {
		return nil, fmt.Errorf("random image: %w", err)
	}

	evals, err := s.EvaluateDataset(ctx, pairs)
	if err != nil {
		return nil, err
	}

	report, err := Aggregate(evals, s.engine.classes)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int("images", report.GlobalMetrics.TotalImages).
		Float64("mean_iou", report.GlobalMetrics.MeanIoU).
		Float64("std_iou", report.StabilityMetrics.StdIoU).
		Float64("pixel_accuracy", report.GlobalMetrics.PixelAccuracy).
		Int("problematic_classes", len(report.ProblematicClasses)).
		Msg("dataset evaluated")
	return report, nil
}
