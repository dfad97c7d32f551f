package app

import (
	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
)

// AccuracyTier уровень точности по пикселям
type AccuracyTier string

const (
	AccuracyLow       AccuracyTier = "low"       // < 70
	AccuracyCorrect   AccuracyTier = "correct"   // [70, 85)
	AccuracyGood      AccuracyTier = "good"      // [85, 95)
	AccuracyExcellent AccuracyTier = "excellent" // >= 95
)

// ClassifyAccuracy возвращает уровень точности в процентах
func ClassifyAccuracy(accuracy float64) AccuracyTier {
	switch {
	case accuracy < 70:
		return AccuracyLow
	case accuracy < 85:
		return AccuracyCorrect
	case accuracy < 95:
		return AccuracyGood
	default:
		return AccuracyExcellent
	}
}

// IoUTier уровень IoU класса
type IoUTier string

const (
	IoUAbsent   IoUTier = "absent" // IoU не определён
	IoULow      IoUTier = "low"
	IoUModerate IoUTier = "moderate"
	IoUGood     IoUTier = "good"
)

// ClassifyIoU возвращает уровень IoU: < 0.5, [0.5, 0.75), >= 0.75.
func ClassifyIoU(iou entity.NullFloat) IoUTier {
	switch {
	case !iou.Valid:
		return IoUAbsent
	case iou.Value < 0.5:
		return IoULow
	case iou.Value < 0.75:
		return IoUModerate
	default:
		return IoUGood
	}
}

// ProblemKind вид проблемы класса с низким IoU
type ProblemKind string

const (
	DetectionProblem    ProblemKind = "detection"    // редкий класс, < 1% пикселей эталона
	SegmentationProblem ProblemKind = "segmentation" // частый класс, >= 1%
)

// RareClassShare доля пикселей эталона (в процентах), ниже которой класс считается редким.
const RareClassShare = 1.0

// ClassifyProblem отличает проблему детекции от проблемы сегментации.
func ClassifyProblem(gtShare float64) ProblemKind {
	if gtShare < RareClassShare {
		return DetectionProblem
	}
	return SegmentationProblem
}

// ClassFinding оценка одного класса изображения
type ClassFinding struct {
	ClassName string
	IoU       entity.NullFloat
	Tier      IoUTier
}

// Diagnosis класс эталона с низким IoU и вид его проблемы
type Diagnosis struct {
	ClassName string
	IoU       float64
	GTShare   float64
	PredShare float64
	Kind      ProblemKind
}

// PerformanceBuckets распределение определённых IoU по четырём корзинам.
type PerformanceBuckets struct {
	Excellent int // >= 0.9
	Good      int // [0.75, 0.9)
	Moderate  int // [0.5, 0.75)
	Poor      int // < 0.5
}

// Total возвращает число классов с определённым IoU
func (b PerformanceBuckets) Total() int {
	return b.Excellent + b.Good + b.Moderate + b.Poor
}

// ImageFindings выводы по одному изображению
type ImageFindings struct {
	ImageID      string
	MeanIoU      float64
	Accuracy     float64
	AccuracyTier AccuracyTier
	Classes      []ClassFinding
	Diagnoses    []Diagnosis
	Buckets      PerformanceBuckets
}

// AnalyzeImage интерпретирует метрики изображения. Фон не учитывается.
func AnalyzeImage(eval *entity.SingleImageEvaluation) ImageFindings {
	f := ImageFindings{
		ImageID:      eval.ImageID,
		MeanIoU:      eval.MeanIoU,
		Accuracy:     eval.Accuracy,
		AccuracyTier: ClassifyAccuracy(eval.Accuracy),
	}

	for _, s := range eval.IoUScores {
		if s.ClassName == entity.BackgroundName {
			continue
		}
		f.Classes = append(f.Classes, ClassFinding{ClassName: s.ClassName, IoU: s.IoU, Tier: ClassifyIoU(s.IoU)})
		if !s.IoU.Valid {
			continue
		}
		switch v := s.IoU.Value; {
		case v >= 0.9:
			f.Buckets.Excellent++
		case v >= 0.75:
			f.Buckets.Good++
		case v >= 0.5:
			f.Buckets.Moderate++
		default:
			f.Buckets.Poor++
		}
	}

	for _, d := range eval.DistributionsGT {
		if d.ClassID == entity.BackgroundID {
			continue
		}
		iou, ok := eval.Score(d.ClassName)
		if !ok || !iou.Below(LowIoUThreshold) {
			continue
		}
		f.Diagnoses = append(f.Diagnoses, Diagnosis{
			ClassName: d.ClassName,
			IoU:       iou.Value,
			GTShare:   d.Percentage,
			PredShare: eval.PredShare(d.ClassName),
			Kind:      ClassifyProblem(d.Percentage),
		})
	}

	return f
}

// LogFindings пишет выводы в лог так же, как они попадают в отчёт.
func LogFindings(log zerolog.Logger, f ImageFindings) {
	log = log.With().Str("image", f.ImageID).Logger()

	accEvent := log.Info()
	if f.AccuracyTier == AccuracyLow {
		accEvent = log.Warn()
	}
	accEvent.Float64("accuracy", f.Accuracy).Str("tier", string(f.AccuracyTier)).Msg("pixel accuracy")

	log.Info().Float64("mean_iou", f.MeanIoU).Msg("mean IoU")
	for _, c := range f.Classes {
		ev := log.Info()
		if c.Tier == IoULow {
			ev = log.Warn()
		}
		ev.Str("class", c.ClassName).Stringer("iou", c.IoU).Str("tier", string(c.Tier)).Msg("class IoU")
	}

	for _, d := range f.Diagnoses {
		log.Warn().
			Str("class", d.ClassName).
			Float64("iou", d.IoU).
			Float64("gt_share", d.GTShare).
			Float64("pred_share", d.PredShare).
			Str("problem", string(d.Kind)).
			Msg("low IoU class")
	}

	log.Info().
		Int("excellent", f.Buckets.Excellent).
		Int("good", f.Buckets.Good).
		Int("moderate", f.Buckets.Moderate).
		Int("poor", f.Buckets.Poor).
		Msg("class performance breakdown")
}
