package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
)

// LowIoUThreshold граница «плохого» IoU для предупреждений и доли отказов.
const LowIoUThreshold = 0.5

// MetricEngine считает IoU, точность и распределения классов для пары масок.
type MetricEngine struct {
	classes *entity.ClassMapping
	log     zerolog.Logger
}

// NewMetricEngine создаёт движок метрик для заданной таблицы классов.
func NewMetricEngine(classes *entity.ClassMapping, log zerolog.Logger) *MetricEngine {
	return &MetricEngine{
		classes: classes,
		log:     log.With().Str("component", "metrics").Logger(),
	}
}

// ComputeIoU считает IoU каждого класса по пикселям, где эталон не фон.
func (e *MetricEngine) ComputeIoU(gt, pred *entity.LabelMask) (entity.IoUResult, error) {
	if len(gt.Pix) != len(pred.Pix) {
		return entity.IoUResult{}, fmt.Errorf("%w: ground truth has %d pixels, prediction has %d",
			entity.ErrShapeMismatch, len(gt.Pix), len(pred.Pix))
	}

	n := e.classes.Len()
	truth := make([]int, n)
	predicted := make([]int, n)
	overlap := make([]int, n)
	for i, t := range gt.Pix {
		if t == entity.BackgroundID {
			continue
		}
		p := pred.Pix[i]
		if int(t) < n {
			truth[t]++
		}
		if int(p) < n {
			predicted[p]++
		}
		if t == p && int(t) < n {
			overlap[t]++
		}
	}

	result := entity.IoUResult{Scores: make([]entity.IoUScore, 0, n)}
	var sum float64
	var defined int
	for id := 0; id < n; id++ {
		name, _ := e.classes.Name(id)

		var iou entity.NullFloat
		switch {
		case truth[id] == 0 && predicted[id] == 0:
			iou = entity.Defined(1.0)
		case truth[id] == 0:
			iou = entity.Undefined()
			e.log.Warn().Str("class", name).Msg("class absent from ground truth, IoU undefined")
			result.Warnings = append(result.Warnings, entity.ClassWarning{
				ClassID:   id,
				ClassName: name,
				Kind:      entity.WarningAbsentInTruth,
				IoU:       iou,
				Message:   fmt.Sprintf("Class '%s' absent from ground truth but predicted: IoU undefined", name),
			})
		default:
			union := truth[id] + predicted[id] - overlap[id]
			iou = entity.Defined(float64(overlap[id]) / float64(union))
		}

		if iou.Valid {
			sum += iou.Value
			defined++
		}
		if iou.Below(LowIoUThreshold) {
			result.Warnings = append(result.Warnings, entity.ClassWarning{
				ClassID:   id,
				ClassName: name,
				Kind:      entity.WarningLowIoU,
				IoU:       iou,
				Message:   fmt.Sprintf("Low IoU for class '%s': %.4f", name, iou.Value),
			})
		}

		e.log.Debug().Str("class", name).Stringer("iou", iou).Msg("class IoU")
		result.Scores = append(result.Scores, entity.IoUScore{ClassName: name, IoU: iou})
	}

	if defined > 0 {
		result.MeanIoU = sum / float64(defined)
	}
	e.log.Debug().Float64("mean_iou", result.MeanIoU).Msg("mean IoU")

	return result, nil
}

// ComputeDistribution считает пиксели каждого присутствующего класса.
// Неизвестные id пишутся в лог и в результат не попадают.
func (e *MetricEngine) ComputeDistribution(mask *entity.LabelMask) []entity.ClassDistribution {
	var counts [256]int
	for _, v := range mask.Pix {
		counts[v]++
	}

	total := float64(len(mask.Pix))
	dists := make([]entity.ClassDistribution, 0, e.classes.Len())
	for id, count := range counts {
		if count == 0 {
			continue
		}
		name, ok := e.classes.Name(id)
		if !ok {
			e.log.Warn().Int("class_id", id).Int("pixels", count).Msg("unknown class in mask")
			continue
		}
		dists = append(dists, entity.ClassDistribution{
			ClassName:  name,
			ClassID:    id,
			PixelCount: count,
			Percentage: float64(count) / total * 100,
		})
	}
	return dists
}

// ComputePixelAccuracy возвращает процент совпавших пикселей среди
// пикселей, где эталон не фон. Без таких пикселей точность равна 100.
func (e *MetricEngine) ComputePixelAccuracy(gt, pred *entity.LabelMask) (float64, error) {
	if !gt.SameShape(pred) {
		return 0, fmt.Errorf("%w: ground truth is %dx%d, prediction is %dx%d",
			entity.ErrShapeMismatch, gt.Width, gt.Height, pred.Width, pred.Height)
	}

	var total, correct int
	for i, t := range gt.Pix {
		if t == entity.BackgroundID {
			continue
		}
		total++
		if pred.Pix[i] == t {
			correct++
		}
	}
	if total == 0 {
		return 100, nil
	}

	accuracy := float64(correct) / float64(total) * 100
	e.log.Debug().Float64("accuracy", accuracy).Msg("pixel accuracy")
	return accuracy, nil
}

// DescribeWarnings дополняет предупреждения числом пикселей класса
// в эталоне и в предсказании.
func DescribeWarnings(warnings []entity.ClassWarning, gt, pred []entity.ClassDistribution) []entity.ClassWarning {
	out := make([]entity.ClassWarning, len(warnings))
	for i, w := range warnings {
		for _, d := range gt {
			if d.ClassID == w.ClassID {
				w.Message += fmt.Sprintf(" | Ground Truth: %d pixels (%.1f%%)", d.PixelCount, d.Percentage)
			}
		}
		for _, d := range pred {
			if d.ClassID == w.ClassID {
				w.Message += fmt.Sprintf(" | Predicted: %d pixels (%.1f%%)", d.PixelCount, d.Percentage)
			}
		}
		out[i] = w
	}
	return out
}
