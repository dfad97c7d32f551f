package app

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"fashion-eval/internal/domain/entity"
)

// RankingSize число изображений в каждом списке рейтинга
const RankingSize = 5

// Aggregate сводит оценки изображений в отчёт по набору данных.
// Фон в классовой статистике и доле отказов не участвует.
func Aggregate(evals entity.DatasetEvaluation, classes *entity.ClassMapping) (*entity.DatasetReport, error) {
	if len(evals) == 0 {
		return nil, entity.ErrEmptyDataset
	}

	meanIoUs := make([]float64, len(evals))
	accuracies := make([]float64, len(evals))
	for i, e := range evals {
		meanIoUs[i] = e.MeanIoU
		accuracies[i] = e.Accuracy
	}
	globalMean, globalStd := meanStd(meanIoUs)

	report := &entity.DatasetReport{
		GlobalMetrics: entity.GlobalMetrics{
			MeanIoU:       globalMean,
			PixelAccuracy: stat.Mean(accuracies, nil),
			TotalImages:   len(evals),
		},
		StabilityMetrics: entity.StabilityMetrics{
			StdIoU:         globalStd,
			ClassStability: make(map[string]entity.ClassStability),
		},
		ClassFrequency:     classFrequency(evals),
		ProblematicClasses: make(map[string]float64),
		PerformanceRanking: rank(evals),
		PerImageResults:    evals,
	}

	for _, name := range classes.Names() {
		if name == entity.BackgroundName {
			continue
		}
		values := definedScores(evals, name)
		if len(values) == 0 {
			continue
		}

		mean, std := meanStd(values)
		report.StabilityMetrics.ClassStability[name] = entity.ClassStability{
			MeanIoU: entity.Defined(mean),
			StdIoU:  entity.Defined(std),
		}

		var failures int
		for _, v := range values {
			if v < LowIoUThreshold {
				failures++
			}
		}
		if rate := float64(failures) / float64(len(values)); rate > 0.5 {
			report.ProblematicClasses[name] = rate
		}
	}

	return report, nil
}

// meanStd возвращает среднее и стандартное отклонение генеральной совокупности.
// Для одного значения отклонение равно 0.
func meanStd(values []float64) (float64, float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	return stat.PopMeanStdDev(values, nil)
}

func definedScores(evals entity.DatasetEvaluation, className string) []float64 {
	values := make([]float64, 0, len(evals))
	for i := range evals {
		if iou, ok := evals[i].Score(className); ok && iou.Valid {
			values = append(values, iou.Value)
		}
	}
	return values
}

// classFrequency считает, в скольких эталонных масках встречается класс.
func classFrequency(evals entity.DatasetEvaluation) map[string]int {
	freq := make(map[string]int)
	for _, e := range evals {
		for _, d := range e.DistributionsGT {
			freq[d.ClassName]++
		}
	}
	return freq
}

// rank сортирует изображения по возрастанию mean IoU (устойчиво) и
// берёт первые и последние RankingSize.
func rank(evals entity.DatasetEvaluation) entity.PerformanceRanking {
	ranked := make([]entity.RankedImage, len(evals))
	for i, e := range evals {
		ranked[i] = entity.RankedImage{Image: e.ImageID, MeanIoU: e.MeanIoU}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].MeanIoU < ranked[j].MeanIoU })

	n := min(RankingSize, len(ranked))
	worst := make([]entity.RankedImage, n)
	best := make([]entity.RankedImage, n)
	copy(worst, ranked[:n])
	copy(best, ranked[len(ranked)-n:])
	return entity.PerformanceRanking{Worst5: worst, Best5: best}
}
