package charts

import "fashion-eval/internal/domain/entity"

// Файлы графиков внутри каталога изображений отчёта
const (
	PerformanceFile = "performance_by_class.png"
	StabilityFile   = "performance_vs_stability.png"
	FrequencyFile   = "class_frequency.png"
	DashboardFile   = "dashboard.html"
)

// classPoint среднее и разброс IoU класса в процентах
type classPoint struct {
	name string
	mean float64
	std  float64
}

// classPoints возвращает классы со статистикой в порядке id, без фона.
func classPoints(report *entity.DatasetReport, classes *entity.ClassMapping) []classPoint {
	var points []classPoint
	for _, name := range classes.Names() {
		cs, ok := report.StabilityMetrics.ClassStability[name]
		if !ok || name == entity.BackgroundName || !cs.MeanIoU.Valid {
			continue
		}
		points = append(points, classPoint{name: name, mean: cs.MeanIoU.Value * 100, std: cs.StdIoU.Value * 100})
	}
	return points
}

// frequencyPoint доля изображений, где класс встречается в эталоне
type frequencyPoint struct {
	name  string
	share float64
}

func frequencyPoints(report *entity.DatasetReport, classes *entity.ClassMapping) []frequencyPoint {
	total := report.GlobalMetrics.TotalImages
	if total == 0 {
		return nil
	}
	var points []frequencyPoint
	for _, name := range classes.Names() {
		n, ok := report.ClassFrequency[name]
		if !ok || name == entity.BackgroundName {
			continue
		}
		points = append(points, frequencyPoint{name: name, share: float64(n) / float64(total) * 100})
	}
	return points
}

// tier раскладывает средний IoU (в процентах) по порогам 90 и 75.
func tier(mean float64) int {
	switch {
	case mean >= 90:
		return 0
	case mean >= 75:
		return 1
	default:
		return 2
	}
}
