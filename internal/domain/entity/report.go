package entity

import "time"

// DatasetReport итоговая сводка по набору данных, сохраняется в JSON.
type DatasetReport struct {
	Run                *RunInfo           `json:"run,omitempty"`
	GlobalMetrics      GlobalMetrics      `json:"global_metrics"`
	StabilityMetrics   StabilityMetrics   `json:"stability_metrics"`
	ClassFrequency     map[string]int     `json:"class_frequency"`
	ProblematicClasses map[string]float64 `json:"problematic_classes"`
	PerformanceRanking PerformanceRanking `json:"performance_ranking"`
	PerImageResults    DatasetEvaluation  `json:"per_image_results"`
}

// RunInfo метаданные запуска оценки
type RunInfo struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GlobalMetrics средние значения по всем изображениям
type GlobalMetrics struct {
	MeanIoU       float64 `json:"mean_iou"`
	PixelAccuracy float64 `json:"pixel_accuracy"`
	TotalImages   int     `json:"total_images"`
}

// StabilityMetrics разброс IoU по набору
type StabilityMetrics struct {
	StdIoU         float64                   `json:"std_iou"`
	ClassStability map[string]ClassStability `json:"class_stability"`
}

// ClassStability среднее и стандартное отклонение IoU класса
type ClassStability struct {
	MeanIoU NullFloat `json:"mean_iou"`
	StdIoU  NullFloat `json:"std_iou"`
}

// PerformanceRanking худшие и лучшие изображения, по возрастанию mean IoU.
type PerformanceRanking struct {
	Worst5 []RankedImage `json:"worst_5"`
	Best5  []RankedImage `json:"best_5"`
}

// RankedImage элемент рейтинга
type RankedImage struct {
	Image   string  `json:"image"`
	MeanIoU float64 `json:"mean_iou"`
}

// Worst возвращает худшее изображение рейтинга
func (r PerformanceRanking) Worst() (RankedImage, bool) {
	if len(r.Worst5) == 0 {
		return RankedImage{}, false
	}
	return r.Worst5[0], true
}

// Best возвращает лучшее изображение рейтинга (последнее в best_5).
func (r PerformanceRanking) Best() (RankedImage, bool) {
	if len(r.Best5) == 0 {
		return RankedImage{}, false
	}
	return r.Best5[len(r.Best5)-1], true
}

// Image ищет результат изображения по идентификатору
func (r *DatasetReport) Image(id string) (*SingleImageEvaluation, bool) {
	for i := range r.PerImageResults {
		if r.PerImageResults[i].ImageID == id {
			return &r.PerImageResults[i], true
		}
	}
	return nil, false
}

// RunRecord краткая запись о запуске для истории
type RunRecord struct {
	ID            string
	GeneratedAt   time.Time
	MeanIoU       float64
	StdIoU        float64
	PixelAccuracy float64
	TotalImages   int
}

// NewRunRecord собирает запись истории из отчёта
func NewRunRecord(r *DatasetReport) RunRecord {
	rec := RunRecord{
		MeanIoU:       r.GlobalMetrics.MeanIoU,
		StdIoU:        r.StabilityMetrics.StdIoU,
		PixelAccuracy: r.GlobalMetrics.PixelAccuracy,
		TotalImages:   r.GlobalMetrics.TotalImages,
	}
	if r.Run != nil {
		rec.ID = r.Run.ID
		rec.GeneratedAt = r.Run.GeneratedAt
	}
	return rec
}
