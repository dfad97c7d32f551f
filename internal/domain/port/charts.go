package port

import "fashion-eval/internal/domain/entity"

// ChartPaths имена файлов графиков внутри каталога изображений отчёта
type ChartPaths struct {
	Performance string
	Stability   string
	Frequency   string
	Dashboard   string // интерактивная HTML-страница, если есть
}

// ChartRenderer рисует графики по сводке набора данных
type ChartRenderer interface {
	// Render сохраняет графики в dir и возвращает имена файлов
	Render(report *entity.DatasetReport, classes *entity.ClassMapping, dir string) (ChartPaths, error)
}
