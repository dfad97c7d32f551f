package port

import (
	"io"

	"fashion-eval/internal/domain/entity"
)

// Visual копия визуализации результата рядом с отчётом
type Visual struct {
	Path  string // путь относительно отчёта либо текст-заглушка
	Title string
	Found bool
}

// ReportDocument всё, что нужно для сборки markdown-отчёта
type ReportDocument struct {
	Report   *entity.DatasetReport
	Classes  *entity.ClassMapping
	Charts   ChartPaths
	Best     Visual
	Worst    Visual
	Previous *entity.RunRecord // предыдущий запуск, если есть история
}

// ReportComposer интерфейс сборки текстового отчёта
type ReportComposer interface {
	// Compose заполняет шаблон и пишет отчёт в w
	Compose(w io.Writer, doc ReportDocument) error
}
