package port

import "fashion-eval/internal/domain/entity"

// ReportStore интерфейс хранилища итоговой сводки
type ReportStore interface {
	// Save сохраняет сводку и возвращает путь к артефакту
	Save(report *entity.DatasetReport) (string, error)
}
