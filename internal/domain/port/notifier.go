package port

import (
	"context"

	"fashion-eval/internal/domain/entity"
)

// ReportNotifier интерфейс доставки готового отчёта
type ReportNotifier interface {
	// Notify отправляет краткую сводку и файл отчёта
	Notify(ctx context.Context, report *entity.DatasetReport, reportPath string) error
}
