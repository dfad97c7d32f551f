package port

import (
	"context"

	"fashion-eval/internal/domain/entity"
)

// RunRepository интерфейс хранилища истории запусков оценки
type RunRepository interface {
	// Save сохраняет запись о запуске
	Save(ctx context.Context, run entity.RunRecord) error

	// Latest возвращает последний сохранённый запуск; ok=false если истории нет
	Latest(ctx context.Context) (entity.RunRecord, bool, error)

	// List возвращает до limit последних запусков, новые первыми
	List(ctx context.Context, limit int) ([]entity.RunRecord, error)
}
