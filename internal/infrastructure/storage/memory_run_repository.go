package storage

import (
	"context"
	"sync"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// MemoryRunRepository in-memory история запусков
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs []entity.RunRecord
}

// NewMemoryRunRepository создаёт новое in-memory хранилище
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{}
}

// Save добавляет запуск в конец истории
func (r *MemoryRunRepository) Save(ctx context.Context, run entity.RunRecord) error {
	r.mu.Lock()
	r.runs = append(r.runs, run)
	r.mu.Unlock()

	return nil
}

// Latest возвращает последний сохранённый запуск
func (r *MemoryRunRepository) Latest(ctx context.Context) (entity.RunRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.runs) == 0 {
		return entity.RunRecord{}, false, nil
	}
	return r.runs[len(r.runs)-1], true, nil
}

// List возвращает до limit последних запусков, новые первыми
func (r *MemoryRunRepository) List(ctx context.Context, limit int) ([]entity.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.RunRecord, 0, min(limit, len(r.runs)))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.RunRepository = (*MemoryRunRepository)(nil)
