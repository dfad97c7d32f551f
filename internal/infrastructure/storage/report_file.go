package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// SaveReport пишет сводку в JSON с отступами; неопределённые значения - null.
func SaveReport(path string, report *entity.DatasetReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadReport читает сводку, сохранённую SaveReport
func LoadReport(path string) (*entity.DatasetReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: report %s", entity.ErrNotFound, path)
		}
		return nil, err
	}

	var report entity.DatasetReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &report, nil
}

// JSONReportStore сохраняет сводку в один JSON-файл
type JSONReportStore struct {
	path string
}

// NewJSONReportStore создаёт хранилище по пути к файлу
func NewJSONReportStore(path string) *JSONReportStore {
	return &JSONReportStore{path: path}
}

// Save перезаписывает файл сводки
func (s *JSONReportStore) Save(report *entity.DatasetReport) (string, error) {
	return s.path, SaveReport(s.path, report)
}

var _ port.ReportStore = (*JSONReportStore)(nil)
