package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// SQLiteRunRepository история запусков в файле SQLite
type SQLiteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRunRepository открывает базу и создаёт таблицу при необходимости
func NewSQLiteRunRepository(path string) (*SQLiteRunRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS evaluation_runs (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			generated_at      TEXT NOT NULL,
			mean_iou          DOUBLE,
			std_iou           DOUBLE,
			pixel_accuracy    DOUBLE,
			total_images      BIGINT
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRunRepository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *SQLiteRunRepository) Close() error {
	return r.db.Close()
}

// Save сохраняет запись о запуске
func (r *SQLiteRunRepository) Save(ctx context.Context, run entity.RunRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO evaluation_runs (run_id, generated_at, mean_iou, std_iou, pixel_accuracy, total_images)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC().Format(time.RFC3339Nano),
		run.MeanIoU, run.StdIoU, run.PixelAccuracy, run.TotalImages,
	)
	return err
}

// Latest возвращает последний сохранённый запуск
func (r *SQLiteRunRepository) Latest(ctx context.Context) (entity.RunRecord, bool, error) {
	runs, err := r.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return entity.RunRecord{}, false, err
	}
	return runs[0], true, nil
}

// List возвращает до limit последних запусков, новые первыми
func (r *SQLiteRunRepository) List(ctx context.Context, limit int) ([]entity.RunRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, generated_at, mean_iou, std_iou, pixel_accuracy, total_images
		FROM evaluation_runs
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []entity.RunRecord
	for rows.Next() {
		var run entity.RunRecord
		var generatedAt string
		if err := rows.Scan(&run.ID, &generatedAt, &run.MeanIoU, &run.StdIoU, &run.PixelAccuracy, &run.TotalImages); err != nil {
			return nil, err
		}
		run.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse generated_at %q: %w", generatedAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

var _ port.RunRepository = (*SQLiteRunRepository)(nil)
