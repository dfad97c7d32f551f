package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// MaskLoader читает маски с диска и проверяет диапазон классов.
type MaskLoader struct {
	reader  port.MaskReader
	classes *entity.ClassMapping
	log     zerolog.Logger
}

// NewMaskLoader создаёт загрузчик масок
func NewMaskLoader(reader port.MaskReader, classes *entity.ClassMapping, log zerolog.Logger) *MaskLoader {
	return &MaskLoader{
		reader:  reader,
		classes: classes,
		log:     log.With().Str("component", "mask_loader").Logger(),
	}
}

// Load возвращает маску по пути. ErrNotFound, если файла нет или он не
// читается; ErrInvalidMask, если есть пиксель вне [0, numClasses).
func (l *MaskLoader) Load(path string) (*entity.LabelMask, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: mask %s: %v", entity.ErrNotFound, path, err)
	}

	mask, err := l.reader.ReadMask(path)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidMask) {
			return nil, fmt.Errorf("mask %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: mask %s is unreadable: %v", entity.ErrNotFound, path, err)
	}

	if err := l.classes.Validate(mask); err != nil {
		return nil, fmt.Errorf("mask %s: %w", path, err)
	}

	l.log.Debug().Str("path", path).Ints("class_ids", mask.DistinctIDs()).Msg("mask loaded")
	return mask, nil
}
