package port

import "fashion-eval/internal/domain/entity"

// MaskReader читает одноканальное изображение маски с диска
type MaskReader interface {
	// ReadMask декодирует файл в сетку id; диапазон значений не проверяет
	ReadMask(path string) (*entity.LabelMask, error)
}

// MaskWriter сохраняет маску как 8-битное PNG
type MaskWriter interface {
	WriteMask(path string, mask *entity.LabelMask) error
}
