package entity

import "errors"

// Ошибки, которые вызывающий код различает через errors.Is.
var (
	// ErrNotFound файл, каталог или парная маска отсутствуют либо не читаются.
	ErrNotFound = errors.New("not found")

	// ErrInvalidMask значения пикселей вне диапазона известных классов.
	ErrInvalidMask = errors.New("invalid mask")

	// ErrShapeMismatch размеры эталонной и предсказанной масок различаются.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyDataset нечего агрегировать.
	ErrEmptyDataset = errors.New("empty dataset")
)
