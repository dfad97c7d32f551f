//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"fashion-eval/internal/domain/entity"
)

// MaskIO читает и пишет маски через image/png (сборка без OpenCV).
type MaskIO struct{}

// NewMaskIO создаёт чтение/запись масок
func NewMaskIO() *MaskIO {
	return &MaskIO{}
}

// ReadMask декодирует PNG. Для многоканальных файлов берётся первый канал.
func (m *MaskIO) ReadMask(path string) (*entity.LabelMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toLabelMask(img)
}

// WriteMask сохраняет маску как 8-битное одноканальное PNG.
func (m *MaskIO) WriteMask(path string, mask *entity.LabelMask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, toGray(mask)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
