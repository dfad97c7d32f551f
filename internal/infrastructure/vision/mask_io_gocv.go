//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"fashion-eval/internal/domain/entity"
)

// MaskIO читает и пишет маски через OpenCV.
type MaskIO struct{}

// NewMaskIO создаёт чтение/запись масок
func NewMaskIO() *MaskIO {
	return &MaskIO{}
}

// ReadMask читает файл в оттенках серого
func (m *MaskIO) ReadMask(path string) (*entity.LabelMask, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayscale)
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("failed to decode mask " + path)
	}

	return entity.NewLabelMask(mat.Cols(), mat.Rows(), mat.ToBytes())
}

// WriteMask сохраняет маску как 8-битное PNG
func (m *MaskIO) WriteMask(path string, mask *entity.LabelMask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	mat, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV8U, mask.Pix)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to write mask %s", path)
	}
	return nil
}
