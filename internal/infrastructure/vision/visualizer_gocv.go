//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"fashion-eval/internal/domain/entity"
)

// Visualizer строит картинку «фото | маска | наложение» через OpenCV.
type Visualizer struct {
	classes *entity.ClassMapping
}

// NewVisualizer создаёт визуализатор
func NewVisualizer(classes *entity.ClassMapping) *Visualizer {
	return &Visualizer{classes: classes}
}

// SaveComparison раскрашивает маску, накладывает её на фото (0.7/0.3)
// и сохраняет три картинки в ряд.
func (v *Visualizer) SaveComparison(imagePath string, mask *entity.LabelMask, outputPath string) error {
	photo := gocv.IMRead(imagePath, gocv.IMReadColor)
	defer photo.Close()
	if photo.Empty() {
		return errors.New("failed to decode image " + imagePath)
	}
	mask = fitMask(mask, photo.Cols(), photo.Rows())

	colored, err := gocv.ImageToMatRGB(Colorize(mask, v.classes))
	if err != nil {
		return fmt.Errorf("colorize mask: %w", err)
	}
	defer colored.Close()

	overlay := gocv.NewMat()
	defer overlay.Close()
	gocv.AddWeighted(photo, 0.7, colored, 0.3, 0, &overlay)

	v.drawLegend(&colored)
	v.drawLegend(&overlay)

	left := gocv.NewMat()
	defer left.Close()
	gocv.Hconcat(photo, colored, &left)

	result := gocv.NewMat()
	defer result.Close()
	gocv.Hconcat(left, overlay, &result)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if !gocv.IMWrite(outputPath, result) {
		return fmt.Errorf("failed to write %s", outputPath)
	}
	return nil
}

func (v *Visualizer) drawLegend(mat *gocv.Mat) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	y := legendY
	for _, e := range legend(v.classes) {
		box := image.Rect(legendX, y, legendX+legendBox, y+legendBox)
		gocv.Rectangle(mat, box, e.color, -1)
		gocv.PutTextWithParams(mat, e.label, image.Pt(legendX+legendBox+legendSpacing, y+legendBox-2),
			gocv.FontHersheySimplex, 0.5, white, 1, gocv.LineAA, false)
		y += legendBox + legendSpacing
	}
}
