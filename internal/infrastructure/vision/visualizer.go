//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"fashion-eval/internal/domain/entity"
)

// Visualizer строит картинку «фото | маска | наложение» на чистом Go.
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
	photo, err := decodeImage(imagePath)
	if err != nil {
		return err
	}
	b := photo.Bounds()
	w, h := b.Dx(), b.Dy()
	mask = fitMask(mask, w, h)

	base := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(base, base.Bounds(), photo, b.Min, draw.Src)

	colored := Colorize(mask, v.classes)
	overlay := blend(base, colored, 0.7, 0.3)
	v.drawLegend(colored)
	v.drawLegend(overlay)

	out := image.NewRGBA(image.Rect(0, 0, 3*w, h))
	for i, part := range []*image.RGBA{base, colored, overlay} {
		draw.Draw(out, image.Rect(i*w, 0, (i+1)*w, h), part, image.Point{}, draw.Src)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", outputPath, err)
	}
	return f.Close()
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// blend смешивает два изображения одного размера: a*wa + b*wb.
func blend(a, b *image.RGBA, wa, wb float64) *image.RGBA {
	out := image.NewRGBA(a.Rect)
	for i := 0; i < len(a.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(a.Pix[i+c])*wa + float64(b.Pix[i+c])*wb
			if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v + 0.5)
		}
		out.Pix[i+3] = 255
	}
	return out
}

func (v *Visualizer) drawLegend(img *image.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	y := legendY
	for _, e := range legend(v.classes) {
		box := image.Rect(legendX, y, legendX+legendBox, y+legendBox)
		draw.Draw(img, box, image.NewUniform(e.color), image.Point{}, draw.Src)
		d.Dot = fixed.P(legendX+legendBox+legendSpacing, y+legendBox-2)
		d.DrawString(e.label)
		y += legendBox + legendSpacing
	}
}
