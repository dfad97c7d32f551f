package vision

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"fashion-eval/internal/domain/entity"
)

// toLabelMask переводит изображение в сетку id: серый канал как есть,
// у цветного берётся красный канал.
func toLabelMask(img image.Image) (*entity.LabelMask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, w*h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				pix[y*w+x] = uint8(r >> 8)
			}
		}
	}
	return entity.NewLabelMask(w, h, pix)
}

func toGray(mask *entity.LabelMask) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))
	copy(g.Pix, mask.Pix)
	return g
}

// Colorize раскрашивает маску цветами классов; фон остаётся чёрным.
func Colorize(mask *entity.LabelMask, classes *entity.ClassMapping) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, mask.Width, mask.Height))
	for i, id := range mask.Pix {
		c, ok := classes.Color(int(id))
		if !ok {
			c = color.RGBA{A: 255}
		}
		o := i * 4
		out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = c.R, c.G, c.B, 255
	}
	return out
}

// fitMask приводит маску к размеру фото ближайшим соседом.
func fitMask(mask *entity.LabelMask, width, height int) *entity.LabelMask {
	if mask.Width == width && mask.Height == height {
		return mask
	}
	resized := resize.Resize(uint(width), uint(height), toGray(mask), resize.NearestNeighbor)
	out, _ := toLabelMask(resized)
	return out
}

// legendEntry строка легенды: цвет и подпись класса
type legendEntry struct {
	color color.RGBA
	label string
}

// legend перечисляет все классы; у фона белый квадрат.
func legend(classes *entity.ClassMapping) []legendEntry {
	entries := make([]legendEntry, 0, classes.Len())
	for id, name := range classes.Names() {
		c, ok := classes.Color(id)
		if !ok {
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		entries = append(entries, legendEntry{color: c, label: name})
	}
	return entries
}

// Параметры легенды в пикселях
const (
	legendX       = 10
	legendY       = 10
	legendBox     = 15
	legendSpacing = 5
)
