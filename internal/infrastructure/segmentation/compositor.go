package segmentation

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/png"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

// Compositor собирает маски отдельных меток в одну маску классов.
type Compositor struct {
	classes *entity.ClassMapping
	log     zerolog.Logger
}

// NewCompositor создаёт сборщик масок
func NewCompositor(classes *entity.ClassMapping, log zerolog.Logger) *Compositor {
	return &Compositor{
		classes: classes,
		log:     log.With().Str("component", "compositor").Logger(),
	}
}

// Compose рисует сначала все метки, кроме фона, затем фон. Фон очищает
// только пиксели, не занятые ни одной меткой.
func (c *Compositor) Compose(segments []port.LabelSegment, width, height int) (*entity.LabelMask, error) {
	pix := make([]uint8, width*height)
	claimed := make([]bool, width*height)

	for _, s := range segments {
		id, ok := c.classes.ID(s.Label)
		if !ok {
			c.log.Warn().Str("label", s.Label).Msg("unknown label, skipped")
			continue
		}
		if id == entity.BackgroundID {
			continue
		}
		on, err := decodeMask(s.Mask, width, height)
		if err != nil {
			return nil, errors.Wrapf(err, "label %s", s.Label)
		}
		for i, set := range on {
			if set {
				pix[i] = uint8(id)
				claimed[i] = true
			}
		}
	}

	for _, s := range segments {
		if s.Label != entity.BackgroundName {
			continue
		}
		on, err := decodeMask(s.Mask, width, height)
		if err != nil {
			return nil, errors.Wrapf(err, "label %s", s.Label)
		}
		for i, set := range on {
			if set && !claimed[i] {
				pix[i] = entity.BackgroundID
			}
		}
	}

	return entity.NewLabelMask(width, height, pix)
}

// decodeMask декодирует PNG из base64, приводит его к размеру снимка
// ближайшим соседом и возвращает ненулевые пиксели первого канала.
func decodeMask(encoded string, width, height int) ([]bool, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64 mask")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode mask image")
	}

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.NearestNeighbor)
		b = img.Bounds()
	}
	if b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("mask is %dx%d after resize, want %dx%d", b.Dx(), b.Dy(), width, height)
	}

	on := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			on[y*width+x] = r>>8 > 0
		}
	}
	return on, nil
}
