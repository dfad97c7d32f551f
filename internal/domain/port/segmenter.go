package port

import (
	"context"

	"fashion-eval/internal/domain/entity"
)

// LabelSegment результат удалённой модели для одной метки
type LabelSegment struct {
	Label string `json:"label"`
	Mask  string `json:"mask"` // PNG в base64
}

// Segmenter интерфейс удалённого сервиса сегментации
type Segmenter interface {
	// Segment отправляет байты изображения и возвращает маски по меткам
	Segment(ctx context.Context, imageData []byte) ([]LabelSegment, error)
}

// MaskCompositor собирает маски меток в одну маску классов
type MaskCompositor interface {
	// Compose рисует метки на холсте width x height
	Compose(segments []LabelSegment, width, height int) (*entity.LabelMask, error)
}
