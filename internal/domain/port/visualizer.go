package port

import "fashion-eval/internal/domain/entity"

// ResultVisualizer строит картинку «фото | маска | наложение».
type ResultVisualizer interface {
	// SaveComparison сохраняет визуализацию маски поверх фото в outputPath
	SaveComparison(imagePath string, mask *entity.LabelMask, outputPath string) error
}
