package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fashion-eval/internal/domain/entity"
)

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// IsImageFile сообщает, похоже ли имя файла на изображение
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// PairMasks сопоставляет предсказанные маски эталонным по одинаковому имени.
// Порядок пар - по имени файла. Нет эталона для предсказания - ErrNotFound.
func PairMasks(predictedNames, groundTruthNames []string, predDir, gtDir string) ([]entity.MaskPair, error) {
	truth := make(map[string]bool, len(groundTruthNames))
	for _, name := range groundTruthNames {
		truth[name] = true
	}

	names := make([]string, 0, len(predictedNames))
	for _, name := range predictedNames {
		if IsImageFile(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	pairs := make([]entity.MaskPair, 0, len(names))
	for _, name := range names {
		if !truth[name] {
			return nil, fmt.Errorf("%w: no ground truth mask for %s in %s", entity.ErrNotFound, name, gtDir)
		}
		pairs = append(pairs, entity.MaskPair{
			GroundTruthPath: filepath.Join(gtDir, name),
			PredictedPath:   filepath.Join(predDir, name),
			ImageID:         name,
		})
	}
	return pairs, nil
}

// ListImages возвращает имена файлов-изображений каталога по алфавиту.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s", entity.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// PairDirectories сопоставляет маски двух каталогов
func PairDirectories(predDir, gtDir string) ([]entity.MaskPair, error) {
	predicted, err := ListImages(predDir)
	if err != nil {
		return nil, err
	}
	truth, err := ListImages(gtDir)
	if err != nil {
		return nil, err
	}
	return PairMasks(predicted, truth, predDir, gtDir)
}

// ImageNumber извлекает цифры из имени файла: "mask_12.png" -> "12".
func ImageNumber(name string) string {
	var b strings.Builder
	for _, r := range filepath.Base(name) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResultFileName имя файла визуализации для изображения или маски
func ResultFileName(name string) string {
	return "result_" + ImageNumber(name) + ".png"
}

// MaskFileName имя файла маски для снимка: "image_3.jpg" -> "mask_3.png".
func MaskFileName(imageName string) string {
	base := strings.ReplaceAll(filepath.Base(imageName), "image", "mask")
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
