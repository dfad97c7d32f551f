package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// NullFloat число, которое может быть не определено (в JSON это null).
type NullFloat struct {
	Value float64
	Valid bool
}

// Defined создаёт определённое значение; NaN считается неопределённым.
func Defined(v float64) NullFloat {
	if math.IsNaN(v) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// Undefined создаёт неопределённое значение
func Undefined() NullFloat {
	return NullFloat{}
}

// Below истинно только для определённого значения меньше порога.
func (n NullFloat) Below(threshold float64) bool {
	return n.Valid && n.Value < threshold
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", n.Value)
}

// MarshalJSON пишет null для неопределённого значения
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON читает null как неопределённое значение
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Defined(v)
	return nil
}

// IoUScore IoU одного класса на одном изображении
type IoUScore struct {
	ClassName string    `json:"class_name"`
	IoU       NullFloat `json:"iou"`
}

// ClassDistribution доля пикселей класса в маске
type ClassDistribution struct {
	ClassName  string  `json:"class_name"`
	ClassID    int     `json:"class_id"`
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// WarningKind тип предупреждения по классу
type WarningKind string

const (
	WarningLowIoU        WarningKind = "low_iou"         // IoU определён и ниже 0.5
	WarningAbsentInTruth WarningKind = "absent_in_truth" // класс предсказан, но отсутствует в эталоне
)

// ClassWarning предупреждение, собранное при подсчёте IoU.
type ClassWarning struct {
	ClassID   int
	ClassName string
	Kind      WarningKind
	IoU       NullFloat
	Message   string
}

// IoUResult итог подсчёта IoU для пары масок
type IoUResult struct {
	MeanIoU  float64
	Scores   []IoUScore
	Warnings []ClassWarning
}

// SingleImageEvaluation метрики одной пары масок; не меняется после создания.
type SingleImageEvaluation struct {
	ImageID           string              `json:"image"`
	MeanIoU           float64             `json:"mean_iou"`
	IoUScores         []IoUScore          `json:"iou_scores"`
	Accuracy          float64             `json:"accuracy"`
	DistributionsGT   []ClassDistribution `json:"distributions_GT"`
	DistributionsPred []ClassDistribution `json:"distributions_Pred"`
}

// Score возвращает IoU класса по имени
func (e *SingleImageEvaluation) Score(className string) (NullFloat, bool) {
	for _, s := range e.IoUScores {
		if s.ClassName == className {
			return s.IoU, true
		}
	}
	return NullFloat{}, false
}

// GTShare возвращает долю класса в эталоне (0, если класса нет).
func (e *SingleImageEvaluation) GTShare(className string) float64 {
	return shareOf(e.DistributionsGT, className)
}

// PredShare возвращает долю класса в предсказании (0, если класса нет).
func (e *SingleImageEvaluation) PredShare(className string) float64 {
	return shareOf(e.DistributionsPred, className)
}

func shareOf(dists []ClassDistribution, className string) float64 {
	for _, d := range dists {
		if d.ClassName == className {
			return d.Percentage
		}
	}
	return 0
}

// DatasetEvaluation упорядоченный список оценок, по одной на пару масок.
type DatasetEvaluation []SingleImageEvaluation

// MaskPair пара файлов: эталон и предсказание с общим именем.
type MaskPair struct {
	GroundTruthPath string
	PredictedPath   string
	ImageID         string
}
