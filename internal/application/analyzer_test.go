package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

func TestClassifyAccuracy(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     AccuracyTier
	}{
		{0, AccuracyLow},
		{69.99, AccuracyLow},
		{70, AccuracyCorrect},
		{84.99, AccuracyCorrect},
		{85, AccuracyGood},
		{94.99, AccuracyGood},
		{95, AccuracyExcellent},
		{100, AccuracyExcellent},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ClassifyAccuracy(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestClassifyIoU(t *testing.T) {
	require.Equal(t, IoUAbsent, ClassifyIoU(entity.Undefined()))
	require.Equal(t, IoULow, ClassifyIoU(entity.Defined(0.49)))
	require.Equal(t, IoUModerate, ClassifyIoU(entity.Defined(0.5)))
	require.Equal(t, IoUModerate, ClassifyIoU(entity.Defined(0.7499)))
	require.Equal(t, IoUGood, ClassifyIoU(entity.Defined(0.75)))
}

func TestClassifyProblem(t *testing.T) {
	require.Equal(t, DetectionProblem, ClassifyProblem(0.5))
	require.Equal(t, DetectionProblem, ClassifyProblem(0.999))
	require.Equal(t, SegmentationProblem, ClassifyProblem(1.0))
	require.Equal(t, SegmentationProblem, ClassifyProblem(2.0))
}

func TestAnalyzeImage_DetectionVsSegmentation(t *testing.T) {
	eval := &entity.SingleImageEvaluation{
		ImageID:  "mask_1.png",
		MeanIoU:  0.6,
		Accuracy: 80,
		IoUScores: []entity.IoUScore{
			{ClassName: "Background", IoU: entity.Defined(1)},
			{ClassName: "Hat", IoU: entity.Defined(0.3)},
			{ClassName: "Hair", IoU: entity.Defined(0.3)},
			{ClassName: "Sunglasses", IoU: entity.Undefined()},
			{ClassName: "Upper-clothes", IoU: entity.Defined(0.95)},
			{ClassName: "Skirt", IoU: entity.Defined(0.8)},
			{ClassName: "Pants", IoU: entity.Defined(0.6)},
		},
		DistributionsGT: []entity.ClassDistribution{
			{ClassName: "Background", ClassID: 0, PixelCount: 700, Percentage: 70},
			{ClassName: "Hat", ClassID: 1, PixelCount: 5, Percentage: 0.5},
			{ClassName: "Hair", ClassID: 2, PixelCount: 20, Percentage: 2.0},
			{ClassName: "Upper-clothes", ClassID: 4, PixelCount: 275, Percentage: 27.5},
		},
		DistributionsPred: []entity.ClassDistribution{
			{ClassName: "Hair", ClassID: 2, PixelCount: 8, Percentage: 0.8},
		},
	}

	f := AnalyzeImage(eval)

	require.Equal(t, AccuracyCorrect, f.AccuracyTier)
	require.Equal(t, []Diagnosis{
		{ClassName: "Hat", IoU: 0.3, GTShare: 0.5, PredShare: 0, Kind: DetectionProblem},
		{ClassName: "Hair", IoU: 0.3, GTShare: 2.0, PredShare: 0.8, Kind: SegmentationProblem},
	}, f.Diagnoses)

	require.Equal(t, PerformanceBuckets{Excellent: 1, Good: 1, Moderate: 1, Poor: 2}, f.Buckets)
	require.Equal(t, 5, f.Buckets.Total())

	require.Len(t, f.Classes, 6)
	require.Equal(t, "Hat", f.Classes[0].ClassName)
	require.Equal(t, IoUAbsent, f.Classes[2].Tier)
}

func TestAnalyzeImage_NoProblems(t *testing.T) {
	eval := &entity.SingleImageEvaluation{
		Accuracy:  99,
		IoUScores: []entity.IoUScore{{ClassName: "Hat", IoU: entity.Defined(1)}},
		DistributionsGT: []entity.ClassDistribution{
			{ClassName: "Hat", ClassID: 1, PixelCount: 1, Percentage: 0.1},
		},
	}

	f := AnalyzeImage(eval)
	require.Empty(t, f.Diagnoses)
	require.Equal(t, AccuracyExcellent, f.AccuracyTier)
}
