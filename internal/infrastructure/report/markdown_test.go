package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

func TestStabilityAnalysis(t *testing.T) {
	assert.Contains(t, stabilityAnalysis(0.049), "Very stable")
	assert.Contains(t, stabilityAnalysis(0.05), "Moderately stable")
	assert.Contains(t, stabilityAnalysis(0.099), "Moderately stable")
	assert.Contains(t, stabilityAnalysis(0.1), "Unstable")
	assert.Contains(t, stabilityAnalysis(0.123), "±12.3%")
}

func TestWarningAnalysis(t *testing.T) {
	assert.Equal(t, "*No particularly problematic class detected.*", warningAnalysis(nil))

	got := warningAnalysis(map[string]float64{"Belt": 0.6, "Bag": 0.9, "Scarf": 0.7})
	assert.Equal(t, "- 🚨 **Bag**: 90% failures - urgent review\n"+
		"- ⚠️ **Scarf**: 70% failures - improvement recommended\n"+
		"- 💡 **Belt**: 60% failures - monitor", got)
}

func TestImagesTable(t *testing.T) {
	got := imagesTable([]entity.RankedImage{
		{Image: "mask_2.png", MeanIoU: 0.4},
		{Image: "mask_3.png", MeanIoU: 0.6},
		{Image: "mask_1.png", MeanIoU: 0.8},
	})
	assert.Contains(t, got, "| mask_2.png | 40.0% | 🔴 Low |")
	assert.Contains(t, got, "| mask_3.png | 60.0% | 🟡 Medium |")
	assert.Contains(t, got, "| mask_1.png | 80.0% | 🟢 Good |")
	assert.Equal(t, "*No image in this category*\n", imagesTable(nil))
}

func TestSplitClasses(t *testing.T) {
	report := &entity.DatasetReport{StabilityMetrics: entity.StabilityMetrics{ClassStability: map[string]entity.ClassStability{
		"Hat":  {MeanIoU: entity.Defined(0.9), StdIoU: entity.Defined(0.01)},
		"Hair": {MeanIoU: entity.Defined(0.75), StdIoU: entity.Defined(0.15)},
		"Bag":  {MeanIoU: entity.Defined(0.3), StdIoU: entity.Defined(0.25)},
	}}}

	excellent, good, problematic := splitClasses(report, entity.DefaultClassMapping())
	require.Equal(t, []classRow{{name: "Hat", mean: 0.9, std: 0.01}}, excellent)
	require.Equal(t, []classRow{{name: "Hair", mean: 0.75, std: 0.15}}, good)
	require.Equal(t, []classRow{{name: "Bag", mean: 0.3, std: 0.25}}, problematic)

	assert.Contains(t, classTable(good), "| Hair | 75.0% | ±15.0% | 🟡 Variable |")
	assert.Contains(t, classTable(problematic), "🔴 Unstable")
	assert.Equal(t, "*No class in this category*\n", classTable(nil))
}

func TestWorstImageAnalysis(t *testing.T) {
	assert.Equal(t, DataNotAvailable, worstImageAnalysis(nil))

	eval := &entity.SingleImageEvaluation{
		ImageID:  "mask_2.png",
		MeanIoU:  0.4,
		Accuracy: 65,
		IoUScores: []entity.IoUScore{
			{ClassName: "Background", IoU: entity.Defined(1)},
			{ClassName: "Hat", IoU: entity.Defined(0.3)},
			{ClassName: "Pants", IoU: entity.Defined(0.3)},
			{ClassName: "Bag", IoU: entity.Undefined()},
		},
		DistributionsGT: []entity.ClassDistribution{
			{ClassName: "Hat", ClassID: 1, PixelCount: 5, Percentage: 0.5},
			{ClassName: "Pants", ClassID: 6, PixelCount: 20, Percentage: 2},
		},
	}
	got := worstImageAnalysis(eval)
	assert.Contains(t, got, "low accuracy (< 70%): 65.0%")
	assert.Contains(t, got, "**Hat**: rare class (0.5% GT) with low IoU (30.0%) → detection problem")
	assert.Contains(t, got, "**Pants**: frequent class (2.0% GT) but low IoU (30.0%) → segmentation problem")
	assert.Contains(t, got, "- **Bag**: absent from ground truth")
	assert.Contains(t, got, "**Low** (<50%): 2/2 classes")
	assert.NotContains(t, got, "Background")
}

func TestHistoryNote(t *testing.T) {
	report := &entity.DatasetReport{GlobalMetrics: entity.GlobalMetrics{MeanIoU: 0.72}}
	assert.Contains(t, historyNote(report, nil), "First recorded run")

	prev := &entity.RunRecord{ID: "r1", GeneratedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC), MeanIoU: 0.70, TotalImages: 10}
	assert.Equal(t, "📈 Mean IoU +2.0 points vs previous run (2026-05-01 09:30, 70.0% on 10 images).", historyNote(report, prev))

	prev.MeanIoU = 0.72
	assert.Contains(t, historyNote(report, prev), "➡️ Mean IoU +0.0 points")
}
