package storage

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

func sampleReport() *entity.DatasetReport {
	return &entity.DatasetReport{
		Run: &entity.RunInfo{ID: "run-1", GeneratedAt: testTime},
		GlobalMetrics: entity.GlobalMetrics{
			MeanIoU:       0.6333333333333333,
			PixelAccuracy: 84.25,
			TotalImages:   3,
		},
		StabilityMetrics: entity.StabilityMetrics{
			StdIoU: 0.2054804667656325,
			ClassStability: map[string]entity.ClassStability{
				"Hat": {MeanIoU: entity.Defined(0.4), StdIoU: entity.Defined(0.1)},
			},
		},
		ClassFrequency:     map[string]int{"Background": 3, "Hat": 2},
		ProblematicClasses: map[string]float64{"Hat": 0.6},
		PerformanceRanking: entity.PerformanceRanking{
			Worst5: []entity.RankedImage{{Image: "mask_2.png", MeanIoU: 0.4}},
			Best5:  []entity.RankedImage{{Image: "mask_1.png", MeanIoU: 0.9}},
		},
		PerImageResults: entity.DatasetEvaluation{{
			ImageID: "mask_1.png",
			MeanIoU: 0.9,
			IoUScores: []entity.IoUScore{
				{ClassName: "Background", IoU: entity.Defined(1)},
				{ClassName: "Hat", IoU: entity.Defined(math.NaN())},
			},
			Accuracy:          90,
			DistributionsGT:   []entity.ClassDistribution{{ClassName: "Hat", ClassID: 1, PixelCount: 10, Percentage: 2.5}},
			DistributionsPred: []entity.ClassDistribution{},
		}},
	}
}

func TestReportFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset_evaluation_report.json")
	report := sampleReport()

	require.NoError(t, SaveReport(path, report))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), `"iou": null`), "undefined IoU must be written as null")
	require.False(t, strings.Contains(string(raw), "NaN"))

	got, err := LoadReport(path)
	require.NoError(t, err)

	if diff := cmp.Diff(report.GlobalMetrics, got.GlobalMetrics); diff != "" {
		t.Errorf("global_metrics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(report.ProblematicClasses, got.ProblematicClasses); diff != "" {
		t.Errorf("problematic_classes mismatch (-want +got):\n%s", diff)
	}
	hat, ok := got.PerImageResults[0].Score("Hat")
	require.True(t, ok)
	require.False(t, hat.Valid)
	require.True(t, got.Run.GeneratedAt.Equal(testTime))
	require.Equal(t, report.StabilityMetrics.ClassStability, got.StabilityMetrics.ClassStability)
}

func TestLoadReport_Missing(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "none.json"))
	require.ErrorIs(t, err, entity.ErrNotFound)
}
