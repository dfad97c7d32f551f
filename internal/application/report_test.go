package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

type fakeReportStore struct {
	saved *entity.DatasetReport
}

func (s *fakeReportStore) Save(r *entity.DatasetReport) (string, error) {
	s.saved = r
	return "results/evaluation_results.json", nil
}

type fakeChartRenderer struct {
	paths port.ChartPaths
	err   error
}

func (c fakeChartRenderer) Render(*entity.DatasetReport, *entity.ClassMapping, string) (port.ChartPaths, error) {
	return c.paths, c.err
}

type fakeComposer struct {
	doc port.ReportDocument
}

func (c *fakeComposer) Compose(w io.Writer, doc port.ReportDocument) error {
	c.doc = doc
	_, err := io.WriteString(w, "# report\n")
	return err
}

type fakeRunRepository struct {
	runs []entity.RunRecord
}

func (r *fakeRunRepository) Save(_ context.Context, run entity.RunRecord) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepository) Latest(_ context.Context) (entity.RunRecord, bool, error) {
	if len(r.runs) == 0 {
		return entity.RunRecord{}, false, nil
	}
	return r.runs[len(r.runs)-1], true, nil
}

func (r *fakeRunRepository) List(_ context.Context, limit int) ([]entity.RunRecord, error) {
	return r.runs, nil
}

type fakeNotifier struct {
	path string
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, _ *entity.DatasetReport, reportPath string) error {
	n.path = reportPath
	return n.err
}

func sampleReport() *entity.DatasetReport {
	return &entity.DatasetReport{
		GlobalMetrics:    entity.GlobalMetrics{MeanIoU: 0.63, PixelAccuracy: 81, TotalImages: 3},
		StabilityMetrics: entity.StabilityMetrics{StdIoU: 0.2},
		PerformanceRanking: entity.PerformanceRanking{
			Worst5: []entity.RankedImage{{Image: "mask_2.png", MeanIoU: 0.4}, {Image: "mask_3.png", MeanIoU: 0.6}},
			Best5:  []entity.RankedImage{{Image: "mask_3.png", MeanIoU: 0.6}, {Image: "mask_1.png", MeanIoU: 0.9}},
		},
	}
}

type reportFixture struct {
	service  *ReportService
	composer *fakeComposer
	runs     *fakeRunRepository
	notifier *fakeNotifier
	store    *fakeReportStore
	dir      string
	results  string
}

func newReportFixture(t *testing.T, renderers ...port.ChartRenderer) reportFixture {
	t.Helper()
	root := t.TempDir()
	f := reportFixture{
		composer: &fakeComposer{},
		runs:     &fakeRunRepository{},
		notifier: &fakeNotifier{},
		store:    &fakeReportStore{},
		dir:      filepath.Join(root, "report"),
		results:  filepath.Join(root, "Real_Results"),
	}
	f.service = NewReportService(entity.DefaultClassMapping(), f.store, renderers, f.composer,
		f.runs, f.notifier, f.dir, f.results, zerolog.Nop())
	f.service.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestReportGenerate(t *testing.T) {
	f := newReportFixture(t,
		fakeChartRenderer{paths: port.ChartPaths{Performance: "performance_by_class.png", Stability: "s.png", Frequency: "f.png"}},
		fakeChartRenderer{paths: port.ChartPaths{Dashboard: "dashboard.html"}},
	)
	require.NoError(t, os.MkdirAll(f.results, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.results, "result_1.png"), []byte("png"), 0o644))

	report := sampleReport()
	path, err := f.service.Generate(context.Background(), report)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(f.dir, ReportFileName), path)

	require.NotNil(t, report.Run)
	require.NotEmpty(t, report.Run.ID)
	require.Same(t, report, f.store.saved)

	doc := f.composer.doc
	require.Equal(t, port.ChartPaths{
		Performance: "img/performance_by_class.png",
		Stability:   "img/s.png",
		Frequency:   "img/f.png",
		Dashboard:   "img/dashboard.html",
	}, doc.Charts)
	require.Nil(t, doc.Previous)

	require.Equal(t, port.Visual{Path: "img/best_result_1.png", Title: "Best segmentation (image 1)", Found: true}, doc.Best)
	require.Equal(t, port.Visual{Title: "Problematic segmentation (image 2)"}, doc.Worst)
	copied, err := os.ReadFile(filepath.Join(f.dir, "img", "best_result_1.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(copied))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# report\n", string(written))

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, report.Run.ID, f.runs.runs[0].ID)
	assert.Equal(t, 0.63, f.runs.runs[0].MeanIoU)
	assert.Equal(t, path, f.notifier.path)
}

func TestReportGenerate_ComparesWithPreviousRun(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.service.Generate(context.Background(), sampleReport())
	require.NoError(t, err)
	first := f.runs.runs[0]

	_, err = f.service.Generate(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotNil(t, f.composer.doc.Previous)
	require.Equal(t, first, *f.composer.doc.Previous)
	require.NotEqual(t, first.ID, f.runs.runs[1].ID)
}

func TestReportGenerate_NotifierFailureIsNotFatal(t *testing.T) {
	f := newReportFixture(t)
	f.notifier.err = errors.New("telegram is down")

	_, err := f.service.Generate(context.Background(), sampleReport())
	require.NoError(t, err)
	require.Len(t, f.runs.runs, 1)
}

func TestReportGenerate_ChartFailure(t *testing.T) {
	f := newReportFixture(t, fakeChartRenderer{err: errors.New("no font")})

	_, err := f.service.Generate(context.Background(), sampleReport())
	require.ErrorContains(t, err, "render charts")
	require.Empty(t, f.runs.runs)
}
