package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

const okMessage = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`

// fakeTelegram минимальный Bot API: getMe, sendMessage, sendDocument.
type fakeTelegram struct {
	mu      sync.Mutex
	methods []string
	text    string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.mu.Lock()
	f.methods = append(f.methods, method)
	if method == "sendMessage" {
		_ = r.ParseForm()
		f.text = r.PostForm.Get("text")
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"eval","username":"eval_bot"}}`))
	case "sendMessage", "sendDocument":
		_, _ = w.Write([]byte(okMessage))
	default:
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func newTestNotifier(t *testing.T, fake *fakeTelegram) *Notifier {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	api, err := tgbotapi.NewBotAPIWithClient("test-token", server.URL+"/bot%s/%s", server.Client())
	require.NoError(t, err)
	return NewNotifierWithAPI(api, 42, zerolog.Nop())
}

func testReport() *entity.DatasetReport {
	return &entity.DatasetReport{
		Run:                &entity.RunInfo{ID: "run-1"},
		GlobalMetrics:      entity.GlobalMetrics{MeanIoU: 0.655, PixelAccuracy: 88.04, TotalImages: 12},
		StabilityMetrics:   entity.StabilityMetrics{StdIoU: 0.08},
		ProblematicClasses: map[string]float64{"Scarf": 0.75, "Belt": 0.6},
		PerformanceRanking: entity.PerformanceRanking{
			Worst5: []entity.RankedImage{{Image: "mask_4.png", MeanIoU: 0.31}},
			Best5:  []entity.RankedImage{{Image: "mask_9.png", MeanIoU: 0.97}},
		},
	}
}

func TestNotifier_Notify(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)

	reportPath := filepath.Join(t.TempDir(), "evaluation_report.md")
	require.NoError(t, os.WriteFile(reportPath, []byte("# report"), 0o644))

	require.NoError(t, n.Notify(context.Background(), testReport(), reportPath))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"getMe", "sendMessage", "sendDocument"}, fake.methods)
	assert.Contains(t, fake.text, "Mean IoU: 65.5%")
}

func TestNotifier_Cancelled(t *testing.T) {
	n := newTestNotifier(t, &fakeTelegram{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.Notify(ctx, testReport(), ""), context.Canceled)
}

func TestSummary(t *testing.T) {
	got := Summary(testReport())
	assert.Contains(t, got, "🆔 run-1")
	assert.Contains(t, got, "🖼 Images: 12")
	assert.Contains(t, got, "✅ Pixel accuracy: 88.0%")
	assert.Contains(t, got, "🥉 Worst: mask_4.png (31.0%)")
	assert.Contains(t, got, "🥇 Best: mask_9.png (97.0%)")
	assert.True(t, strings.HasSuffix(got, "• Belt: 60% failures\n• Scarf: 75% failures"))

	r := testReport()
	r.ProblematicClasses = nil
	assert.Contains(t, Summary(r), msgNoProblems)
}
