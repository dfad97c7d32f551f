package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"fashion-eval/internal/domain/entity"
	"fashion-eval/internal/domain/port"
)

const (
	msgReportTitle  = "📊 Segmentation evaluation finished"
	msgNoProblems   = "✅ No problematic classes."
	msgProblemsHead = "⚠️ Problematic classes:"
)

// Notifier отправляет сводку и файл отчёта в Telegram-чат
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// NewNotifier авторизует бота по токену
func NewNotifier(token string, chatID int64, log zerolog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return NewNotifierWithAPI(api, chatID, log), nil
}

// NewNotifierWithAPI создаёт уведомитель поверх готового клиента
func NewNotifierWithAPI(api *tgbotapi.BotAPI, chatID int64, log zerolog.Logger) *Notifier {
	l := log.With().Str("component", "telegram").Logger()
	l.Info().Str("account", api.Self.UserName).Msg("authorized")
	return &Notifier{api: api, chatID: chatID, log: l}
}

// Notify отправляет краткую сводку, затем markdown-файл отчёта
func (n *Notifier) Notify(ctx context.Context, report *entity.DatasetReport, reportPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, Summary(report))); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	if reportPath == "" {
		return nil
	}
	doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FilePath(reportPath))
	if _, err := n.api.Send(doc); err != nil {
		return fmt.Errorf("send report file: %w", err)
	}

	n.log.Info().Int64("chat_id", n.chatID).Str("report", reportPath).Msg("report delivered")
	return nil
}

// Summary текст сообщения со сводкой запуска
func Summary(report *entity.DatasetReport) string {
	var b strings.Builder
	b.WriteString(msgReportTitle + "\n\n")
	if report.Run != nil {
		fmt.Fprintf(&b, "🆔 %s\n", report.Run.ID)
	}
	fmt.Fprintf(&b, "🖼 Images: %d\n", report.GlobalMetrics.TotalImages)
	fmt.Fprintf(&b, "🎯 Mean IoU: %.1f%%\n", report.GlobalMetrics.MeanIoU*100)
	fmt.Fprintf(&b, "✅ Pixel accuracy: %.1f%%\n", report.GlobalMetrics.PixelAccuracy)
	fmt.Fprintf(&b, "📈 Std IoU: ±%.1f%%\n", report.StabilityMetrics.StdIoU*100)

	if worst, ok := report.PerformanceRanking.Worst(); ok {
		fmt.Fprintf(&b, "🥉 Worst: %s (%.1f%%)\n", worst.Image, worst.MeanIoU*100)
	}
	if best, ok := report.PerformanceRanking.Best(); ok {
		fmt.Fprintf(&b, "🥇 Best: %s (%.1f%%)\n", best.Image, best.MeanIoU*100)
	}

	if len(report.ProblematicClasses) == 0 {
		b.WriteString("\n" + msgNoProblems)
		return b.String()
	}
	names := make([]string, 0, len(report.ProblematicClasses))
	for name := range report.ProblematicClasses {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("\n" + msgProblemsHead)
	for _, name := range names {
		fmt.Fprintf(&b, "\n• %s: %.0f%% failures", name, report.ProblematicClasses[name]*100)
	}
	return b.String()
}

var _ port.ReportNotifier = (*Notifier)(nil)
