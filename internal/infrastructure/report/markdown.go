package report

import (
	"fmt"
	"sort"
	"strings"

	app "fashion-eval/internal/application"
	"fashion-eval/internal/domain/entity"
)

// Заглушки для отсутствующих данных
const (
	ImageNotFound    = "*Image not found*"
	DataNotAvailable = "*Data not available*"
)

// classRow строка таблицы классов
type classRow struct {
	name string
	mean float64
	std  float64
}

// splitClasses делит классы по среднему IoU: >= 0.9, >= 0.75, остальные.
// Порядок - по id класса.
func splitClasses(report *entity.DatasetReport, classes *entity.ClassMapping) (excellent, good, problematic []classRow) {
	for _, name := range classes.Names() {
		cs, ok := report.StabilityMetrics.ClassStability[name]
		if !ok || !cs.MeanIoU.Valid {
			continue
		}
		row := classRow{name: name, mean: cs.MeanIoU.Value, std: cs.StdIoU.Value}
		switch {
		case row.mean >= 0.9:
			excellent = append(excellent, row)
		case row.mean >= 0.75:
			good = append(good, row)
		default:
			problematic = append(problematic, row)
		}
	}
	return excellent, good, problematic
}

func classTable(rows []classRow) string {
	if len(rows) == 0 {
		return "*No class in this category*\n"
	}

	var b strings.Builder
	b.WriteString("| Class | Mean IoU | Std deviation | Stability |\n")
	b.WriteString("|-------|----------|---------------|-----------|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %.1f%% | ±%.1f%% | %s |\n", r.name, r.mean*100, r.std*100, classStability(r.std))
	}
	return b.String()
}

func classStability(std float64) string {
	switch {
	case std < 0.1:
		return "🟢 Stable"
	case std < 0.2:
		return "🟡 Variable"
	default:
		return "🔴 Unstable"
	}
}

// stabilityAnalysis вердикт по разбросу mean IoU между изображениями.
func stabilityAnalysis(std float64) string {
	level := "🔴 **Unstable**"
	switch {
	case std < 0.05:
		level = "🟢 **Very stable**"
	case std < 0.1:
		level = "🟡 **Moderately stable**"
	}
	return fmt.Sprintf("\nThe model is %s with a standard deviation of ±%.1f%%.\n\n"+
		"**Interpretation**: performance varies by ±%.1f%% on average between images.\n",
		level, std*100, std*100)
}

// warningAnalysis советы по проблемным классам, самые частые отказы первыми.
func warningAnalysis(problematic map[string]float64) string {
	if len(problematic) == 0 {
		return "*No particularly problematic class detected.*"
	}

	names := make([]string, 0, len(problematic))
	for name := range problematic {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := problematic[names[i]], problematic[names[j]]
		if ri != rj {
			return ri > rj
		}
		return names[i] < names[j]
	})

	lines := make([]string, 0, len(names))
	for _, name := range names {
		rate := problematic[name]
		switch {
		case rate > 0.8:
			lines = append(lines, fmt.Sprintf("- 🚨 **%s**: %.0f%% failures - urgent review", name, rate*100))
		case rate > 0.6:
			lines = append(lines, fmt.Sprintf("- ⚠️ **%s**: %.0f%% failures - improvement recommended", name, rate*100))
		default:
			lines = append(lines, fmt.Sprintf("- 💡 **%s**: %.0f%% failures - monitor", name, rate*100))
		}
	}
	return strings.Join(lines, "\n")
}

func imagesTable(images []entity.RankedImage) string {
	if len(images) == 0 {
		return "*No image in this category*\n"
	}

	var b strings.Builder
	b.WriteString("| Image | Mean IoU | Performance |\n")
	b.WriteString("|-------|----------|-------------|\n")
	for _, img := range images {
		perf := "🟢 Good"
		switch {
		case img.MeanIoU < 0.6:
			perf = "🔴 Low"
		case img.MeanIoU < 0.8:
			perf = "🟡 Medium"
		}
		fmt.Fprintf(&b, "| %s | %.1f%% | %s |\n", img.Image, img.MeanIoU*100, perf)
	}
	return b.String()
}

// worstImageAnalysis подробный разбор худшего изображения.
func worstImageAnalysis(eval *entity.SingleImageEvaluation) string {
	if eval == nil {
		return DataNotAvailable
	}
	f := app.AnalyzeImage(eval)

	var b strings.Builder
	b.WriteString("### 📊 Pixel accuracy\n\n")
	switch f.AccuracyTier {
	case app.AccuracyLow:
		fmt.Fprintf(&b, "⚠️ **Warning**: low accuracy (< 70%%): %.1f%%\n\n", f.Accuracy)
	case app.AccuracyCorrect:
		fmt.Fprintf(&b, "✅ Fair performance: %.1f%%\n\n", f.Accuracy)
	case app.AccuracyGood:
		fmt.Fprintf(&b, "🟢 **Good** performance: %.1f%%\n\n", f.Accuracy)
	default:
		fmt.Fprintf(&b, "🏆 **Excellent** performance: %.1f%%\n\n", f.Accuracy)
	}

	b.WriteString("### 🎯 Mean IoU\n\n")
	fmt.Fprintf(&b, "**Mean IoU**: %.1f%%\n\n", f.MeanIoU*100)
	b.WriteString("*💡 Reminder*: low IoU + small class = detection problem | low IoU + large class = segmentation problem\n\n")
	b.WriteString("**Per class**:\n")
	for _, c := range f.Classes {
		switch c.Tier {
		case app.IoUAbsent:
			fmt.Fprintf(&b, "- **%s**: absent from ground truth\n", c.ClassName)
		case app.IoULow:
			fmt.Fprintf(&b, "- 🔴 **%s**: %.1f%% (low)\n", c.ClassName, c.IoU.Value*100)
		case app.IoUModerate:
			fmt.Fprintf(&b, "- 🟡 **%s**: %.1f%% (moderate)\n", c.ClassName, c.IoU.Value*100)
		default:
			fmt.Fprintf(&b, "- 🟢 **%s**: %.1f%% (good)\n", c.ClassName, c.IoU.Value*100)
		}
	}
	b.WriteString("\n### 🔍 Distribution vs performance\n\n")

	if len(f.Diagnoses) == 0 {
		b.WriteString("*No major distribution problem detected.*\n\n")
	}
	for _, d := range f.Diagnoses {
		if d.Kind == app.DetectionProblem {
			fmt.Fprintf(&b, "- 🚨 **%s**: rare class (%.1f%% GT) with low IoU (%.1f%%) → detection problem\n",
				d.ClassName, d.GTShare, d.IoU*100)
		} else {
			fmt.Fprintf(&b, "- ⚠️ **%s**: frequent class (%.1f%% GT) but low IoU (%.1f%%) → segmentation problem\n",
				d.ClassName, d.GTShare, d.IoU*100)
		}
		fmt.Fprintf(&b, "  - Share in prediction: %.1f%%\n", d.PredShare)
	}
	if len(f.Diagnoses) > 0 {
		b.WriteString("\n")
	}

	total := f.Buckets.Total()
	b.WriteString("### 📈 Performance breakdown\n\n")
	fmt.Fprintf(&b, "- 🏆 **Excellent** (≥90%%): %d/%d classes\n", f.Buckets.Excellent, total)
	fmt.Fprintf(&b, "- 🟢 **Good** (75-90%%): %d/%d classes\n", f.Buckets.Good, total)
	fmt.Fprintf(&b, "- 🟡 **Moderate** (50-75%%): %d/%d classes\n", f.Buckets.Moderate, total)
	fmt.Fprintf(&b, "- 🔴 **Low** (<50%%): %d/%d classes\n", f.Buckets.Poor, total)
	return b.String()
}

// historyNote сравнение с предыдущим запуском
func historyNote(report *entity.DatasetReport, previous *entity.RunRecord) string {
	if previous == nil {
		return "*First recorded run, no history to compare with.*"
	}

	delta := (report.GlobalMetrics.MeanIoU - previous.MeanIoU) * 100
	trend := "➡️"
	switch {
	case delta > 0.05:
		trend = "📈"
	case delta < -0.05:
		trend = "📉"
	}
	when := previous.ID
	if !previous.GeneratedAt.IsZero() {
		when = previous.GeneratedAt.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s Mean IoU %+.1f points vs previous run (%s, %.1f%% on %d images).",
		trend, delta, when, previous.MeanIoU*100, previous.TotalImages)
}

// visualMarkdown картинка визуализации либо заглушка
func visualMarkdown(path, title string, found bool) string {
	if !found {
		if path == "" {
			return ImageNotFound
		}
		return path
	}
	return fmt.Sprintf("![%s](%s)", title, path)
}
