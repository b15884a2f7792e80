package telegram

import (
	"fmt"
	"strings"

	"glulam-ndt/internal/domain/entity"
)

var severityMarks = map[entity.Severity]string{
	entity.SeveritySevere:   "🔴",
	entity.SeverityModerate: "🟠",
	entity.SeverityMild:     "🟡",
	entity.SeverityPossible: "🔵",
}

// FormatBeamSpec описывает балку и базовый уровень TOF
func FormatBeamSpec(inspection *entity.Inspection) string {
	var b strings.Builder
	b.WriteString("📐 Параметры балки\n")
	fmt.Fprintf(&b, "Длина: %s (%.0f\")\n", inspection.Beam, inspection.Beam.Inches())
	b.WriteString("Конструкция: 6 ламелей, 5 клеевых швов\n")

	if a := inspection.Thickness; a != nil {
		fmt.Fprintf(&b, "Базовый TOF: %.0f мкс (±%.0f мкс)\n", a.Mean, a.StdDev)
		fmt.Fprintf(&b, "Пороги: подозрение >%.0f, вероятно ≥%.0f, точно ≥%.0f мкс\n",
			a.Thresholds.Suspicious, a.Thresholds.Likely, a.Thresholds.Definite)
	}
	return b.String()
}

// FormatThickness описывает найденные зоны расслоения
func FormatThickness(inspection *entity.Inspection) string {
	a := inspection.Thickness
	if a == nil {
		return "Анализ по толщине ещё не выполнен."
	}

	var b strings.Builder
	b.WriteString(FormatBeamSpec(inspection))
	b.WriteString("\n")

	if !a.HasDelamination {
		b.WriteString("✅ Расслоение не обнаружено. Все измерения в пределах нормы для клеёной балки.")
		return b.String()
	}

	fmt.Fprintf(&b, "⚠️ Обнаружено расслоение: зон %d\n", len(a.Zones))
	for i, z := range a.Zones {
		b.WriteString("\n")
		writeZone(&b, i+1, z, a.Mean)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeZone(b *strings.Builder, n int, z entity.Zone, mean float64) {
	fmt.Fprintf(b, "%s Зона %d: %s (уверенность %s)\n", severityMarks[z.Severity], n, z.Severity, z.Confidence)
	fmt.Fprintf(b, "• Расположение: %.1f\" - %.1f\" от торца\n", z.Start, z.End)
	fmt.Fprintf(b, "• Протяжённость: %.1f\", точек: %d\n", z.Span(), len(z.Points))
	fmt.Fprintf(b, "• TOF: %.0f - %.0f мкс (пик %.0f мкс)\n", z.MinTOF, z.MaxTOF, z.MaxTOF)
	fmt.Fprintf(b, "• Среднее в зоне: %.0f мкс (база %.0f мкс, x%.2f)\n", z.AvgTOF, mean, z.ElevationRatio)

	tofs := make([]string, len(z.Points))
	positions := make([]string, len(z.Points))
	for i, p := range z.Points {
		tofs[i] = fmt.Sprintf("%.0f", p.TOF)
		positions[i] = fmt.Sprintf("%.0f\"", p.Position)
	}
	fmt.Fprintf(b, "• Профиль: %s мкс\n", strings.Join(tofs, " → "))
	fmt.Fprintf(b, "• Позиции: %s\n", strings.Join(positions, ", "))

	if z.NeedsMoreData && z.SuggestedInterval != nil {
		fmt.Fprintf(b, "💡 Рекомендация: сделайте дополнительные измерения с шагом %.0f\", чтобы уточнить границы расслоения.\n", *z.SuggestedInterval)
	}
}

// FormatLayers описывает результат анализа по глубине
func FormatLayers(inspection *entity.Inspection) string {
	a := inspection.Layers
	if a == nil {
		return ""
	}

	var b strings.Builder
	if zone, ok := inspection.Zone(); ok {
		fmt.Fprintf(&b, "🔬 Анализ по глубине, зона %d (%.1f\" - %.1f\")\n", inspection.SelectedZone, zone.Start, zone.End)
	} else {
		b.WriteString("🔬 Анализ по глубине\n")
	}

	if !a.HasDelamination {
		b.WriteString("Глубину расслоения определить не удалось: выраженных изменений TOF по сечению нет.")
		return b.String()
	}

	for _, l := range a.IdentifiedLayers {
		fmt.Fprintf(&b, "• %s: глубина %.1f\" от поверхности, уверенность %s", l.LayerName, l.Depth, l.Confidence)
		switch {
		case l.DropRatio != nil:
			fmt.Fprintf(&b, " (падение TOF x%.2f)", *l.DropRatio)
		case l.ElevationRatio != nil:
			fmt.Fprintf(&b, " (пик на шве x%.2f)", *l.ElevationRatio)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatReport собирает полный текстовый отчёт по проверке
func FormatReport(inspection *entity.Inspection) string {
	parts := []string{fmt.Sprintf("📋 Проверка %s", inspection.ID)}
	if inspection.Discarded > 0 {
		parts[0] += fmt.Sprintf("\nОтброшено некорректных строк: %d", inspection.Discarded)
	}
	parts = append(parts, FormatThickness(inspection))
	if layers := FormatLayers(inspection); layers != "" {
		parts = append(parts, layers)
	}
	return strings.Join(parts, "\n\n")
}

// FormatLayerGrid подсказывает порядок ввода значений по глубине
func FormatLayerGrid() string {
	var b strings.Builder
	b.WriteString("Порядок точек (глубина на приборе → имя):\n")
	for i, slot := range entity.LayerGrid() {
		kind := "ламель"
		if slot.IsGlueLine() {
			kind = "клеевой шов"
		}
		fmt.Fprintf(&b, "%d. %.1f\" → %s (%s)\n", i+1, slot.DisplayDepth, slot.Name, kind)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatMeasurements перечисляет измерения по толщине с номерами для /remove
func FormatMeasurements(inspection *entity.Inspection) string {
	if len(inspection.Samples) == 0 {
		return "Измерений пока нет."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 Измерения (%d):\n", len(inspection.Samples))
	for i, s := range inspection.Samples {
		fmt.Fprintf(&b, "%d. %g\" %g мкс", i+1, s.Position, s.TOF)
		if a := inspection.Thickness; a != nil {
			if n := a.ZoneOf(s.Position); n > 0 {
				fmt.Fprintf(&b, " %s зона %d", severityMarks[a.Zones[n-1].Severity], n)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
