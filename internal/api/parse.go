package telegram

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"glulam-ndt/internal/domain/entity"
)

// emptyLayerToken отмечает незаполненную точку сетки
const emptyLayerToken = "-"

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ';'
	})
}

// ParseMeasurements разбирает строки вида "позиция tof".
// Пустые строки и строки-комментарии пропускаются, остальные нераспознанные строки считаются отброшенными.
func ParseMeasurements(text string) ([]entity.Sample, int) {
	var (
		samples   []entity.Sample
		discarded int
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		if len(fields) != 2 {
			discarded++
			continue
		}
		s, ok := entity.ParseSample(fields[0], fields[1])
		if !ok {
			discarded++
			continue
		}
		samples = append(samples, s)
	}
	return samples, discarded
}

// ParseZoneNumber разбирает номер зоны, допускается запись "#2"
func ParseZoneNumber(text string) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(text), "#")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", entity.ErrZoneOutOfRange, text)
	}
	return n, nil
}

// ParseMeasurementNumber разбирает номер измерения для удаления. Без номера выбирается последнее.
func ParseMeasurementNumber(args string, total int) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(args), "#")
	if v == "" {
		if total == 0 {
			return 0, fmt.Errorf("%w: no measurements", entity.ErrSampleOutOfRange)
		}
		return total, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", entity.ErrSampleOutOfRange, args)
	}
	if n < 1 || n > total {
		return 0, fmt.Errorf("%w: %d of %d", entity.ErrSampleOutOfRange, n, total)
	}
	return n, nil
}

// ParseLayerValues разбирает девять значений TOF по глубине в порядке сетки.
// "-" и "0" обозначают пустую точку.
func ParseLayerValues(text string) ([entity.LayerGridSize]float64, error) {
	var values [entity.LayerGridSize]float64

	fields := splitFields(strings.ReplaceAll(text, "\n", " "))
	if len(fields) != entity.LayerGridSize {
		return values, fmt.Errorf("%w: got %d values, need %d", entity.ErrInvalidLayerInput, len(fields), entity.LayerGridSize)
	}

	for i, f := range fields {
		if f == emptyLayerToken {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return values, fmt.Errorf("%w: value %d is %q", entity.ErrInvalidLayerInput, i+1, f)
		}
		values[i] = v
	}
	return values, nil
}
