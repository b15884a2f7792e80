package ultrasonic

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"glulam-ndt/internal/domain/entity"
)

// DetectZones ищет вдоль балки участки с повышенным временем пролёта.
//
// Базовый уровень считается только по внутренним точкам: у торцов измерения
// недостоверны. Входной срез не изменяется.
func (a *Analyzer) DetectZones(samples []entity.Sample, beam entity.BeamLength) (*entity.ThicknessAnalysis, error) {
	valid := make([]entity.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	if len(valid) < entity.MinThicknessSamples {
		return nil, fmt.Errorf("%w: got %d, need at least %d", entity.ErrInsufficientData, len(valid), entity.MinThicknessSamples)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Position < valid[j].Position
	})

	interior := interiorBounds(beam)
	tofs := make([]float64, 0, len(valid))
	for _, s := range valid {
		if interior.contains(s.Position) {
			tofs = append(tofs, s.TOF)
		}
	}
	if len(tofs) < entity.MinInteriorSamples {
		return nil, fmt.Errorf("%w: got %d between %.0f and %.0f inches, need at least %d",
			entity.ErrInsufficientInteriorData, len(tofs), interior.min, interior.max, entity.MinInteriorSamples)
	}

	mean, stdDev := stat.PopMeanStdDev(tofs, nil)

	zones := segmentZones(valid, interior, mean)
	for i := range zones {
		classifyZone(&zones[i], mean)
	}

	return &entity.ThicknessAnalysis{
		Zones:           zones,
		Thresholds:      entity.DefaultThresholds(),
		Mean:            mean,
		StdDev:          stdDev,
		HasDelamination: len(zones) > 0,
	}, nil
}

// bounds открытый интервал внутренней части балки
type bounds struct {
	min, max float64
}

func interiorBounds(beam entity.BeamLength) bounds {
	return bounds{
		min: entity.EdgeMarginInches,
		max: beam.Inches() - entity.EdgeMarginInches,
	}
}

func (b bounds) contains(position float64) bool {
	return position > b.min && position < b.max
}

// isElevated проверяет точку по абсолютному порогу и по превышению над средним.
func isElevated(tof, mean float64) bool {
	return tof > entity.SuspiciousTOF || tof > mean+entity.BaselineElevationMargin
}

// zoneBuilder накапливает открытую зону во время прохода по точкам.
type zoneBuilder struct {
	zone entity.Zone
	sum  float64
}

func newZoneBuilder(s entity.Sample) *zoneBuilder {
	return &zoneBuilder{
		zone: entity.Zone{
			Start:  s.Position,
			End:    s.Position,
			Points: []entity.Sample{s},
			MinTOF: s.TOF,
			MaxTOF: s.TOF,
			AvgTOF: s.TOF,
		},
		sum: s.TOF,
	}
}

func (b *zoneBuilder) add(s entity.Sample) {
	z := &b.zone
	z.End = s.Position
	z.Points = append(z.Points, s)
	z.MinTOF = min(z.MinTOF, s.TOF)
	z.MaxTOF = max(z.MaxTOF, s.TOF)
	b.sum += s.TOF
	z.AvgTOF = b.sum / float64(len(z.Points))
}

// segmentZones одним проходом слева направо делит балку на зоны.
// Точки у торцов пропускаются: они не открывают, не продлевают и не закрывают зону.
func segmentZones(sorted []entity.Sample, interior bounds, mean float64) []entity.Zone {
	var zones []entity.Zone
	var current *zoneBuilder

	for _, s := range sorted {
		if !interior.contains(s.Position) {
			continue
		}

		if !isElevated(s.TOF, mean) {
			if current != nil {
				zones = append(zones, current.zone)
				current = nil
			}
			continue
		}

		switch {
		case current == nil:
			current = newZoneBuilder(s)
		case s.Position-current.zone.End <= entity.ZoneMergeGapInches:
			current.add(s)
		default:
			zones = append(zones, current.zone)
			current = newZoneBuilder(s)
		}
	}

	if current != nil {
		zones = append(zones, current.zone)
	}
	return zones
}

// classifyZone заполняет рекомендацию, степень и уверенность зоны.
func classifyZone(z *entity.Zone, mean float64) {
	if needsMoreData(z.Span(), len(z.Points)) {
		interval := entity.SuggestedIntervalInches
		z.NeedsMoreData = true
		z.SuggestedInterval = &interval
	}

	rule := matchSeverity(*z)
	z.Confidence = rule.confidence
	z.Severity = rule.severity
	z.ElevationRatio = z.AvgTOF / mean
}

// needsMoreData сообщает, что редкие точки на широком участке не позволяют оценить границы дефекта.
func needsMoreData(span float64, points int) bool {
	return (points <= 2 && span > 6) || (span > 20 && points < 6)
}
