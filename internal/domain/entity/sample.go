package entity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupportedBeamLength возвращается для длины балки, которую анализатор не знает
var ErrUnsupportedBeamLength = errors.New("unsupported beam length")

// Sample одно измерение времени пролёта по толщине балки
type Sample struct {
	Position float64 // позиция вдоль балки, дюймы
	TOF      float64 // время пролёта, мкс
}

// ParseSample разбирает пару строк в измерение.
// Пустые и нечисловые значения отбрасываются, а не исправляются.
func ParseSample(position, tof string) (Sample, bool) {
	pos, ok := parseFinite(position)
	if !ok {
		return Sample{}, false
	}
	t, ok := parseFinite(tof)
	if !ok {
		return Sample{}, false
	}
	return Sample{Position: pos, TOF: t}, true
}

// Valid сообщает, что обе координаты измерения конечны
func (s Sample) Valid() bool {
	return isFinite(s.Position) && isFinite(s.TOF)
}

// BeamLength номинальная длина балки в дюймах
type BeamLength int

const (
	Beam8ft  BeamLength = 96  // 8 футов
	Beam12ft BeamLength = 144 // 12 футов
)

// ParseBeamLength понимает "8ft", "8 ft", "8", "96" и аналогичные варианты для 12 футов.
func ParseBeamLength(s string) (BeamLength, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "")
	v = strings.TrimSuffix(v, "ft")
	switch v {
	case "8", "96":
		return Beam8ft, nil
	case "12", "144":
		return Beam12ft, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBeamLength, s)
}

// Inches возвращает длину в дюймах
func (b BeamLength) Inches() float64 {
	return float64(b)
}

// Valid сообщает, что длина входит в список поддерживаемых
func (b BeamLength) Valid() bool {
	return b == Beam8ft || b == Beam12ft
}

func (b BeamLength) String() string {
	switch b {
	case Beam8ft:
		return "8ft"
	case Beam12ft:
		return "12ft"
	}
	return fmt.Sprintf("%din", int(b))
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
