// Package ultrasonic классифицирует расслоения клеёного бруса по времени пролёта ультразвука.
//
// Анализатор не хранит состояния: каждый вызов зависит только от входных данных,
// поэтому один экземпляр можно использовать из любого числа горутин.
package ultrasonic

import (
	"math"

	"glulam-ndt/internal/domain/port"
)

// Analyzer реализует оба этапа анализа: по толщине и по глубине.
type Analyzer struct{}

// NewAnalyzer создаёт анализатор
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// round2 округляет отношение до двух знаков после запятой.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Проверка реализации интерфейса
var _ port.DelaminationAnalyzer = (*Analyzer)(nil)
