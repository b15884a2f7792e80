package entity

// Пороговые значения времени пролёта, мкс. Получены на реальных балках, не адаптивные.
const (
	SuspiciousTOF = 140.0
	LikelyTOF     = 150.0
	DefiniteTOF   = 170.0
)

const (
	EdgeMarginInches        = 10.0 // у торцов балки TOF недостоверен
	ZoneMergeGapInches      = 20.0 // максимальный разрыв внутри одной зоны
	BaselineElevationMargin = 10.0 // превышение над средним, мкс
	SuggestedIntervalInches = 2.0  // шаг дополнительных измерений

	MinThicknessSamples = 3
	MinInteriorSamples  = 3
)

// Confidence уверенность в наличии расслоения
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Severity степень расслоения в зоне
type Severity string

const (
	SeverityPossible Severity = "Possible"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Thresholds пороги, по которым классифицировались зоны
type Thresholds struct {
	Suspicious float64
	Likely     float64
	Definite   float64
}

// DefaultThresholds возвращает фиксированные пороги 140/150/170 мкс
func DefaultThresholds() Thresholds {
	return Thresholds{
		Suspicious: SuspiciousTOF,
		Likely:     LikelyTOF,
		Definite:   DefiniteTOF,
	}
}

// Zone непрерывный участок балки с повышенным временем пролёта
type Zone struct {
	Start  float64  // позиция первой точки, дюймы
	End    float64  // позиция последней точки, дюймы
	Points []Sample // точки зоны по возрастанию позиции

	MinTOF float64
	MaxTOF float64
	AvgTOF float64

	Confidence        Confidence
	Severity          Severity
	NeedsMoreData     bool
	SuggestedInterval *float64 // nil, если данных достаточно
	ElevationRatio    float64  // AvgTOF / базовое среднее
}

// Span возвращает протяжённость зоны в дюймах
func (z Zone) Span() float64 {
	return z.End - z.Start
}

// Contains сообщает, попадает ли позиция в границы зоны
func (z Zone) Contains(position float64) bool {
	return position >= z.Start && position <= z.End
}

// ThicknessAnalysis результат анализа измерений по толщине
type ThicknessAnalysis struct {
	Zones           []Zone
	Thresholds      Thresholds
	Mean            float64 // базовое среднее TOF внутренних точек
	StdDev          float64 // генеральное стандартное отклонение
	HasDelamination bool
}

// ZoneOf возвращает номер зоны (начиная с 1), в границы которой попадает позиция, или 0.
func (a *ThicknessAnalysis) ZoneOf(position float64) int {
	for i, z := range a.Zones {
		if z.Contains(position) {
			return i + 1
		}
	}
	return 0
}
