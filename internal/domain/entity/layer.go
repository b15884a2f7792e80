package entity

import (
	"math"
	"strings"
)

const (
	LayerGridSize   = 9
	MinLayerSamples = 5

	DropCandidateRatio      = 1.2
	DropConfirmRatio        = 1.15
	DropHighConfidenceRatio = 1.3
	GlueLineElevationRatio  = 1.3

	GlueLinePrefix = "GL"
)

// LayerSlot точка сетки измерений по глубине сечения
type LayerSlot struct {
	DisplayDepth float64 // глубина, которую видит оператор, дюймы
	ActualDepth  float64 // фактическая глубина от поверхности, дюймы
	Name         string  // Mid-Lx для середины ламели, GLx для клеевого шва
}

// IsGlueLine сообщает, что точка лежит на клеевом шве
func (s LayerSlot) IsGlueLine() bool {
	return strings.HasPrefix(s.Name, GlueLinePrefix)
}

// Балка из 6 ламелей и 5 клеевых швов.
var layerGrid = [LayerGridSize]LayerSlot{
	{DisplayDepth: 1.4, ActualDepth: 0.7, Name: "Mid-L1"},
	{DisplayDepth: 2.1, ActualDepth: 1.4, Name: "GL1"},
	{DisplayDepth: 2.8, ActualDepth: 2.1, Name: "Mid-L2"},
	{DisplayDepth: 3.5, ActualDepth: 2.8, Name: "GL2"},
	{DisplayDepth: 4.2, ActualDepth: 3.5, Name: "Mid-L3"},
	{DisplayDepth: 4.9, ActualDepth: 4.2, Name: "GL3"},
	{DisplayDepth: 5.6, ActualDepth: 4.9, Name: "Mid-L4"},
	{DisplayDepth: 6.3, ActualDepth: 5.6, Name: "GL4"},
	{DisplayDepth: 7.0, ActualDepth: 6.3, Name: "Mid-L5"},
}

// LayerGrid возвращает копию неизменяемой сетки измерений
func LayerGrid() [LayerGridSize]LayerSlot {
	return layerGrid
}

// LayerSample заполненная точка сетки
type LayerSample struct {
	DisplayDepth float64
	ActualDepth  float64
	LayerName    string
	Value        float64 // TOF, мкс
}

// IsGlueLine сообщает, что точка лежит на клеевом шве
func (s LayerSample) IsGlueLine() bool {
	return strings.HasPrefix(s.LayerName, GlueLinePrefix)
}

// NewLayerSamples оставляет только заполненные точки сетки в исходном порядке.
// Ноль, как и в форме ввода, означает пустую ячейку.
func NewLayerSamples(values [LayerGridSize]float64) []LayerSample {
	samples := make([]LayerSample, 0, LayerGridSize)
	for i, v := range values {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		slot := layerGrid[i]
		samples = append(samples, LayerSample{
			DisplayDepth: slot.DisplayDepth,
			ActualDepth:  slot.ActualDepth,
			LayerName:    slot.Name,
			Value:        v,
		})
	}
	return samples
}

// IdentifiedLayer глубина, на которой найдено расслоение
type IdentifiedLayer struct {
	Depth          float64 // фактическая глубина
	DisplayDepth   float64
	LayerName      string
	Confidence     Confidence // Medium или High
	DropRatio      *float64   // только для падения TOF
	ElevationRatio *float64   // только для пика на клеевом шве
}

// LayerAnalysis результат анализа измерений по глубине
type LayerAnalysis struct {
	IdentifiedLayers []IdentifiedLayer
	HasDelamination  bool
}
