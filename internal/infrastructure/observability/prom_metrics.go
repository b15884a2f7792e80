package observability

import (
	"errors"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
)

// PromMetrics считает выполненные анализы в Prometheus.
type PromMetrics struct {
	thickness *prometheus.CounterVec
	zones     *prometheus.CounterVec
	layers    *prometheus.CounterVec
	found     *prometheus.CounterVec
	rejected  *prometheus.CounterVec
}

// NewPromMetrics регистрирует счётчики в reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		thickness: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndt_thickness_analyses_total",
			Help: "Thickness-wise analyses completed, by outcome.",
		}, []string{"delamination"}),
		zones: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndt_zones_detected_total",
			Help: "Suspected delamination zones, by severity.",
		}, []string{"severity"}),
		layers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndt_layer_analyses_total",
			Help: "Depth-wise analyses completed, by outcome.",
		}, []string{"delamination"}),
		found: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndt_layers_identified_total",
			Help: "Identified delamination depths, by confidence.",
		}, []string{"confidence"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndt_analyses_rejected_total",
			Help: "Analyses refused because of insufficient input, by stage and reason.",
		}, []string{"stage", "reason"}),
	}

	reg.MustRegister(m.thickness, m.zones, m.layers, m.found, m.rejected)
	return m
}

// ThicknessAnalyzed учитывает анализ по толщине и найденные зоны
func (m *PromMetrics) ThicknessAnalyzed(result *entity.ThicknessAnalysis) {
	m.thickness.WithLabelValues(outcome(result.HasDelamination)).Inc()
	for _, z := range result.Zones {
		m.zones.WithLabelValues(string(z.Severity)).Inc()
	}
}

// LayersLocated учитывает анализ по глубине
func (m *PromMetrics) LayersLocated(result *entity.LayerAnalysis) {
	m.layers.WithLabelValues(outcome(result.HasDelamination)).Inc()
	for _, l := range result.IdentifiedLayers {
		m.found.WithLabelValues(string(l.Confidence)).Inc()
	}
}

// AnalysisRejected учитывает отказ в анализе из-за нехватки данных
func (m *PromMetrics) AnalysisRejected(stage string, err error) {
	r := reason(err)
	m.rejected.WithLabelValues(stage, r).Inc()
	if r == "other" {
		log.Printf("ERROR: %s analysis failed: %v", stage, err)
	}
}

func outcome(found bool) string {
	if found {
		return "yes"
	}
	return "no"
}

func reason(err error) string {
	switch {
	case errors.Is(err, entity.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, entity.ErrInsufficientInteriorData):
		return "insufficient_interior_data"
	case errors.Is(err, entity.ErrInsufficientLayerData):
		return "insufficient_layer_data"
	}
	return "other"
}

var _ port.AnalysisMetrics = (*PromMetrics)(nil)
