package observability

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"glulam-ndt/internal/domain/entity"
)

func TestPromMetrics_Thickness(t *testing.T) {
	m := NewPromMetrics(prometheus.NewRegistry())

	m.ThicknessAnalyzed(&entity.ThicknessAnalysis{
		Zones: []entity.Zone{
			{Severity: entity.SeveritySevere},
			{Severity: entity.SeverityMild},
			{Severity: entity.SeveritySevere},
		},
		HasDelamination: true,
	})
	m.ThicknessAnalyzed(&entity.ThicknessAnalysis{})

	require.Equal(t, 1.0, testutil.ToFloat64(m.thickness.WithLabelValues("yes")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.thickness.WithLabelValues("no")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.zones.WithLabelValues("Severe")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.zones.WithLabelValues("Mild")))
}

func TestPromMetrics_Layers(t *testing.T) {
	m := NewPromMetrics(prometheus.NewRegistry())

	m.LayersLocated(&entity.LayerAnalysis{
		IdentifiedLayers: []entity.IdentifiedLayer{
			{Confidence: entity.ConfidenceHigh},
			{Confidence: entity.ConfidenceMedium},
		},
		HasDelamination: true,
	})

	require.Equal(t, 1.0, testutil.ToFloat64(m.layers.WithLabelValues("yes")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.found.WithLabelValues("High")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.found.WithLabelValues("Medium")))
}

func TestPromMetrics_Rejected(t *testing.T) {
	m := NewPromMetrics(prometheus.NewRegistry())

	m.AnalysisRejected("thickness", fmt.Errorf("%w: got 1", entity.ErrInsufficientData))
	m.AnalysisRejected("thickness", entity.ErrInsufficientInteriorData)
	m.AnalysisRejected("layers", entity.ErrInsufficientLayerData)
	m.AnalysisRejected("layers", errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("thickness", "insufficient_data")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("thickness", "insufficient_interior_data")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("layers", "insufficient_layer_data")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("layers", "other")))
}

func TestNewPromMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPromMetrics(reg)
	require.Panics(t, func() { NewPromMetrics(reg) })
}
