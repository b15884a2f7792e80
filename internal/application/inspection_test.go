package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
	"glulam-ndt/internal/infrastructure/storage"
	"glulam-ndt/internal/infrastructure/ultrasonic"
)

type recordingMetrics struct {
	thickness int
	layers    int
	rejected  []string
}

func (m *recordingMetrics) ThicknessAnalyzed(*entity.ThicknessAnalysis) { m.thickness++ }
func (m *recordingMetrics) LayersLocated(*entity.LayerAnalysis)         { m.layers++ }
func (m *recordingMetrics) AnalysisRejected(stage string, _ error) {
	m.rejected = append(m.rejected, stage)
}

type stubRenderer struct {
	name string
	err  error
}

func (r stubRenderer) Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("render without deadline")
	}
	return &entity.Attachment{Name: r.name + "-" + inspection.ID.String(), Kind: entity.AttachmentDocument}, nil
}

func newTestService(metrics *recordingMetrics, renderers ...stubRenderer) (*InspectionService, *UserService) {
	users := NewUserService(storage.NewMemoryUserRepository())
	rs := make([]port.ReportRenderer, 0, len(renderers))
	for _, r := range renderers {
		rs = append(rs, r)
	}
	var m port.AnalysisMetrics
	if metrics != nil {
		m = metrics
	}
	svc := NewInspectionService(users, ultrasonic.NewAnalyzer(), storage.NewMemoryInspectionRepository(), m, time.Second, rs...)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, users
}

func severeSamples() []entity.Sample {
	return []entity.Sample{
		{Position: 5, TOF: 120},
		{Position: 20, TOF: 130},
		{Position: 30, TOF: 172},
		{Position: 40, TOF: 175},
		{Position: 50, TOF: 128},
		{Position: 130, TOF: 131},
	}
}

func TestInspectionService_FullWorkflow(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, users := newTestService(metrics)
	ctx := context.Background()

	user, err := svc.BeginInspection(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingBeamLength, user.State)

	inspection, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)
	require.Equal(t, entity.Beam12ft, inspection.Beam)
	require.Equal(t, 2024, inspection.CreatedAt.Year())

	inspection, err = svc.AddMeasurements(ctx, 1, 10, severeSamples(), 2)
	require.NoError(t, err)
	require.Len(t, inspection.Samples, 6)
	require.Equal(t, 2, inspection.Discarded)

	inspection, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, inspection.Thickness.HasDelamination)
	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingZone, user.State)

	inspection, err = svc.SelectZone(ctx, 1, 10, 1)
	require.NoError(t, err)
	require.Equal(t, 1, inspection.SelectedZone)
	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingLayerValues, user.State)

	values := [entity.LayerGridSize]float64{100, 98, 130, 95, 99, 101, 97, 100, 99}
	inspection, err = svc.AnalyzeLayers(ctx, 1, 10, values)
	require.NoError(t, err)
	require.True(t, inspection.Layers.HasDelamination)
	require.Equal(t, "Mid-L2", inspection.Layers.IdentifiedLayers[0].LayerName)
	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	require.Equal(t, 1, metrics.thickness)
	require.Equal(t, 1, metrics.layers)
	require.Empty(t, metrics.rejected)
}

func TestInspectionService_SetBeamLengthRejectsUnknown(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SetBeamLength(context.Background(), 1, 10, entity.BeamLength(100))
	require.ErrorIs(t, err, entity.ErrUnsupportedBeamLength)
}

func TestInspectionService_NoInspection(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.AddMeasurements(ctx, 1, 10, severeSamples(), 0)
	require.ErrorIs(t, err, entity.ErrNoInspection)

	_, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.ErrorIs(t, err, entity.ErrNoInspection)

	_, _, err = svc.Report(ctx, 1)
	require.ErrorIs(t, err, entity.ErrNoInspection)
}

func TestInspectionService_InsufficientDataKeepsState(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, users := newTestService(metrics)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam8ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples()[:2], 0)
	require.NoError(t, err)

	_, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.ErrorIs(t, err, entity.ErrInsufficientData)
	require.Equal(t, []string{StageThickness}, metrics.rejected)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingMeasurements, user.State)

	// После добавления измерений анализ проходит.
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples()[2:5], 0)
	require.NoError(t, err)
	inspection, err := svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, inspection.Thickness)
}

func TestInspectionService_NoDelaminationReturnsToMenu(t *testing.T) {
	svc, users := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam8ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, []entity.Sample{
		{Position: 20, TOF: 130}, {Position: 40, TOF: 131}, {Position: 60, TOF: 129},
	}, 0)
	require.NoError(t, err)

	inspection, err := svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, inspection.Thickness.HasDelamination)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = svc.SelectZone(ctx, 1, 10, 1)
	require.ErrorIs(t, err, entity.ErrNoZones)
}

func TestInspectionService_SelectZoneOutOfRange(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples(), 0)
	require.NoError(t, err)
	_, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.SelectZone(ctx, 1, 10, 2)
	require.ErrorIs(t, err, entity.ErrZoneOutOfRange)
	_, err = svc.SelectZone(ctx, 1, 10, 0)
	require.ErrorIs(t, err, entity.ErrZoneOutOfRange)
}

func TestInspectionService_AnalyzeLayersRequiresZone(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)

	_, err = svc.AnalyzeLayers(ctx, 1, 10, [entity.LayerGridSize]float64{100, 100, 100, 100, 100})
	require.ErrorIs(t, err, entity.ErrZoneNotSelected)
}

func TestInspectionService_AnalyzeLayersInsufficient(t *testing.T) {
	metrics := &recordingMetrics{}
	svc, users := newTestService(metrics)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples(), 0)
	require.NoError(t, err)
	_, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.SelectZone(ctx, 1, 10, 1)
	require.NoError(t, err)

	_, err = svc.AnalyzeLayers(ctx, 1, 10, [entity.LayerGridSize]float64{100, 0, 120, 0, 90})
	require.ErrorIs(t, err, entity.ErrInsufficientLayerData)
	require.Equal(t, []string{StageLayers}, metrics.rejected)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingLayerValues, user.State)
}

func TestInspectionService_FinishAndCancel(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)

	inspection, err := svc.Finish(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.Beam12ft, inspection.Beam)

	_, err = svc.Current(ctx, 1)
	require.NoError(t, err)

	user, err := svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	_, err = svc.Current(ctx, 1)
	require.ErrorIs(t, err, entity.ErrNoInspection)
}

func TestInspectionService_ReportSkipsFailedRenderers(t *testing.T) {
	svc, _ := newTestService(nil,
		stubRenderer{name: "profile"},
		stubRenderer{name: "schematic", err: errors.New("renderer unavailable")},
		stubRenderer{name: "html"},
	)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)

	inspection, attachments, err := svc.Report(ctx, 1)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	require.Equal(t, "profile-"+inspection.ID.String(), attachments[0].Name)
	require.Equal(t, "html-"+inspection.ID.String(), attachments[1].Name)
}

func TestInspectionService_ResumeMeasurementsAfterAnalysis(t *testing.T) {
	svc, users := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples(), 0)
	require.NoError(t, err)
	inspection, err := svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, inspection.Thickness.Zones[0].NeedsMoreData)

	inspection, err = svc.ResumeMeasurements(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, inspection.Samples, 6)
	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingMeasurements, user.State)

	// Дополнительные точки с шагом 2" внутри зоны.
	inspection, err = svc.AddMeasurements(ctx, 1, 10, []entity.Sample{
		{Position: 32, TOF: 173}, {Position: 34, TOF: 174}, {Position: 36, TOF: 176}, {Position: 38, TOF: 174},
	}, 0)
	require.NoError(t, err)
	require.Len(t, inspection.Samples, 10)

	inspection, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, inspection.Thickness.Zones, 1)
	require.Len(t, inspection.Thickness.Zones[0].Points, 6)
}

func TestInspectionService_ResumeMeasurementsWithoutInspection(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.ResumeMeasurements(context.Background(), 1, 10)
	require.ErrorIs(t, err, entity.ErrNoInspection)
}

func TestInspectionService_RemoveMeasurement(t *testing.T) {
	svc, users := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetBeamLength(ctx, 1, 10, entity.Beam12ft)
	require.NoError(t, err)
	_, err = svc.AddMeasurements(ctx, 1, 10, severeSamples(), 0)
	require.NoError(t, err)
	_, err = svc.AnalyzeThickness(ctx, 1, 10)
	require.NoError(t, err)

	// Ошибочная точка 30" удаляется, результаты анализа сбрасываются.
	inspection, err := svc.RemoveMeasurement(ctx, 1, 10, 3)
	require.NoError(t, err)
	require.Len(t, inspection.Samples, 5)
	require.Nil(t, inspection.Thickness)
	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingMeasurements, user.State)

	stored, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	require.NotContains(t, stored.Samples, entity.Sample{Position: 30, TOF: 172})

	_, err = svc.RemoveMeasurement(ctx, 1, 10, 6)
	require.ErrorIs(t, err, entity.ErrSampleOutOfRange)
}
