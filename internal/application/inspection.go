package app

import (
	"context"
	"errors"
	"log"
	"time"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
)

// Стадии анализа для метрик отказов.
const (
	StageThickness = "thickness"
	StageLayers    = "layers"
)

const defaultRenderTimeout = 10 * time.Second

type InspectionService struct {
	users         *UserService
	analyzer      port.DelaminationAnalyzer
	inspections   port.InspectionRepository
	metrics       port.AnalysisMetrics
	renderers     []port.ReportRenderer
	renderTimeout time.Duration
	now           func() time.Time
}

// NewInspectionService создаёт сервис, который ведёт проверку балки от ввода до отчёта.
// metrics может быть nil.
func NewInspectionService(
	users *UserService,
	analyzer port.DelaminationAnalyzer,
	inspections port.InspectionRepository,
	metrics port.AnalysisMetrics,
	renderTimeout time.Duration,
	renderers ...port.ReportRenderer,
) *InspectionService {
	if renderTimeout <= 0 {
		renderTimeout = defaultRenderTimeout
	}
	return &InspectionService{
		users:         users,
		analyzer:      analyzer,
		inspections:   inspections,
		metrics:       metrics,
		renderers:     renderers,
		renderTimeout: renderTimeout,
		now:           time.Now,
	}
}

// BeginInspection сбрасывает прежнюю проверку и ждёт выбора длины балки.
func (s *InspectionService) BeginInspection(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := s.inspections.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.BeginCheck(ctx, userID, chatID)
}

// SetBeamLength заводит новую проверку для балки выбранной длины.
func (s *InspectionService) SetBeamLength(ctx context.Context, userID, chatID int64, beam entity.BeamLength) (*entity.Inspection, error) {
	if !beam.Valid() {
		return nil, entity.ErrUnsupportedBeamLength
	}

	inspection := entity.NewInspection(beam, s.now())
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingMeasurements); err != nil {
		return nil, err
	}
	return inspection, nil
}

// AddMeasurements добавляет измерения по толщине. Уже полученные результаты сбрасываются.
func (s *InspectionService) AddMeasurements(ctx context.Context, userID, chatID int64, samples []entity.Sample, discarded int) (*entity.Inspection, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	inspection.AddSamples(samples, discarded)
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingMeasurements); err != nil {
		return nil, err
	}
	return inspection, nil
}

// ResumeMeasurements возвращает к вводу измерений по толщине, сохраняя уже введённые.
func (s *InspectionService) ResumeMeasurements(ctx context.Context, userID, chatID int64) (*entity.Inspection, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingMeasurements); err != nil {
		return nil, err
	}
	return inspection, nil
}

// RemoveMeasurement удаляет измерение с номером n и возвращает к вводу измерений.
func (s *InspectionService) RemoveMeasurement(ctx context.Context, userID, chatID int64, n int) (*entity.Inspection, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := inspection.RemoveSample(n); err != nil {
		return nil, err
	}
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingMeasurements); err != nil {
		return nil, err
	}
	return inspection, nil
}

// AnalyzeThickness ищет зоны расслоения по накопленным измерениям.
// При нехватке данных состояние не меняется, чтобы пользователь мог досыпать измерения.
func (s *InspectionService) AnalyzeThickness(ctx context.Context, userID, chatID int64) (*entity.Inspection, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.DetectZones(inspection.Samples, inspection.Beam)
	if err != nil {
		s.rejected(StageThickness, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ThicknessAnalyzed(result)
	}

	inspection.SetThickness(result)
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}

	next := entity.StateMainMenu
	if result.HasDelamination {
		next = entity.StateAwaitingZone
	}
	if _, err := s.users.SetState(ctx, userID, chatID, next); err != nil {
		return nil, err
	}
	return inspection, nil
}

// SelectZone выбирает зону, в сечении которой будут измерения по глубине.
func (s *InspectionService) SelectZone(ctx context.Context, userID, chatID int64, n int) (*entity.Inspection, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := inspection.SelectZone(n); err != nil {
		return nil, err
	}
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateAwaitingLayerValues); err != nil {
		return nil, err
	}
	return inspection, nil
}

// AnalyzeLayers определяет глубину расслоения по сетке из девяти значений.
func (s *InspectionService) AnalyzeLayers(ctx context.Context, userID, chatID int64, values [entity.LayerGridSize]float64) (*entity.Inspection, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := inspection.Zone(); !ok {
		return nil, entity.ErrZoneNotSelected
	}

	result, err := s.analyzer.LocateLayers(entity.NewLayerSamples(values))
	if err != nil {
		s.rejected(StageLayers, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.LayersLocated(result)
	}

	inspection.SetLayers(values, result)
	if err := s.inspections.Save(ctx, userID, inspection); err != nil {
		return nil, err
	}
	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
		return nil, err
	}
	return inspection, nil
}

// Finish завершает сценарий без измерений по глубине. Проверка остаётся доступной для отчёта.
func (s *InspectionService) Finish(ctx context.Context, userID, chatID int64) (*entity.Inspection, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Cancel(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return inspection, nil
}

// Cancel прерывает проверку и удаляет введённые данные.
func (s *InspectionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := s.inspections.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.Cancel(ctx, userID, chatID)
}

// Current возвращает текущую проверку пользователя
func (s *InspectionService) Current(ctx context.Context, userID int64) (*entity.Inspection, error) {
	return s.inspections.Get(ctx, userID)
}

// Report отрисовывает вложения по текущей проверке.
// Ошибки отдельных отрисовщиков пишутся в лог и не прерывают отчёт.
func (s *InspectionService) Report(ctx context.Context, userID int64) (*entity.Inspection, []*entity.Attachment, error) {
	inspection, err := s.inspections.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.renderTimeout)
	defer cancel()

	attachments := make([]*entity.Attachment, 0, len(s.renderers))
	for _, r := range s.renderers {
		att, err := r.Render(ctx, inspection)
		if err != nil {
			log.Printf("Render %T for inspection %s: %v", r, inspection.ID, err)
			continue
		}
		attachments = append(attachments, att)
	}
	return inspection, attachments, nil
}

func (s *InspectionService) rejected(stage string, err error) {
	if s.metrics != nil {
		s.metrics.AnalysisRejected(stage, err)
	}
}
