package port

import (
	"glulam-ndt/internal/domain/entity"
)

// DelaminationAnalyzer интерфейс анализатора расслоений по времени пролёта
type DelaminationAnalyzer interface {
	// DetectZones ищет зоны с повышенным TOF вдоль балки
	DetectZones(samples []entity.Sample, beam entity.BeamLength) (*entity.ThicknessAnalysis, error)

	// LocateLayers определяет глубину расслоения в сечении
	LocateLayers(layers []entity.LayerSample) (*entity.LayerAnalysis, error)
}
