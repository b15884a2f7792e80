package port

import "glulam-ndt/internal/domain/entity"

// AnalysisMetrics учитывает выполненные анализы
type AnalysisMetrics interface {
	ThicknessAnalyzed(result *entity.ThicknessAnalysis)
	LayersLocated(result *entity.LayerAnalysis)
	AnalysisRejected(stage string, err error)
}
