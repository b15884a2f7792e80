package ultrasonic

import (
	"fmt"

	"glulam-ndt/internal/domain/entity"
)

// LocateLayers определяет, на какой глубине сечения находится расслоение.
//
// Сначала ищутся резкие падения TOF между соседними точками, затем пики на клеевых
// швах относительно соседей. Пик на глубине, уже найденной по падению, не дублируется.
func (a *Analyzer) LocateLayers(layers []entity.LayerSample) (*entity.LayerAnalysis, error) {
	if len(layers) < entity.MinLayerSamples {
		return nil, fmt.Errorf("%w: got %d, need at least %d", entity.ErrInsufficientLayerData, len(layers), entity.MinLayerSamples)
	}

	identified := detectDrops(layers)
	identified = appendGlueLinePeaks(identified, layers)

	return &entity.LayerAnalysis{
		IdentifiedLayers: identified,
		HasDelamination:  len(identified) > 0,
	}, nil
}

// detectDrops отмечает точку перед резким падением TOF.
// Падение подтверждается, только если весь предшествующий участок в среднем выше.
func detectDrops(layers []entity.LayerSample) []entity.IdentifiedLayer {
	var found []entity.IdentifiedLayer
	sumBefore := layers[0].Value

	for i := 1; i < len(layers); i++ {
		prev := layers[i-1].Value
		curr := layers[i].Value
		avgBefore := sumBefore / float64(i)
		sumBefore += curr

		if curr == 0 || prev <= curr*entity.DropCandidateRatio {
			continue
		}
		if avgBefore <= curr*entity.DropConfirmRatio {
			continue
		}

		confidence := entity.ConfidenceMedium
		if prev > curr*entity.DropHighConfidenceRatio {
			confidence = entity.ConfidenceHigh
		}
		ratio := round2(prev / curr)

		l := layers[i-1]
		found = append(found, entity.IdentifiedLayer{
			Depth:        l.ActualDepth,
			DisplayDepth: l.DisplayDepth,
			LayerName:    l.LayerName,
			Confidence:   confidence,
			DropRatio:    &ratio,
		})
	}
	return found
}

// appendGlueLinePeaks отмечает клеевые швы, TOF которых заметно выше среднего по соседям.
func appendGlueLinePeaks(found []entity.IdentifiedLayer, layers []entity.LayerSample) []entity.IdentifiedLayer {
	for i := 1; i < len(layers)-1; i++ {
		l := layers[i]
		if !l.IsGlueLine() {
			continue
		}

		before, after := layers[i-1].Value, layers[i+1].Value
		if before == 0 || after == 0 {
			continue
		}
		avgAdjacent := (before + after) / 2
		if l.Value <= avgAdjacent*entity.GlueLineElevationRatio {
			continue
		}
		if hasDepth(found, l.ActualDepth) {
			continue
		}

		ratio := round2(l.Value / avgAdjacent)
		found = append(found, entity.IdentifiedLayer{
			Depth:          l.ActualDepth,
			DisplayDepth:   l.DisplayDepth,
			LayerName:      l.LayerName,
			Confidence:     entity.ConfidenceMedium,
			ElevationRatio: &ratio,
		})
	}
	return found
}

func hasDepth(found []entity.IdentifiedLayer, depth float64) bool {
	for _, f := range found {
		if f.Depth == depth {
			return true
		}
	}
	return false
}
