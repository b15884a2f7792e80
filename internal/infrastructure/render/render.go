// Package render отрисовывает результаты проверки: график TOF, схему балки и HTML-отчёт.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"glulam-ndt/internal/domain/entity"
)

var (
	// ErrRendererUnavailable возвращается, если бинарник собран без тега gocv.
	ErrRendererUnavailable = errors.New("gocv build tag is not enabled")

	errNoSamples   = errors.New("no thickness measurements to render")
	errNoThickness = errors.New("thickness analysis is not available")
)

var (
	beamFill   = color.RGBA{R: 254, G: 243, B: 199, A: 255}
	beamBorder = color.RGBA{R: 146, G: 64, B: 14, A: 255}
	textColor  = color.RGBA{R: 31, G: 41, B: 55, A: 255}
)

// severityColor цвет зоны на графиках: красный, оранжевый, жёлтый и синий по убыванию степени.
func severityColor(s entity.Severity) color.RGBA {
	switch s {
	case entity.SeveritySevere:
		return color.RGBA{R: 220, G: 38, B: 38, A: 255}
	case entity.SeverityModerate:
		return color.RGBA{R: 249, G: 115, B: 22, A: 255}
	case entity.SeverityMild:
		return color.RGBA{R: 250, G: 204, B: 21, A: 255}
	}
	return color.RGBA{R: 96, G: 165, B: 250, A: 255}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
