//go:build !gocv
// +build !gocv

package render

import (
	"context"

	"glulam-ndt/internal/domain/entity"
)

// SchematicRenderer заглушка рендерера схемы (без OpenCV).
type SchematicRenderer struct {
	Width       int
	Height      int
	Margin      int
	BeamTop     int
	BeamHeight  int
	BorderWidth int
}

// NewSchematicRenderer создаёт рендерер-заглушку.
func NewSchematicRenderer() *SchematicRenderer {
	return &SchematicRenderer{
		Width:       960,
		Height:      220,
		Margin:      40,
		BeamTop:     50,
		BeamHeight:  90,
		BorderWidth: 2,
	}
}

// Render возвращает ошибку, если сборка без тега gocv.
func (r *SchematicRenderer) Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error) {
	_ = ctx
	_ = inspection
	return nil, ErrRendererUnavailable
}
