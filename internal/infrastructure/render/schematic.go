//go:build gocv
// +build gocv

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"gocv.io/x/gocv"

	"glulam-ndt/internal/domain/entity"
)

// SchematicRenderer рисует вид балки сбоку с зонами расслоения.
type SchematicRenderer struct {
	Width       int
	Height      int
	Margin      int
	BeamTop     int
	BeamHeight  int
	BorderWidth int
}

// NewSchematicRenderer создаёт рендерер схемы с размерами по умолчанию.
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

// Render рисует балку, зоны по степени расслоения и отметки длины.
func (r *SchematicRenderer) Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if inspection.Thickness == nil {
		return nil, errNoThickness
	}
	if !inspection.Beam.Valid() {
		return nil, fmt.Errorf("render schematic: %w", entity.ErrUnsupportedBeamLength)
	}

	white := gocv.NewScalar(255, 255, 255, 0)
	mat := gocv.NewMatWithSizeFromScalar(white, r.Height, r.Width, gocv.MatTypeCV8UC3)
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty canvas")
	}

	beamWidth := r.Width - 2*r.Margin
	length := inspection.Beam.Inches()
	toX := func(pos float64) int {
		return r.Margin + int(pos/length*float64(beamWidth))
	}

	beam := image.Rect(r.Margin, r.BeamTop, r.Margin+beamWidth, r.BeamTop+r.BeamHeight)
	gocv.Rectangle(&mat, beam, beamFill, -1)

	for i, zone := range inspection.Thickness.Zones {
		x0 := toX(zone.Start)
		x1 := max(toX(zone.End), x0+3)
		rect := image.Rect(x0, r.BeamTop, x1, r.BeamTop+r.BeamHeight)
		gocv.Rectangle(&mat, rect, severityColor(zone.Severity), -1)

		label := fmt.Sprintf("Z%d", i+1)
		gocv.PutText(&mat, label, image.Pt(x0+2, r.BeamTop+r.BeamHeight/2+5), gocv.FontHersheySimplex, 0.45, textColor, 1)
	}

	gocv.Rectangle(&mat, beam, beamBorder, r.BorderWidth)

	// Отметки 0, 1/4, 1/2, 3/4 и полной длины.
	for q := 0; q <= 4; q++ {
		pos := length * float64(q) / 4
		x := toX(pos)
		y := r.BeamTop + r.BeamHeight
		gocv.Line(&mat, image.Pt(x, y), image.Pt(x, y+8), beamBorder, 1)
		gocv.PutText(&mat, fmt.Sprintf("%.0f\"", pos), image.Pt(x-12, y+26), gocv.FontHersheySimplex, 0.45, textColor, 1)
	}

	edgeMarker := color.RGBA{R: 120, G: 120, B: 120, A: 255}
	for _, pos := range []float64{entity.EdgeMarginInches, length - entity.EdgeMarginInches} {
		x := toX(pos)
		gocv.Line(&mat, image.Pt(x, r.BeamTop-6), image.Pt(x, r.BeamTop), edgeMarker, 1)
	}

	title := fmt.Sprintf("%s beam, %d zone(s)", inspection.Beam, len(inspection.Thickness.Zones))
	gocv.PutText(&mat, title, image.Pt(r.Margin, r.BeamTop-18), gocv.FontHersheySimplex, 0.55, textColor, 1)

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &entity.Attachment{
		Name:    "beam-" + inspection.ID.String() + ".png",
		Kind:    entity.AttachmentPhoto,
		Caption: "Схема балки",
		Data:    buf.Bytes(),
	}, nil
}
