package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
)

// ProfilePlotter строит график TOF вдоль балки с порогами и найденными зонами.
type ProfilePlotter struct {
	Width  vg.Length
	Height vg.Length
}

// NewProfilePlotter создаёт плоттер с размером 10x5 дюймов.
func NewProfilePlotter() *ProfilePlotter {
	return &ProfilePlotter{
		Width:  10 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// Render возвращает PNG с профилем TOF.
func (p *ProfilePlotter) Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inspection.Samples) == 0 {
		return nil, errNoSamples
	}

	sorted := append([]entity.Sample(nil), inspection.Samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	pts := make(plotter.XYs, len(sorted))
	yMin, yMax := sorted[0].TOF, entity.DefiniteTOF
	for i, s := range sorted {
		pts[i] = plotter.XY{X: s.Position, Y: s.TOF}
		yMin = min(yMin, s.TOF)
		yMax = max(yMax, s.TOF)
	}
	yMin -= 10
	yMax += 10

	length := inspection.Beam.Inches()

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Beam %s: thickness-wise TOF", inspection.Beam)
	pl.X.Label.Text = "Position (in)"
	pl.Y.Label.Text = "TOF (us)"
	pl.X.Min = 0
	pl.X.Max = length
	pl.Y.Min = yMin
	pl.Y.Max = yMax
	pl.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("profile line: %w", err)
	}
	line.Color = textColor
	line.Width = vg.Points(1)
	points.GlyphStyle.Radius = vg.Points(2)
	pl.Add(line, points)
	pl.Legend.Add("TOF", line, points)

	thresholds := []struct {
		label string
		value float64
		color color.RGBA
	}{
		{"Suspicious", entity.SuspiciousTOF, severityColor(entity.SeverityMild)},
		{"Likely", entity.LikelyTOF, severityColor(entity.SeverityModerate)},
		{"Definite", entity.DefiniteTOF, severityColor(entity.SeveritySevere)},
	}
	for _, t := range thresholds {
		fn := horizontal(t.value, length)
		fn.Color = t.color
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		pl.Add(fn)
		pl.Legend.Add(fmt.Sprintf("%s %.0f", t.label, t.value), fn)
	}

	if a := inspection.Thickness; a != nil {
		baseline := horizontal(a.Mean, length)
		baseline.Color = beamBorder
		pl.Add(baseline)
		pl.Legend.Add(fmt.Sprintf("Baseline %.0f", a.Mean), baseline)

		for _, zone := range a.Zones {
			zonePts := make(plotter.XYs, len(zone.Points))
			for i, s := range zone.Points {
				zonePts[i] = plotter.XY{X: s.Position, Y: s.TOF}
			}
			sc, err := plotter.NewScatter(zonePts)
			if err != nil {
				return nil, fmt.Errorf("zone points: %w", err)
			}
			sc.GlyphStyle.Color = severityColor(zone.Severity)
			sc.GlyphStyle.Radius = vg.Points(5)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			pl.Add(sc)
		}
	}

	for _, x := range []float64{entity.EdgeMarginInches, length - entity.EdgeMarginInches} {
		edge, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
		if err != nil {
			return nil, fmt.Errorf("edge margin: %w", err)
		}
		edge.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
		edge.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		pl.Add(edge)
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	w, err := pl.WriterTo(p.Width, p.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	return &entity.Attachment{
		Name:    "profile-" + inspection.ID.String() + ".png",
		Kind:    entity.AttachmentPhoto,
		Caption: "Профиль TOF по длине балки",
		Data:    buf.Bytes(),
	}, nil
}

func horizontal(y, length float64) *plotter.Function {
	fn := plotter.NewFunction(func(float64) float64 { return y })
	fn.XMin = 0
	fn.XMax = length
	fn.Width = vg.Points(1)
	return fn
}

var _ port.ReportRenderer = (*ProfilePlotter)(nil)
