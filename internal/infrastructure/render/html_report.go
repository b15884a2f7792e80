package render

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"glulam-ndt/internal/domain/entity"
	"glulam-ndt/internal/domain/port"
)

// HTMLReporter собирает интерактивный HTML-отчёт с графиками go-echarts.
type HTMLReporter struct {
	AssetsHost string // если пусто, ассеты по умолчанию
}

// NewHTMLReporter создаёт генератор HTML-отчёта. assetsHost задаёт адрес скриптов echarts.
func NewHTMLReporter(assetsHost string) *HTMLReporter {
	return &HTMLReporter{AssetsHost: assetsHost}
}

// Render строит страницу: профиль TOF, пики зон и, если есть, измерения по глубине.
func (r *HTMLReporter) Render(ctx context.Context, inspection *entity.Inspection) (*entity.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inspection.Samples) == 0 {
		return nil, errNoSamples
	}

	page := components.NewPage()
	page.PageTitle = "Glulam NDT " + inspection.ID.String()
	if r.AssetsHost != "" {
		page.SetAssetsHost(r.AssetsHost)
	}
	page.AddCharts(r.profileChart(inspection))

	if a := inspection.Thickness; a != nil && a.HasDelamination {
		page.AddCharts(r.zonesChart(a))
	}
	if inspection.Layers != nil {
		page.AddCharts(r.layersChart(inspection))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}

	return &entity.Attachment{
		Name:    "report-" + inspection.ID.String() + ".html",
		Kind:    entity.AttachmentDocument,
		Caption: "Интерактивный отчёт",
		Data:    buf.Bytes(),
	}, nil
}

func (r *HTMLReporter) profileChart(inspection *entity.Inspection) *charts.Line {
	sorted := append([]entity.Sample(nil), inspection.Samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	x := make([]string, len(sorted))
	tof := make([]opts.LineData, len(sorted))
	suspicious := make([]opts.LineData, len(sorted))
	for i, s := range sorted {
		x[i] = fmt.Sprintf("%g", s.Position)
		tof[i] = opts.LineData{Value: s.TOF}
		suspicious[i] = opts.LineData{Value: entity.SuspiciousTOF}
	}

	subtitle := fmt.Sprintf("beam=%s inspection=%s points=%d", inspection.Beam, inspection.ID, len(sorted))
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Glulam NDT", Width: "1000px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Thickness-wise TOF", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Position (in)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "TOF (us)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).
		AddSeries("TOF", tof).
		AddSeries("Suspicious threshold", suspicious)

	if a := inspection.Thickness; a != nil {
		baseline := make([]opts.LineData, len(sorted))
		for i := range sorted {
			baseline[i] = opts.LineData{Value: a.Mean}
		}
		line.AddSeries("Baseline", baseline)
	}
	return line
}

func (r *HTMLReporter) zonesChart(a *entity.ThicknessAnalysis) *charts.Bar {
	x := make([]string, len(a.Zones))
	peaks := make([]opts.BarData, len(a.Zones))
	for i, z := range a.Zones {
		x[i] = fmt.Sprintf("Zone %d (%.1f-%.1f)", i+1, z.Start, z.End)
		peaks[i] = opts.BarData{
			Value:     z.MaxTOF,
			Name:      string(z.Severity),
			ItemStyle: &opts.ItemStyle{Color: hexColor(severityColor(z.Severity))},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Zone peaks", Subtitle: fmt.Sprintf("baseline %.0f us, std %.1f us", a.Mean, a.StdDev)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("Peak TOF", peaks,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func (r *HTMLReporter) layersChart(inspection *entity.Inspection) *charts.Bar {
	layers := entity.NewLayerSamples(inspection.LayerValues)
	flagged := make(map[float64]bool, len(inspection.Layers.IdentifiedLayers))
	for _, l := range inspection.Layers.IdentifiedLayers {
		flagged[l.Depth] = true
	}

	x := make([]string, len(layers))
	values := make([]opts.BarData, len(layers))
	for i, l := range layers {
		x[i] = fmt.Sprintf("%s (%.1f)", l.LayerName, l.ActualDepth)
		c := beamBorder
		if flagged[l.ActualDepth] {
			c = severityColor(entity.SeveritySevere)
		}
		values[i] = opts.BarData{Value: l.Value, ItemStyle: &opts.ItemStyle{Color: hexColor(c)}}
	}

	subtitle := "selected cross-section"
	if zone, ok := inspection.Zone(); ok {
		subtitle = fmt.Sprintf("zone %d: %.1f-%.1f in", inspection.SelectedZone, zone.Start, zone.End)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Depth-wise TOF", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("TOF", values)
	return bar
}

var _ port.ReportRenderer = (*HTMLReporter)(nil)
