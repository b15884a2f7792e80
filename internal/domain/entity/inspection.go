package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Inspection хранит ход одной проверки балки: измерения и результаты обоих анализов.
type Inspection struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Beam      BeamLength

	Samples   []Sample // измерения по толщине в порядке ввода
	Discarded int      // сколько строк отброшено при разборе

	Thickness    *ThicknessAnalysis
	SelectedZone int // номер зоны начиная с 1, 0 если зона не выбрана

	LayerValues [LayerGridSize]float64
	Layers      *LayerAnalysis
}

// NewInspection начинает проверку балки заданной длины
func NewInspection(beam BeamLength, now time.Time) *Inspection {
	return &Inspection{
		ID:        uuid.New(),
		CreatedAt: now,
		Beam:      beam,
	}
}

// AddSamples добавляет измерения. Прежние результаты становятся неактуальными.
func (i *Inspection) AddSamples(samples []Sample, discarded int) {
	i.Samples = append(i.Samples, samples...)
	i.Discarded += discarded
	i.Thickness = nil
	i.resetLayers()
}

// RemoveSample удаляет измерение с номером n (начиная с 1). Прежние результаты становятся неактуальными.
func (i *Inspection) RemoveSample(n int) error {
	if n < 1 || n > len(i.Samples) {
		return fmt.Errorf("%w: %d of %d", ErrSampleOutOfRange, n, len(i.Samples))
	}
	i.Samples = append(i.Samples[:n-1], i.Samples[n:]...)
	i.Thickness = nil
	i.resetLayers()
	return nil
}

// SetThickness сохраняет результат анализа по толщине и сбрасывает выбор зоны
func (i *Inspection) SetThickness(a *ThicknessAnalysis) {
	i.Thickness = a
	i.resetLayers()
}

// SelectZone выбирает зону для измерений по глубине
func (i *Inspection) SelectZone(n int) error {
	if i.Thickness == nil || len(i.Thickness.Zones) == 0 {
		return ErrNoZones
	}
	if n < 1 || n > len(i.Thickness.Zones) {
		return fmt.Errorf("%w: %d of %d", ErrZoneOutOfRange, n, len(i.Thickness.Zones))
	}
	i.SelectedZone = n
	i.Layers = nil
	return nil
}

// Zone возвращает выбранную зону
func (i *Inspection) Zone() (Zone, bool) {
	if i.Thickness == nil || i.SelectedZone < 1 || i.SelectedZone > len(i.Thickness.Zones) {
		return Zone{}, false
	}
	return i.Thickness.Zones[i.SelectedZone-1], true
}

// SetLayers сохраняет введённую сетку и результат анализа по глубине
func (i *Inspection) SetLayers(values [LayerGridSize]float64, a *LayerAnalysis) {
	i.LayerValues = values
	i.Layers = a
}

// Clone возвращает копию, которую можно менять независимо от оригинала.
// Результаты анализов после создания не меняются, поэтому указатели на них общие.
func (i *Inspection) Clone() *Inspection {
	c := *i
	c.Samples = append([]Sample(nil), i.Samples...)
	return &c
}

func (i *Inspection) resetLayers() {
	i.SelectedZone = 0
	i.LayerValues = [LayerGridSize]float64{}
	i.Layers = nil
}

// AttachmentKind способ отправки вложения пользователю
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photo"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment отрисованный отчёт: график, схема или HTML-страница.
type Attachment struct {
	Name    string
	Kind    AttachmentKind
	Caption string
	Data    []byte
}
