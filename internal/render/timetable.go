// Package render рисует недельное расписание класса в PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/timetable"
	"github.com/fogleman/gg"
)

// Константы размеров и отступов
const (
	headerHeight     = 90
	dayHeaderHeight  = 40
	leftLabelsWidth  = 150
	dayWidth         = 190
	periodRowHeight  = 64.0
	breakRowHeight   = 26.0
	footerHeight     = 20
	cellPadding      = 4.0
	cellBorderRadius = 6.0
	shadowOffset     = 2.0
	hatchStep        = 10.0
	maxCellTextLen   = 22
)

// Константы шрифтов
const (
	titleFontSize    = 26.0
	dayFontSize      = 18.0
	rowLabelFontSize = 14.0
	rowTimeFontSize  = 12.0
	cellTimeFontSize = 11.0
	subjectFontSize  = 15.0
	teacherFontSize  = 12.0
	breakFontSize    = 12.0
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 230}
	rowLabelColor   = color.RGBA{110, 115, 120, 230}
	gridLineColor   = color.NRGBA{150, 150, 150, 255}
	evenDayColor    = color.NRGBA{240, 240, 240, 255}
	oddDayColor     = color.NRGBA{228, 228, 228, 255}
	alternateDayBg  = color.NRGBA{255, 236, 210, 255}
	breakBandColor  = color.NRGBA{205, 214, 224, 255}
	unavailableBg   = color.NRGBA{190, 190, 190, 255}
	hatchColor      = color.NRGBA{160, 160, 160, 255}
	cellFilledColor = color.RGBA{133, 193, 85, 220}
	cellTextColor   = color.RGBA{20, 24, 28, 230}
	cellShadowColor = color.RGBA{0, 0, 0, 20}
)

// TimetableInput - всё, что нужно для отрисовки сетки класса
type TimetableInput struct {
	Title        string
	Layout       *timetable.Layout
	Entries      []model.TimetableEntry
	SubjectNames map[string]string // subjectID -> название
	TeacherNames map[string]string // teacherID -> имя
}

// Timetable рисует сетку: столбец на каждый день, строка на каждый слот основного шаблона.
// Дни альтернативного шаблона сопоставляются со строками через Layout.Resolve,
// ячейки без структурного совпадения заштрихованы.
func Timetable(in TimetableInput) ([]byte, error) {
	if in.Layout == nil || in.Layout.Primary.Empty() {
		return nil, fmt.Errorf("render timetable: no slots configured")
	}

	rows := in.Layout.Primary.Slots()
	days := in.Layout.Days()

	var gridHeight float64
	for _, row := range rows {
		gridHeight += rowHeight(row)
	}

	width := leftLabelsWidth + len(days)*dayWidth
	height := headerHeight + dayHeaderHeight + int(gridHeight) + footerHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()

	cells := indexEntries(in.Entries)

	drawHeader(dc, in.Title)
	drawRowLabels(dc, rows)
	for i, day := range days {
		x := float64(leftLabelsWidth + i*dayWidth)
		drawDayColumn(dc, in, day, i, x, rows, cells, gridHeight)
	}

	return encodeImage(dc)
}

func rowHeight(slot model.TimeSlot) float64 {
	if slot.Type.IsBreak() {
		return breakRowHeight
	}
	return periodRowHeight
}

func indexEntries(entries []model.TimetableEntry) map[model.Weekday]map[string]model.TimetableEntry {
	out := make(map[model.Weekday]map[string]model.TimetableEntry)
	for _, e := range entries {
		if out[e.Day] == nil {
			out[e.Day] = make(map[string]model.TimetableEntry)
		}
		out[e.Day][e.SlotID] = e
	}
	return out
}

// drawHeader рисует заголовок
func drawHeader(dc *gg.Context, title string) {
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, 20, float64(headerHeight)/2, 0, 0.5)
}

// drawRowLabels рисует колонку слева: название слота и время основного шаблона
func drawRowLabels(dc *gg.Context, rows []model.TimeSlot) {
	y := float64(headerHeight + dayHeaderHeight)
	for _, row := range rows {
		h := rowHeight(row)
		if row.Type.IsBreak() {
			loadFont(dc, rowTimeFontSize, FontStyleItalic)
			dc.SetColor(rowLabelColor)
			dc.DrawStringAnchored(row.Start.String(), float64(leftLabelsWidth)-10, y+h/2, 1, 0.5)
		} else {
			loadFont(dc, rowLabelFontSize, FontStyleMedium)
			dc.SetColor(textColor)
			dc.DrawStringAnchored(row.Label, float64(leftLabelsWidth)-10, y+h/2-8, 1, 0.5)

			loadFont(dc, rowTimeFontSize, FontStyleDefault)
			dc.SetColor(rowLabelColor)
			dc.DrawStringAnchored(row.Start.String()+"-"+row.End.String(), float64(leftLabelsWidth)-10, y+h/2+9, 1, 0.5)
		}
		y += h
	}
}

// drawDayColumn рисует фон, заголовок и ячейки одного дня
func drawDayColumn(dc *gg.Context, in TimetableInput, day model.Weekday, index int, x float64,
	rows []model.TimeSlot, cells map[model.Weekday]map[string]model.TimetableEntry, gridHeight float64) {

	top := float64(headerHeight + dayHeaderHeight)

	switch {
	case in.Layout.UsesAlternate(day):
		dc.SetColor(alternateDayBg)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, float64(headerHeight), dayWidth, float64(dayHeaderHeight)+gridHeight)
	dc.Fill()

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Short(), x+dayWidth/2, float64(headerHeight)+float64(dayHeaderHeight)/2, 0.5, 0.5)

	y := top
	for _, row := range rows {
		h := rowHeight(row)
		slot, ok := in.Layout.Resolve(row, day)

		switch {
		case !ok:
			drawUnavailable(dc, x, y, h)
		case slot.Type.IsBreak():
			drawBreak(dc, slot, x, y, h)
		default:
			entry, filled := cells[day][slot.ID]
			drawPeriod(dc, in, slot, entry, filled, in.Layout.UsesAlternate(day), x, y, h)
		}

		dc.SetLineWidth(0.3)
		dc.SetColor(gridLineColor)
		dc.DrawLine(x, y+h, x+dayWidth, y+h)
		dc.Stroke()

		y += h
	}
}

// drawUnavailable штрихует ячейку, которой нет в альтернативном шаблоне
func drawUnavailable(dc *gg.Context, x, y, h float64) {
	dc.SetColor(unavailableBg)
	dc.DrawRectangle(x, y, dayWidth, h)
	dc.Fill()

	dc.Push()
	dc.DrawRectangle(x, y, dayWidth, h)
	dc.Clip()
	dc.SetColor(hatchColor)
	dc.SetLineWidth(1)
	for off := -h; off < dayWidth; off += hatchStep {
		dc.DrawLine(x+off, y+h, x+off+h, y)
		dc.Stroke()
	}
	dc.ResetClip()
	dc.Pop()
}

// drawBreak рисует полосу перерыва
func drawBreak(dc *gg.Context, slot model.TimeSlot, x, y, h float64) {
	dc.SetColor(breakBandColor)
	dc.DrawRectangle(x, y, dayWidth, h)
	dc.Fill()

	loadFont(dc, breakFontSize, FontStyleItalic)
	dc.SetColor(rowLabelColor)
	dc.DrawStringAnchored(truncate(slot.Label), x+dayWidth/2, y+h/2, 0.5, 0.5)
}

// drawPeriod рисует урок: время слота, для заполненной ячейки - предмет и учителя
func drawPeriod(dc *gg.Context, in TimetableInput, slot model.TimeSlot, entry model.TimetableEntry, filled, alternate bool, x, y, h float64) {
	cx := x + cellPadding
	cy := y + cellPadding
	cw := float64(dayWidth) - cellPadding*2
	ch := h - cellPadding*2

	if filled {
		dc.SetColor(cellShadowColor)
		dc.DrawRoundedRectangle(cx+shadowOffset, cy+shadowOffset, cw, ch, cellBorderRadius)
		dc.Fill()

		dc.SetColor(cellFilledColor)
		dc.DrawRoundedRectangle(cx, cy, cw, ch, cellBorderRadius)
		dc.Fill()

		dc.SetColor(darkenColor(cellFilledColor, 0.8))
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(cx, cy, cw, ch, cellBorderRadius)
		dc.Stroke()
	}

	// Для альтернативного дня время может отличаться от строки, поэтому показываем его в ячейке
	if alternate || filled {
		loadFont(dc, cellTimeFontSize, FontStyleDefault)
		dc.SetColor(rowLabelColor)
		dc.DrawStringAnchored(slot.Start.String(), cx+cw-4, cy+10, 1, 0.5)
	}

	if !filled {
		return
	}

	loadFont(dc, subjectFontSize, FontStyleBold)
	dc.SetColor(cellTextColor)
	dc.DrawStringAnchored(truncate(nameOr(in.SubjectNames, entry.SubjectID)), cx+8, cy+ch/2-6, 0, 0.5)

	loadFont(dc, teacherFontSize, FontStyleDefault)
	dc.DrawStringAnchored(truncate(nameOr(in.TeacherNames, entry.TeacherID)), cx+8, cy+ch/2+12, 0, 0.5)
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellTextLen {
		return s
	}
	return string(r[:maxCellTextLen-3]) + "..."
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
