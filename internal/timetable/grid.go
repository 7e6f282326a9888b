package timetable

import (
	"sort"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

// Grid - разреженная сетка назначений день -> слот -> (предмет, учитель).
// Не потокобезопасна: каждая сетка принадлежит одному запросу/сессии редактирования.
type Grid struct {
	layout *Layout
	mode   model.PropagationMode
	cells  map[model.Weekday]map[string]model.Assignment
}

func NewGrid(layout *Layout, mode model.PropagationMode) *Grid {
	return &Grid{
		layout: layout,
		mode:   mode,
		cells:  make(map[model.Weekday]map[string]model.Assignment),
	}
}

func (g *Grid) Mode() model.PropagationMode {
	return g.mode
}

func (g *Grid) SetMode(mode model.PropagationMode) {
	g.mode = mode
}

func (g *Grid) Layout() *Layout {
	return g.layout
}

// Load заполняет сетку сохранёнными записями как есть, без распространения.
// Неполные записи сохраняются, чтобы их можно было показать и отфильтровать при сохранении.
func (g *Grid) Load(entries []model.TimetableEntry) {
	for _, e := range entries {
		if e.SubjectID == "" && e.TeacherID == "" {
			continue
		}
		g.put(e.Day, e.SlotID, model.Assignment{SubjectID: e.SubjectID, TeacherID: e.TeacherID})
	}
}

// Get возвращает назначение ячейки
func (g *Grid) Get(day model.Weekday, slotID string) (model.Assignment, bool) {
	a, ok := g.cells[day][slotID]
	return a, ok
}

// Set записывает назначение. Если не задан предмет или учитель - работает как Clear.
// В режиме same-pattern правка основного дня применяется ко всем дням основного шаблона.
func (g *Grid) Set(day model.Weekday, slotID, subjectID, teacherID string) {
	a := model.Assignment{SubjectID: subjectID, TeacherID: teacherID}
	if !a.Complete() {
		g.Clear(day, slotID)
		return
	}
	for _, d := range g.targets(day) {
		g.put(d, slotID, a)
	}
}

// Clear удаляет назначение с тем же правилом распространения, что и Set
func (g *Grid) Clear(day model.Weekday, slotID string) {
	for _, d := range g.targets(day) {
		if cells, ok := g.cells[d]; ok {
			delete(cells, slotID)
			if len(cells) == 0 {
				delete(g.cells, d)
			}
		}
	}
}

// targets вычисляет список дней до любой записи, поэтому правка применяется целиком
func (g *Grid) targets(day model.Weekday) []model.Weekday {
	if g.mode != model.PropagationSamePattern || g.layout.UsesAlternate(day) {
		return []model.Weekday{day}
	}

	days := g.layout.PrimaryDays()
	for _, d := range days {
		if d == day {
			return days
		}
	}
	// день вне сетки правится только сам по себе
	return []model.Weekday{day}
}

func (g *Grid) put(day model.Weekday, slotID string, a model.Assignment) {
	cells, ok := g.cells[day]
	if !ok {
		cells = make(map[string]model.Assignment)
		g.cells[day] = cells
	}
	cells[slotID] = a
}

// FilledPeriods считает уроки дня с полным назначением
func (g *Grid) FilledPeriods(day model.Weekday) int {
	var n int
	for slotID, a := range g.cells[day] {
		if g.isPeriod(day, slotID) && a.Complete() {
			n++
		}
	}
	return n
}

// isPeriod - слот существует в шаблоне дня и это урок
func (g *Grid) isPeriod(day model.Weekday, slotID string) bool {
	slot, ok := g.layout.PatternFor(day).Slot(slotID)
	return ok && slot.Type == model.SlotTypePeriod
}

// Incomplete возвращает уроки, где задан только предмет или только учитель.
// Перемены и слоты, которых нет в текущей конфигурации, не учитываются.
func (g *Grid) Incomplete() []model.TimetableEntry {
	var out []model.TimetableEntry
	g.walk(func(day model.Weekday, slotID string, a model.Assignment) {
		if !g.isPeriod(day, slotID) {
			return
		}
		if !a.Complete() && (a.SubjectID != "" || a.TeacherID != "") {
			out = append(out, entry(day, slotID, a))
		}
	})
	return out
}

// Entries разворачивает сетку в плоский список для массового сохранения:
// только слоты типа PERIOD текущей конфигурации и только полные назначения.
// Назначения на несуществующие слоты (после смены конфигурации) отбрасываются.
func (g *Grid) Entries() []model.TimetableEntry {
	var out []model.TimetableEntry
	g.walk(func(day model.Weekday, slotID string, a model.Assignment) {
		if !g.isPeriod(day, slotID) || !a.Complete() {
			return
		}
		out = append(out, entry(day, slotID, a))
	})
	return out
}

// Snapshot - глубокая копия ячеек
func (g *Grid) Snapshot() map[model.Weekday]map[string]model.Assignment {
	out := make(map[model.Weekday]map[string]model.Assignment, len(g.cells))
	for d, cells := range g.cells {
		cp := make(map[string]model.Assignment, len(cells))
		for id, a := range cells {
			cp[id] = a
		}
		out[d] = cp
	}
	return out
}

// walk обходит ячейки детерминированно: по дням недели, затем по порядку слотов
func (g *Grid) walk(fn func(day model.Weekday, slotID string, a model.Assignment)) {
	for _, day := range model.AllWeekdays {
		cells, ok := g.cells[day]
		if !ok {
			continue
		}
		pattern := g.layout.PatternFor(day)

		ids := make([]string, 0, len(cells))
		for id := range cells {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			si, oki := pattern.Slot(ids[i])
			sj, okj := pattern.Slot(ids[j])
			if oki != okj {
				return oki
			}
			if oki && si.Order != sj.Order {
				return si.Order < sj.Order
			}
			return ids[i] < ids[j]
		})

		for _, id := range ids {
			fn(day, id, cells[id])
		}
	}
}

func entry(day model.Weekday, slotID string, a model.Assignment) model.TimetableEntry {
	return model.TimetableEntry{Day: day, SlotID: slotID, SubjectID: a.SubjectID, TeacherID: a.TeacherID}
}
