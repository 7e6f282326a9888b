package timetable

import "github.com/Freeeeeet/school_timetable/internal/model"

// SlotKey - структурный ключ слота: тип и порядковый номер среди слотов того же типа.
// По нему строка основного шаблона сопоставляется со слотом альтернативного.
type SlotKey struct {
	Type    model.SlotType
	Ordinal int
}

// Pattern - проиндексированная последовательность слотов одного шаблона
type Pattern struct {
	slots []model.TimeSlot
	keys  map[string]SlotKey
	byKey map[SlotKey]int
	byID  map[string]int
}

// NewPattern строит индексы один раз на шаблон
func NewPattern(slots []model.TimeSlot) *Pattern {
	p := &Pattern{
		slots: slots,
		keys:  make(map[string]SlotKey, len(slots)),
		byKey: make(map[SlotKey]int, len(slots)),
		byID:  make(map[string]int, len(slots)),
	}

	ordinals := make(map[model.SlotType]int)
	for i, s := range slots {
		ordinals[s.Type]++
		key := SlotKey{Type: s.Type, Ordinal: ordinals[s.Type]}
		p.keys[s.ID] = key
		p.byKey[key] = i
		p.byID[s.ID] = i
	}
	return p
}

func (p *Pattern) Slots() []model.TimeSlot {
	if p == nil {
		return nil
	}
	return p.slots
}

func (p *Pattern) Empty() bool {
	return p == nil || len(p.slots) == 0
}

// Slot ищет слот по id
func (p *Pattern) Slot(id string) (model.TimeSlot, bool) {
	if p == nil {
		return model.TimeSlot{}, false
	}
	i, ok := p.byID[id]
	if !ok {
		return model.TimeSlot{}, false
	}
	return p.slots[i], true
}

// Key возвращает структурный ключ слота
func (p *Pattern) Key(id string) (SlotKey, bool) {
	if p == nil {
		return SlotKey{}, false
	}
	k, ok := p.keys[id]
	return k, ok
}

// Lookup ищет слот по структурному ключу
func (p *Pattern) Lookup(key SlotKey) (model.TimeSlot, bool) {
	if p == nil {
		return model.TimeSlot{}, false
	}
	i, ok := p.byKey[key]
	if !ok {
		return model.TimeSlot{}, false
	}
	return p.slots[i], true
}

// Layout описывает, какой шаблон использует каждый день недели
type Layout struct {
	Primary       *Pattern
	Alternate     *Pattern
	days          []model.Weekday
	alternateDays map[model.Weekday]bool
}

// NewLayout собирает раскладку. Пустой days означает model.SchoolDays.
func NewLayout(primary, alternate []model.TimeSlot, days, alternateDays []model.Weekday) *Layout {
	if len(days) == 0 {
		days = model.SchoolDays
	}
	alt := make(map[model.Weekday]bool, len(alternateDays))
	for _, d := range alternateDays {
		alt[d] = true
	}
	return &Layout{
		Primary:       NewPattern(primary),
		Alternate:     NewPattern(alternate),
		days:          days,
		alternateDays: alt,
	}
}

// Days - дни сетки в порядке отображения
func (l *Layout) Days() []model.Weekday {
	return l.days
}

// UsesAlternate - день переопределён и альтернативный шаблон задан
func (l *Layout) UsesAlternate(day model.Weekday) bool {
	return l.alternateDays[day] && !l.Alternate.Empty()
}

// PrimaryDays - все дни сетки, работающие по основному шаблону
func (l *Layout) PrimaryDays() []model.Weekday {
	days := make([]model.Weekday, 0, len(l.days))
	for _, d := range l.days {
		if !l.UsesAlternate(d) {
			days = append(days, d)
		}
	}
	return days
}

// PatternFor возвращает шаблон дня
func (l *Layout) PatternFor(day model.Weekday) *Pattern {
	if l.UsesAlternate(day) {
		return l.Alternate
	}
	return l.Primary
}

// SlotIDs - идентификаторы слотов, допустимые для каждого дня недели
func (l *Layout) SlotIDs() map[model.Weekday][]string {
	out := make(map[model.Weekday][]string, len(model.AllWeekdays))
	for _, day := range model.AllWeekdays {
		slots := l.PatternFor(day).Slots()
		ids := make([]string, 0, len(slots))
		for _, slot := range slots {
			ids = append(ids, slot.ID)
		}
		out[day] = ids
	}
	return out
}

// Resolve сопоставляет строку основного шаблона со слотом дня.
// Для альтернативного дня без структурного совпадения возвращается сам слот строки
// и false: ячейка отображается как недоступная.
func (l *Layout) Resolve(row model.TimeSlot, day model.Weekday) (model.TimeSlot, bool) {
	if !l.UsesAlternate(day) {
		return row, true
	}
	key, ok := l.Primary.Key(row.ID)
	if !ok {
		return row, false
	}
	slot, ok := l.Alternate.Lookup(key)
	if !ok {
		return row, false
	}
	return slot, true
}
