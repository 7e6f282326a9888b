package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotType string

const (
	SlotTypePeriod     SlotType = "PERIOD"
	SlotTypeShortBreak SlotType = "SHORT_BREAK"
	SlotTypeLunchBreak SlotType = "LUNCH_BREAK"
	SlotTypePrayer     SlotType = "PRAYER"
	SlotTypeOther      SlotType = "OTHER"
)

// AlternateOrderBase - порядок слотов альтернативного шаблона (например, суббота) начинается с 1000
const AlternateOrderBase = 1000

// IsBreak возвращает true для любого типа перерыва
func (t SlotType) IsBreak() bool {
	return t != SlotTypePeriod
}

// Valid проверяет что тип известен
func (t SlotType) Valid() bool {
	switch t {
	case SlotTypePeriod, SlotTypeShortBreak, SlotTypeLunchBreak, SlotTypePrayer, SlotTypeOther:
		return true
	}
	return false
}

// TimeSlot - один атомарный интервал учебного дня (урок или перерыв)
type TimeSlot struct {
	ID    string   `json:"id"`
	Type  SlotType `json:"type"`
	Label string   `json:"label"`
	Start Clock    `json:"start"`
	End   Clock    `json:"end"`
	Order int      `json:"slotOrder"`
}

// IsAlternate - слот принадлежит альтернативному шаблону
func (s TimeSlot) IsAlternate() bool {
	return s.Order >= AlternateOrderBase
}

// Break - перерыв после урока AfterPeriod
type Break struct {
	AfterPeriod     int      `json:"afterPeriod" validate:"min=1"`
	Label           string   `json:"label"`
	DurationMinutes int      `json:"durationMinutes" validate:"min=1"`
	Type            SlotType `json:"type"`
}

// DaySchedule - конфигурация учебного дня, из которой генерируются слоты
type DaySchedule struct {
	StartTime      Clock   `json:"startTime"`
	EndTime        *Clock  `json:"endTime,omitempty"`
	PeriodDuration int     `json:"periodDuration" validate:"min=1"`
	TotalPeriods   int     `json:"totalPeriods" validate:"min=1"`
	Breaks         []Break `json:"breaks" validate:"dive"`
}

// TimetableConfig - пара шаблонов дня для учебного года
type TimetableConfig struct {
	AcademicYearID uuid.UUID    `json:"academicYearId"`
	Primary        DaySchedule  `json:"primary"`
	Alternate      *DaySchedule `json:"alternate,omitempty"`
	AlternateDays  []Weekday    `json:"alternateDays"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// PropagationMode - режим распространения правок по дням недели
type PropagationMode string

const (
	PropagationUnset       PropagationMode = ""
	PropagationSamePattern PropagationMode = "same-pattern"
	PropagationIndependent PropagationMode = "independent"
)

// Valid проверяет что режим выбран явно
func (m PropagationMode) Valid() bool {
	return m == PropagationSamePattern || m == PropagationIndependent
}

// Assignment - пара (предмет, учитель) в одной ячейке сетки
type Assignment struct {
	SubjectID string `json:"subjectId"`
	TeacherID string `json:"teacherId"`
}

// Complete - назначение имеет смысл только если заданы оба поля
func (a Assignment) Complete() bool {
	return a.SubjectID != "" && a.TeacherID != ""
}

// TimetableEntry - плоская запись расписания для сохранения
type TimetableEntry struct {
	Day       Weekday `json:"day"`
	SlotID    string  `json:"slotId"`
	SubjectID string  `json:"subjectId"`
	TeacherID string  `json:"teacherId"`
}
