// Package timetable содержит генерацию слотов учебного дня и сетку назначений
// (предмет, учитель) с распространением правок по дням недели.
package timetable

import (
	"fmt"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

// AlternatePrefix добавляется к id слотов альтернативного шаблона
const AlternatePrefix = "alt-"

// GenerateSlots разворачивает конфигурацию дня в упорядоченный список слотов основного шаблона.
// Функция чистая: одинаковый вход даёт одинаковый результат, включая id.
func GenerateSlots(cfg model.DaySchedule) []model.TimeSlot {
	return generate(cfg, "", 0)
}

// GenerateAlternateSlots - то же для альтернативного шаблона (например, субботы):
// id с префиксом AlternatePrefix, порядок начинается с model.AlternateOrderBase
func GenerateAlternateSlots(cfg model.DaySchedule) []model.TimeSlot {
	return generate(cfg, AlternatePrefix, model.AlternateOrderBase)
}

func generate(cfg model.DaySchedule, prefix string, orderBase int) []model.TimeSlot {
	if cfg.TotalPeriods <= 0 {
		return nil
	}

	// Перерывы группируем по номеру урока, порядок внутри группы сохраняется
	breaksAfter := make(map[int][]model.Break, len(cfg.Breaks))
	for _, b := range cfg.Breaks {
		breaksAfter[b.AfterPeriod] = append(breaksAfter[b.AfterPeriod], b)
	}

	slots := make([]model.TimeSlot, 0, cfg.TotalPeriods+len(cfg.Breaks))
	cursor := cfg.StartTime

	for i := 1; i <= cfg.TotalPeriods; i++ {
		slots = append(slots, model.TimeSlot{
			ID:    fmt.Sprintf("%sp%d", prefix, i),
			Type:  model.SlotTypePeriod,
			Label: fmt.Sprintf("Period %d", i),
			Start: cursor,
			End:   cursor.Add(cfg.PeriodDuration),
			Order: orderBase + len(slots) + 1,
		})
		cursor = cursor.Add(cfg.PeriodDuration)

		for k, b := range breaksAfter[i] {
			id := fmt.Sprintf("%sb%d", prefix, i)
			if k > 0 {
				id = fmt.Sprintf("%s.%d", id, k+1)
			}

			slotType := b.Type
			if slotType == "" {
				slotType = model.SlotTypeShortBreak
			}
			label := b.Label
			if label == "" {
				label = defaultBreakLabel(slotType)
			}

			slots = append(slots, model.TimeSlot{
				ID:    id,
				Type:  slotType,
				Label: label,
				Start: cursor,
				End:   cursor.Add(b.DurationMinutes),
				Order: orderBase + len(slots) + 1,
			})
			cursor = cursor.Add(b.DurationMinutes)
		}
	}

	return slots
}

func defaultBreakLabel(t model.SlotType) string {
	switch t {
	case model.SlotTypeLunchBreak:
		return "Lunch Break"
	case model.SlotTypePrayer:
		return "Prayer"
	case model.SlotTypeOther:
		return "Break"
	default:
		return "Short Break"
	}
}

// DayEnd возвращает конец последнего слота
func DayEnd(slots []model.TimeSlot) (model.Clock, bool) {
	if len(slots) == 0 {
		return 0, false
	}
	return slots[len(slots)-1].End, true
}

// Overrun сообщает, выходит ли сгенерированный день за заданный EndTime.
// Генератор это не проверяет, значение используется только как предупреждение.
func Overrun(cfg model.DaySchedule, slots []model.TimeSlot) bool {
	if cfg.EndTime == nil {
		return false
	}
	end, ok := DayEnd(slots)
	return ok && end > *cfg.EndTime
}

// SplitSlots делит общий список слотов на основной и альтернативный шаблоны по порядку
func SplitSlots(slots []model.TimeSlot) (primary, alternate []model.TimeSlot) {
	for _, s := range slots {
		if s.IsAlternate() {
			alternate = append(alternate, s)
		} else {
			primary = append(primary, s)
		}
	}
	return primary, alternate
}
