package main

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/render"
	"github.com/Freeeeeet/school_timetable/internal/timetable"
)

func main() {
	// Будни: 6 уроков по 45 минут, перемена после 2-го и обед после 4-го
	primary := timetable.GenerateSlots(model.DaySchedule{
		StartTime:      model.MustParseClock("08:30"),
		PeriodDuration: 45,
		TotalPeriods:   6,
		Breaks: []model.Break{
			{AfterPeriod: 2, DurationMinutes: 15},
			{AfterPeriod: 4, DurationMinutes: 40, Type: model.SlotTypeLunchBreak},
		},
	})
	// Суббота: 4 укороченных урока
	alternate := timetable.GenerateAlternateSlots(model.DaySchedule{
		StartTime:      model.MustParseClock("09:00"),
		PeriodDuration: 40,
		TotalPeriods:   4,
		Breaks:         []model.Break{{AfterPeriod: 2, DurationMinutes: 10}},
	})
	layout := timetable.NewLayout(primary, alternate, nil, []model.Weekday{model.Saturday})

	// Понедельник заполняется с распространением на все будни, суббота отдельно
	grid := timetable.NewGrid(layout, model.PropagationSamePattern)
	grid.Set(model.Monday, "p1", "math", "petrova")
	grid.Set(model.Monday, "p2", "russian", "ivanova")
	grid.Set(model.Monday, "p3", "physics", "sidorov")
	grid.SetMode(model.PropagationIndependent)
	grid.Set(model.Wednesday, "p5", "pe", "kuznetsov")
	grid.Set(model.Saturday, "alt-p1", "art", "orlova")

	imageData, err := render.Timetable(render.TimetableInput{
		Title:   "7-Б · 2025/2026",
		Layout:  layout,
		Entries: grid.Entries(),
		SubjectNames: map[string]string{
			"math": "Математика", "russian": "Русский язык", "physics": "Физика",
			"pe": "Физкультура", "art": "ИЗО",
		},
		TeacherNames: map[string]string{
			"petrova": "А. Петрова", "ivanova": "Е. Иванова", "sidorov": "П. Сидоров",
			"kuznetsov": "И. Кузнецов", "orlova": "М. Орлова",
		},
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "timetable.png"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", filename)
	fmt.Printf("📊 Уроков: %d, слотов в будний день: %d\n", len(grid.Entries()), len(primary))
}
