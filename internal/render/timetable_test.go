package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/timetable"
)

func sampleLayout() *timetable.Layout {
	primary := timetable.GenerateSlots(model.DaySchedule{
		StartTime: model.MustParseClock("08:00"), PeriodDuration: 45, TotalPeriods: 4,
		Breaks: []model.Break{{AfterPeriod: 2, DurationMinutes: 15}},
	})
	alternate := timetable.GenerateAlternateSlots(model.DaySchedule{
		StartTime: model.MustParseClock("08:30"), PeriodDuration: 40, TotalPeriods: 2,
	})
	return timetable.NewLayout(primary, alternate, nil, []model.Weekday{model.Saturday})
}

func TestTimetable(t *testing.T) {
	data, err := Timetable(TimetableInput{
		Title:  "7-B · 2025/2026",
		Layout: sampleLayout(),
		Entries: []model.TimetableEntry{
			{Day: model.Monday, SlotID: "p1", SubjectID: "s1", TeacherID: "t1"},
			{Day: model.Saturday, SlotID: "alt-p2", SubjectID: "s2", TeacherID: "t2"},
		},
		SubjectNames: map[string]string{"s1": "Mathematics"},
		TeacherNames: map[string]string{"t1": "A. Petrova"},
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	wantHeight := headerHeight + dayHeaderHeight + int(4*periodRowHeight+breakRowHeight) + footerHeight
	assert.Equal(t, leftLabelsWidth+6*dayWidth, img.Bounds().Dx())
	assert.Equal(t, wantHeight, img.Bounds().Dy())
}

func TestTimetable_NoSlots(t *testing.T) {
	_, err := Timetable(TimetableInput{Layout: timetable.NewLayout(nil, nil, nil, nil)})
	assert.Error(t, err)

	_, err = Timetable(TimetableInput{})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	assert.Equal(t, "Introduction to Phy...", truncate("Introduction to Physical Education"))
}
