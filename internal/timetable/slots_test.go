package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

func clock(s string) model.Clock { return model.MustParseClock(s) }

func sampleSchedule() model.DaySchedule {
	return model.DaySchedule{
		StartTime:      clock("09:00"),
		PeriodDuration: 45,
		TotalPeriods:   3,
		Breaks: []model.Break{
			{AfterPeriod: 2, Label: "Short Break", DurationMinutes: 10},
		},
	}
}

func TestGenerateSlots_Example(t *testing.T) {
	slots := GenerateSlots(sampleSchedule())

	want := []model.TimeSlot{
		{ID: "p1", Type: model.SlotTypePeriod, Label: "Period 1", Start: clock("09:00"), End: clock("09:45"), Order: 1},
		{ID: "p2", Type: model.SlotTypePeriod, Label: "Period 2", Start: clock("09:45"), End: clock("10:30"), Order: 2},
		{ID: "b2", Type: model.SlotTypeShortBreak, Label: "Short Break", Start: clock("10:30"), End: clock("10:40"), Order: 3},
		{ID: "p3", Type: model.SlotTypePeriod, Label: "Period 3", Start: clock("10:40"), End: clock("11:25"), Order: 4},
	}
	assert.Equal(t, want, slots)
}

func TestGenerateSlots_CountAndContiguity(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.DaySchedule
	}{
		{name: "no breaks", cfg: model.DaySchedule{StartTime: clock("08:00"), PeriodDuration: 40, TotalPeriods: 7}},
		{name: "single period", cfg: model.DaySchedule{StartTime: clock("08:00"), PeriodDuration: 60, TotalPeriods: 1}},
		{
			name: "several breaks",
			cfg: model.DaySchedule{
				StartTime: clock("07:30"), PeriodDuration: 35, TotalPeriods: 8,
				Breaks: []model.Break{
					{AfterPeriod: 2, DurationMinutes: 10},
					{AfterPeriod: 4, DurationMinutes: 40, Type: model.SlotTypeLunchBreak},
					{AfterPeriod: 6, DurationMinutes: 15, Type: model.SlotTypePrayer},
				},
			},
		},
		{
			name: "stacked breaks",
			cfg: model.DaySchedule{
				StartTime: clock("08:00"), PeriodDuration: 45, TotalPeriods: 4,
				Breaks: []model.Break{
					{AfterPeriod: 3, DurationMinutes: 30, Type: model.SlotTypeLunchBreak},
					{AfterPeriod: 3, DurationMinutes: 10, Type: model.SlotTypePrayer},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := GenerateSlots(tt.cfg)
			require.Len(t, slots, tt.cfg.TotalPeriods+len(tt.cfg.Breaks))

			var periods int
			for i, s := range slots {
				if s.Type == model.SlotTypePeriod {
					periods++
				}
				if i > 0 {
					assert.Equal(t, slots[i-1].End, s.Start, "slot %s must start where %s ends", s.ID, slots[i-1].ID)
				}
			}
			assert.Equal(t, tt.cfg.TotalPeriods, periods)
			assert.Equal(t, tt.cfg.StartTime, slots[0].Start)
		})
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	cfg := sampleSchedule()
	cfg.Breaks = append(cfg.Breaks, model.Break{AfterPeriod: 1, DurationMinutes: 5, Type: model.SlotTypeOther})

	assert.Equal(t, GenerateSlots(cfg), GenerateSlots(cfg))
}

func TestGenerateSlots_StackedBreaksKeepOrder(t *testing.T) {
	cfg := model.DaySchedule{
		StartTime: clock("08:00"), PeriodDuration: 45, TotalPeriods: 2,
		Breaks: []model.Break{
			{AfterPeriod: 1, Label: "Lunch", DurationMinutes: 30, Type: model.SlotTypeLunchBreak},
			{AfterPeriod: 1, DurationMinutes: 10, Type: model.SlotTypePrayer},
		},
	}

	slots := GenerateSlots(cfg)
	require.Len(t, slots, 4)

	assert.Equal(t, "b1", slots[1].ID)
	assert.Equal(t, "Lunch", slots[1].Label)
	assert.Equal(t, "b1.2", slots[2].ID)
	assert.Equal(t, "Prayer", slots[2].Label)
	assert.Equal(t, clock("09:25"), slots[2].End)
	assert.Equal(t, clock("10:10"), slots[3].End)
}

func TestGenerateAlternateSlots(t *testing.T) {
	slots := GenerateAlternateSlots(sampleSchedule())
	require.Len(t, slots, 4)

	for i, s := range slots {
		assert.True(t, s.IsAlternate(), s.ID)
		assert.Equal(t, model.AlternateOrderBase+i+1, s.Order)
	}
	assert.Equal(t, "alt-p1", slots[0].ID)
	assert.Equal(t, "alt-b2", slots[2].ID)

	primary, alternate := SplitSlots(append(GenerateSlots(sampleSchedule()), slots...))
	assert.Len(t, primary, 4)
	assert.Equal(t, slots, alternate)
}

func TestGenerateSlots_EmptyConfig(t *testing.T) {
	assert.Empty(t, GenerateSlots(model.DaySchedule{StartTime: clock("08:00"), PeriodDuration: 45}))
}

func TestOverrun(t *testing.T) {
	cfg := sampleSchedule()
	slots := GenerateSlots(cfg)

	assert.False(t, Overrun(cfg, slots), "no end time configured")

	end := clock("11:25")
	cfg.EndTime = &end
	assert.False(t, Overrun(cfg, slots))

	end = clock("11:00")
	assert.True(t, Overrun(cfg, slots))
}
