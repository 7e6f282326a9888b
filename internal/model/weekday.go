package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// AllWeekdays в порядке отображения (неделя с понедельника)
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// SchoolDays - дни по умолчанию для сетки расписания
var SchoolDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday принимает "monday", "MONDAY", "Mon"
func ParseWeekday(s string) (Weekday, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, d := range AllWeekdays {
		if up == string(d) || (len(up) == 3 && strings.HasPrefix(string(d), up)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Valid проверяет значение
func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Index возвращает позицию дня (0 = понедельник)
func (d Weekday) Index() int {
	for i, w := range AllWeekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Short - короткое название для заголовков
func (d Weekday) Short() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:1]) + strings.ToLower(string(d[1:3]))
}

// UnmarshalJSON нормализует регистр и короткие формы
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("weekday must be a string: %w", err)
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
