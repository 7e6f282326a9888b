package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Clock - время суток в минутах от полуночи
type Clock int

const minutesPerDay = 24 * 60

// ParseClock разбирает строку "HH:MM"
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("parse clock %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("parse clock %q: invalid hours", s)
	}

	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 || len(m) != 2 {
		return 0, fmt.Errorf("parse clock %q: invalid minutes", s)
	}

	return Clock(hours*60 + minutes), nil
}

// MustParseClock для констант и тестов
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Add сдвигает время на n минут
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// String форматирует как "HH:MM"; время после полуночи заворачивается
func (c Clock) String() string {
	m := int(c) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("clock must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
