// Package wizard содержит явные конечные автоматы многошаговых мастеров:
// перевод учеников и планирование собрания. Каждый шаг проверяет, что он разрешён
// в текущем состоянии, и только потом меняет данные.
package wizard

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/school_timetable/internal/controller/state"
)

// ErrInvalidStep - шаг недоступен в текущем состоянии мастера
var ErrInvalidStep = errors.New("wizard step is not allowed")

func invalidStep(step string, current state.UserState) error {
	if current == state.StateNone {
		current = "none"
	}
	return fmt.Errorf("%s in state %s: %w", step, current, ErrInvalidStep)
}
