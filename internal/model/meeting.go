package model

import (
	"time"

	"github.com/google/uuid"
)

// Meeting - собрание сотрудников
type Meeting struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Agenda         string      `json:"agenda"`
	Location       string      `json:"location"`
	StartsAt       time.Time   `json:"startsAt"`
	EndsAt         time.Time   `json:"endsAt"`
	ParticipantIDs []uuid.UUID `json:"participantIds"`
	CreatedBy      uuid.UUID   `json:"createdBy"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Promotion - итог перевода учеников между классами/годами
type Promotion struct {
	FromSectionID uuid.UUID   `json:"fromSectionId"`
	FromYearID    uuid.UUID   `json:"fromYearId"`
	ToSectionID   uuid.UUID   `json:"toSectionId"`
	ToYearID      uuid.UUID   `json:"toYearId"`
	Promoted      []uuid.UUID `json:"promoted"`
	Readmitted    []uuid.UUID `json:"readmitted"`
}
