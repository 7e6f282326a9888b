package wizard

import (
	"strings"
	"time"

	"github.com/Freeeeeet/school_timetable/internal/controller/state"
	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/service"
	"github.com/google/uuid"
)

var meetingSteps = []state.UserState{
	state.StateMeetingDetails,
	state.StateMeetingParticipants,
	state.StateMeetingSchedule,
	state.StateMeetingReview,
	state.StateMeetingScheduled,
}

func meetingStep(s state.UserState) int {
	for i, st := range meetingSteps {
		if st == s {
			return i
		}
	}
	return -1
}

// Meeting - мастер собрания: details -> participants -> schedule -> review -> scheduled.
// Пройденный шаг можно повторить, не теряя следующих.
type Meeting struct {
	State          state.UserState `json:"state"`
	Title          string          `json:"title"`
	Agenda         string          `json:"agenda"`
	Location       string          `json:"location"`
	ParticipantIDs []uuid.UUID     `json:"participantIds"`
	StartsAt       time.Time       `json:"startsAt"`
	EndsAt         time.Time       `json:"endsAt"`
	Result         *model.Meeting  `json:"result,omitempty"`
}

func NewMeeting() *Meeting {
	return &Meeting{State: state.StateMeetingDetails}
}

// allowed проверяет, что шаг step уже доступен
func (m *Meeting) allowed(step state.UserState, name string) error {
	cur := meetingStep(m.State)
	if cur < 0 || m.State == state.StateMeetingScheduled || cur < meetingStep(step) {
		return invalidStep(name, m.State)
	}
	return nil
}

// advance переводит мастер на шаг после step, если он ещё не дальше
func (m *Meeting) advance(step state.UserState) {
	next := meetingSteps[meetingStep(step)+1]
	if meetingStep(next) > meetingStep(m.State) {
		m.State = next
	}
}

// Details - тема, повестка и место
func (m *Meeting) Details(title, agenda, location string) error {
	if err := m.allowed(state.StateMeetingDetails, "details"); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return service.NewValidationError("invalid meeting").Add("title", "title is a required field")
	}

	m.Title = title
	m.Agenda = strings.TrimSpace(agenda)
	m.Location = strings.TrimSpace(location)
	m.advance(state.StateMeetingDetails)
	return nil
}

// Participants - список участников, дубликаты убираются
func (m *Meeting) Participants(ids []uuid.UUID) error {
	if err := m.allowed(state.StateMeetingParticipants, "participants"); err != nil {
		return err
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return service.NewValidationError("invalid meeting").Add("participantIds", "select at least one participant")
	}

	m.ParticipantIDs = unique
	m.advance(state.StateMeetingParticipants)
	return nil
}

// Schedule - время начала и окончания
func (m *Meeting) Schedule(startsAt, endsAt time.Time) error {
	if err := m.allowed(state.StateMeetingSchedule, "schedule"); err != nil {
		return err
	}
	if startsAt.IsZero() {
		return service.NewValidationError("invalid meeting").Add("startsAt", "startsAt is a required field")
	}
	if !endsAt.After(startsAt) {
		return service.NewValidationError("invalid meeting").Add("endsAt", "must be after startsAt")
	}

	m.StartsAt = startsAt
	m.EndsAt = endsAt
	m.advance(state.StateMeetingSchedule)
	return nil
}

// Draft собирает собрание для сохранения, доступно только на шаге review
func (m *Meeting) Draft(createdBy uuid.UUID) (*model.Meeting, error) {
	if m.State != state.StateMeetingReview {
		return nil, invalidStep("confirm", m.State)
	}
	return &model.Meeting{
		Title:          m.Title,
		Agenda:         m.Agenda,
		Location:       m.Location,
		StartsAt:       m.StartsAt,
		EndsAt:         m.EndsAt,
		ParticipantIDs: m.ParticipantIDs,
		CreatedBy:      createdBy,
	}, nil
}

// Complete отмечает, что собрание сохранено
func (m *Meeting) Complete(meeting *model.Meeting) error {
	if m.State != state.StateMeetingReview {
		return invalidStep("complete", m.State)
	}
	m.Result = meeting
	m.State = state.StateMeetingScheduled
	return nil
}
