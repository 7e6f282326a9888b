package wizard

import (
	"github.com/Freeeeeet/school_timetable/internal/controller/state"
	"github.com/google/uuid"
)

const dataKey = "wizard"

// Store хранит мастера пользователей в state.Manager: по одной записи на мастер и пользователя
type Store struct {
	sm *state.Manager
}

func NewStore(sm *state.Manager) *Store {
	return &Store{sm: sm}
}

func promotionKey(userID uuid.UUID) string { return "promotion:" + userID.String() }
func meetingKey(userID uuid.UUID) string   { return "meeting:" + userID.String() }

// Promotion возвращает мастер перевода пользователя, создавая новый при отсутствии
func (s *Store) Promotion(userID uuid.UUID) *Promotion {
	if v, ok := s.sm.GetData(promotionKey(userID), dataKey); ok {
		if p, ok := v.(*Promotion); ok {
			cp := *p
			return &cp
		}
	}
	return NewPromotion()
}

// SavePromotion сохраняет мастер и его состояние
func (s *Store) SavePromotion(userID uuid.UUID, p *Promotion) {
	key := promotionKey(userID)
	s.sm.SetData(key, dataKey, p)
	s.sm.SetState(key, p.State)
}

func (s *Store) ResetPromotion(userID uuid.UUID) {
	s.sm.ClearState(promotionKey(userID))
}

// Meeting возвращает мастер собрания пользователя, создавая новый при отсутствии
func (s *Store) Meeting(userID uuid.UUID) *Meeting {
	if v, ok := s.sm.GetData(meetingKey(userID), dataKey); ok {
		if m, ok := v.(*Meeting); ok {
			cp := *m
			return &cp
		}
	}
	return NewMeeting()
}

func (s *Store) SaveMeeting(userID uuid.UUID, m *Meeting) {
	key := meetingKey(userID)
	s.sm.SetData(key, dataKey, m)
	s.sm.SetState(key, m.State)
}

func (s *Store) ResetMeeting(userID uuid.UUID) {
	s.sm.ClearState(meetingKey(userID))
}
