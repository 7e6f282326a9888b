package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MeetingStore interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	ListUpcoming(ctx context.Context, from time.Time) ([]*model.Meeting, error)
}

type TeacherCounter interface {
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

type MeetingService struct {
	meetings MeetingStore
	teachers TeacherCounter
	now      func() time.Time
	logger   *zap.Logger
}

func NewMeetingService(meetings MeetingStore, teachers TeacherCounter, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		meetings: meetings,
		teachers: teachers,
		now:      time.Now,
		logger:   logger,
	}
}

// Schedule сохраняет собрание. Все участники должны быть учителями школы, начало - в будущем.
func (s *MeetingService) Schedule(ctx context.Context, meeting *model.Meeting) error {
	if !meeting.StartsAt.After(s.now()) {
		return NewValidationError("invalid meeting").Add("startsAt", "must be in the future")
	}

	n, err := s.teachers.CountExisting(ctx, meeting.ParticipantIDs)
	if err != nil {
		return fmt.Errorf("check participants: %w", err)
	}
	if n != len(meeting.ParticipantIDs) {
		return NewValidationError("invalid meeting").Add("participantIds", "unknown teacher among participants")
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	s.logger.Info("Meeting scheduled",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("created_by", meeting.CreatedBy.String()))
	return nil
}

// Upcoming - собрания, которые ещё не закончились
func (s *MeetingService) Upcoming(ctx context.Context) ([]*model.Meeting, error) {
	meetings, err := s.meetings.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}
