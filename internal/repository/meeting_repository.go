package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MeetingRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewMeetingRepository(pool *pgxpool.Pool, logger *zap.Logger) *MeetingRepository {
	return &MeetingRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create сохраняет собрание
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}

	query := `
		INSERT INTO meetings (id, title, agenda, location, starts_at, ends_at, participant_ids, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		meeting.ID,
		meeting.Title,
		meeting.Agenda,
		meeting.Location,
		meeting.StartsAt,
		meeting.EndsAt,
		meeting.ParticipantIDs,
		meeting.CreatedBy,
	).Scan(&meeting.CreatedAt)
	if err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}

	r.logger.Info("Meeting created",
		zap.String("meeting_id", meeting.ID.String()),
		zap.Time("starts_at", meeting.StartsAt),
		zap.Int("participants", len(meeting.ParticipantIDs)))
	return nil
}

// ListUpcoming возвращает собрания, которые ещё не закончились к моменту from
func (r *MeetingRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*model.Meeting, error) {
	query := `
		SELECT id, title, agenda, location, starts_at, ends_at, participant_ids, created_by, created_at
		FROM meetings
		WHERE ends_at > $1
		ORDER BY starts_at
	`

	rows, err := r.Pool().Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*model.Meeting
	for rows.Next() {
		var meeting model.Meeting
		if err := rows.Scan(
			&meeting.ID,
			&meeting.Title,
			&meeting.Agenda,
			&meeting.Location,
			&meeting.StartsAt,
			&meeting.EndsAt,
			&meeting.ParticipantIDs,
			&meeting.CreatedBy,
			&meeting.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, &meeting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}

	return meetings, nil
}
