package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubjectRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}

	query := `
		INSERT INTO subjects (id, code, name, weekly_periods)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		subject.ID,
		subject.Code,
		subject.Name,
		subject.WeeklyPeriod,
	).Scan(&subject.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert subject into DB",
			zap.String("code", subject.Code),
			zap.Error(err))
		return fmt.Errorf("create subject: %w", err)
	}

	r.logger.Info("Subject inserted successfully",
		zap.String("subject_id", subject.ID.String()),
		zap.String("code", subject.Code))
	return nil
}

// GetByID получает предмет по ID, nil если не найден
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	query := `
		SELECT id, code, name, weekly_periods, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Code,
		&subject.Name,
		&subject.WeeklyPeriod,
		&subject.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// List возвращает все предметы по коду
func (r *SubjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	query := `
		SELECT id, code, name, weekly_periods, created_at
		FROM subjects
		ORDER BY code
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Code,
			&subject.Name,
			&subject.WeeklyPeriod,
			&subject.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}

	return subjects, nil
}

// Delete удаляет предмет. Записи расписания с ним удаляются каскадом.
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(), `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete subject: %w", err)
	}
	return affected > 0, nil
}
