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

type TeacherRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewTeacherRepository(pool *pgxpool.Pool, logger *zap.Logger) *TeacherRepository {
	return &TeacherRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт учителя
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}

	query := `
		INSERT INTO teachers (id, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		teacher.ID,
		teacher.FullName,
		teacher.Email,
		teacher.Phone,
	).Scan(&teacher.CreatedAt)
	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	r.logger.Info("Teacher created",
		zap.String("teacher_id", teacher.ID.String()),
		zap.String("full_name", teacher.FullName))
	return nil
}

// GetByID получает учителя по ID, nil если не найден
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `
		SELECT id, full_name, email, phone, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.FullName,
		&teacher.Email,
		&teacher.Phone,
		&teacher.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}

// List возвращает всех учителей по имени
func (r *TeacherRepository) List(ctx context.Context) ([]*model.Teacher, error) {
	query := `
		SELECT id, full_name, email, phone, created_at
		FROM teachers
		ORDER BY full_name
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var teacher model.Teacher
		if err := rows.Scan(
			&teacher.ID,
			&teacher.FullName,
			&teacher.Email,
			&teacher.Phone,
			&teacher.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, nil
}

// CountExisting считает, сколько из переданных ID существуют
func (r *TeacherRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	var n int
	err := r.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM teachers WHERE id = ANY($1)`, ids).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return n, nil
}

// Delete удаляет учителя
func (r *TeacherRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(), `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete teacher: %w", err)
	}
	return affected > 0, nil
}
