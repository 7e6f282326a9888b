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

type ClassSectionRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewClassSectionRepository(pool *pgxpool.Pool, logger *zap.Logger) *ClassSectionRepository {
	return &ClassSectionRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт класс
func (r *ClassSectionRepository) Create(ctx context.Context, section *model.ClassSection) error {
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}

	query := `
		INSERT INTO class_sections (id, name, course, stream, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		section.ID,
		section.Name,
		section.Course,
		section.Stream,
		section.Capacity,
	).Scan(&section.CreatedAt)
	if err != nil {
		return fmt.Errorf("create class section: %w", err)
	}

	r.logger.Info("Class section created",
		zap.String("class_section_id", section.ID.String()),
		zap.String("name", section.Name))
	return nil
}

// GetByID получает класс по ID, nil если не найден
func (r *ClassSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSection, error) {
	query := `
		SELECT id, name, course, stream, capacity, created_at
		FROM class_sections
		WHERE id = $1
	`

	var section model.ClassSection
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.Name,
		&section.Course,
		&section.Stream,
		&section.Capacity,
		&section.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class section by id: %w", err)
	}

	return &section, nil
}

// List возвращает классы, сгруппированные по курсу и потоку
func (r *ClassSectionRepository) List(ctx context.Context) ([]*model.ClassSection, error) {
	query := `
		SELECT id, name, course, stream, capacity, created_at
		FROM class_sections
		ORDER BY course, stream, name
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list class sections: %w", err)
	}
	defer rows.Close()

	var sections []*model.ClassSection
	for rows.Next() {
		var section model.ClassSection
		if err := rows.Scan(
			&section.ID,
			&section.Name,
			&section.Course,
			&section.Stream,
			&section.Capacity,
			&section.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan class section: %w", err)
		}
		sections = append(sections, &section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate class sections: %w", err)
	}

	return sections, nil
}

// Delete удаляет класс вместе с его расписанием
func (r *ClassSectionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(), `DELETE FROM class_sections WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete class section: %w", err)
	}
	return affected > 0, nil
}
