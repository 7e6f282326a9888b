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

type AcademicYearRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewAcademicYearRepository(pool *pgxpool.Pool, logger *zap.Logger) *AcademicYearRepository {
	return &AcademicYearRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт учебный год
func (r *AcademicYearRepository) Create(ctx context.Context, year *model.AcademicYear) error {
	if year.ID == uuid.Nil {
		year.ID = uuid.New()
	}

	query := `
		INSERT INTO academic_years (id, name, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		year.ID,
		year.Name,
		year.StartDate,
		year.EndDate,
		year.IsCurrent,
	).Scan(&year.CreatedAt)
	if err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}

	r.logger.Info("Academic year created",
		zap.String("academic_year_id", year.ID.String()),
		zap.String("name", year.Name))
	return nil
}

// GetByID получает учебный год по ID, nil если не найден
func (r *AcademicYearRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AcademicYear, error) {
	query := `
		SELECT id, name, start_date, end_date, is_current, created_at
		FROM academic_years
		WHERE id = $1
	`

	var year model.AcademicYear
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&year.ID,
		&year.Name,
		&year.StartDate,
		&year.EndDate,
		&year.IsCurrent,
		&year.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get academic year by id: %w", err)
	}

	return &year, nil
}

// List возвращает все учебные годы, новые сверху
func (r *AcademicYearRepository) List(ctx context.Context) ([]*model.AcademicYear, error) {
	query := `
		SELECT id, name, start_date, end_date, is_current, created_at
		FROM academic_years
		ORDER BY start_date DESC
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	defer rows.Close()

	var years []*model.AcademicYear
	for rows.Next() {
		var year model.AcademicYear
		if err := rows.Scan(
			&year.ID,
			&year.Name,
			&year.StartDate,
			&year.EndDate,
			&year.IsCurrent,
			&year.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan academic year: %w", err)
		}
		years = append(years, &year)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate academic years: %w", err)
	}

	return years, nil
}

// SetCurrent делает год текущим и снимает флаг с остальных в одной транзакции.
// Возвращает false, если года с таким ID нет.
func (r *AcademicYearRepository) SetCurrent(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := r.InTx(ctx, func(q base.Querier) error {
		if _, err := q.Exec(ctx, `UPDATE academic_years SET is_current = FALSE WHERE is_current AND id <> $1`, id); err != nil {
			return fmt.Errorf("reset current academic year: %w", err)
		}

		affected, err := base.ExecAffected(ctx, q, `UPDATE academic_years SET is_current = TRUE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("set current academic year: %w", err)
		}
		found = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		r.logger.Info("Academic year activated", zap.String("academic_year_id", id.String()))
	}
	return found, nil
}

// Delete удаляет учебный год, false если не найден
func (r *AcademicYearRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(), `DELETE FROM academic_years WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete academic year: %w", err)
	}
	return affected > 0, nil
}
