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

type StudentRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewStudentRepository(pool *pgxpool.Pool, logger *zap.Logger) *StudentRepository {
	return &StudentRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт ученика, при наличии сразу с зачислением
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}

	query := `
		INSERT INTO students (id, full_name, admission_no, class_section_id, academic_year_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.Pool().QueryRow(ctx, query,
		student.ID,
		student.FullName,
		student.AdmissionNo,
		student.ClassSectionID,
		student.AcademicYearID,
	).Scan(&student.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	r.logger.Info("Student created",
		zap.String("student_id", student.ID.String()),
		zap.String("admission_no", student.AdmissionNo))
	return nil
}

// ListEnrolled возвращает учеников класса в учебном году
func (r *StudentRepository) ListEnrolled(ctx context.Context, sectionID, yearID uuid.UUID) ([]*model.Student, error) {
	query := `
		SELECT id, full_name, admission_no, class_section_id, academic_year_id, created_at
		FROM students
		WHERE class_section_id = $1 AND academic_year_id = $2
		ORDER BY full_name
	`

	rows, err := r.Pool().Query(ctx, query, sectionID, yearID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(
			&student.ID,
			&student.FullName,
			&student.AdmissionNo,
			&student.ClassSectionID,
			&student.AcademicYearID,
			&student.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}

// Promote переводит учеников в одной транзакции: promoted - в целевой класс и год,
// readmitted - остаются в исходном классе, но в целевом году.
// Обновляются только ученики, зачисленные в исходный класс исходного года.
func (r *StudentRepository) Promote(ctx context.Context, p *model.Promotion) error {
	query := `
		UPDATE students
		SET class_section_id = $1, academic_year_id = $2
		WHERE id = ANY($3) AND class_section_id = $4 AND academic_year_id = $5
	`

	err := r.InTx(ctx, func(q base.Querier) error {
		if len(p.Promoted) > 0 {
			affected, err := base.ExecAffected(ctx, q, query,
				p.ToSectionID, p.ToYearID, p.Promoted, p.FromSectionID, p.FromYearID)
			if err != nil {
				return fmt.Errorf("promote students: %w", err)
			}
			if int(affected) != len(p.Promoted) {
				return fmt.Errorf("promote students: %d of %d students are not enrolled in the source section: %w", len(p.Promoted)-int(affected), len(p.Promoted), base.ErrStaleRows)
			}
		}

		if len(p.Readmitted) > 0 {
			affected, err := base.ExecAffected(ctx, q, query,
				p.FromSectionID, p.ToYearID, p.Readmitted, p.FromSectionID, p.FromYearID)
			if err != nil {
				return fmt.Errorf("readmit students: %w", err)
			}
			if int(affected) != len(p.Readmitted) {
				return fmt.Errorf("readmit students: %d of %d students are not enrolled in the source section: %w", len(p.Readmitted)-int(affected), len(p.Readmitted), base.ErrStaleRows)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Students promoted",
		zap.String("from_section_id", p.FromSectionID.String()),
		zap.String("to_section_id", p.ToSectionID.String()),
		zap.Int("promoted", len(p.Promoted)),
		zap.Int("readmitted", len(p.Readmitted)))
	return nil
}
