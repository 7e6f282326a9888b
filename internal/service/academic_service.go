package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AcademicYearStore interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AcademicYear, error)
	List(ctx context.Context) ([]*model.AcademicYear, error)
	SetCurrent(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type ClassSectionStore interface {
	Create(ctx context.Context, section *model.ClassSection) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSection, error)
	List(ctx context.Context) ([]*model.ClassSection, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	List(ctx context.Context) ([]*model.Subject, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type TeacherStore interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	List(ctx context.Context) ([]*model.Teacher, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type StudentCreator interface {
	Create(ctx context.Context, student *model.Student) error
}

// AcademicService - справочники школы: учебные годы, классы, предметы, учителя, ученики
type AcademicService struct {
	years    AcademicYearStore
	sections ClassSectionStore
	subjects SubjectStore
	teachers TeacherStore
	students StudentCreator
	logger   *zap.Logger
}

func NewAcademicService(
	years AcademicYearStore,
	sections ClassSectionStore,
	subjects SubjectStore,
	teachers TeacherStore,
	students StudentCreator,
	logger *zap.Logger,
) *AcademicService {
	return &AcademicService{
		years:    years,
		sections: sections,
		subjects: subjects,
		teachers: teachers,
		students: students,
		logger:   logger,
	}
}

// CreateAcademicYear создаёт учебный год; если он помечен текущим, флаг снимается с остальных
func (s *AcademicService) CreateAcademicYear(ctx context.Context, name string, start, end time.Time, current bool) (*model.AcademicYear, error) {
	if !end.After(start) {
		return nil, NewValidationError("invalid academic year").Add("endDate", "must be after startDate")
	}

	year := &model.AcademicYear{Name: name, StartDate: start, EndDate: end}
	if err := s.years.Create(ctx, year); err != nil {
		return nil, conflictOr(err, "name", "academic year with this name already exists")
	}

	if current {
		if err := s.ActivateAcademicYear(ctx, year.ID); err != nil {
			return nil, err
		}
		year.IsCurrent = true
	}
	return year, nil
}

func (s *AcademicService) ListAcademicYears(ctx context.Context) ([]*model.AcademicYear, error) {
	years, err := s.years.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	return years, nil
}

// ActivateAcademicYear делает год текущим
func (s *AcademicService) ActivateAcademicYear(ctx context.Context, id uuid.UUID) error {
	found, err := s.years.SetCurrent(ctx, id)
	if err != nil {
		return fmt.Errorf("activate academic year: %w", err)
	}
	if !found {
		return fmt.Errorf("academic year %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *AcademicService) DeleteAcademicYear(ctx context.Context, id uuid.UUID) error {
	return deleted(s.years.Delete(ctx, id))("academic year", id)
}

func (s *AcademicService) CreateClassSection(ctx context.Context, section *model.ClassSection) error {
	if err := s.sections.Create(ctx, section); err != nil {
		return conflictOr(err, "name", "class section already exists in this course and stream")
	}
	return nil
}

func (s *AcademicService) ListClassSections(ctx context.Context) ([]*model.ClassSection, error) {
	sections, err := s.sections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list class sections: %w", err)
	}
	return sections, nil
}

func (s *AcademicService) DeleteClassSection(ctx context.Context, id uuid.UUID) error {
	return deleted(s.sections.Delete(ctx, id))("class section", id)
}

func (s *AcademicService) CreateSubject(ctx context.Context, subject *model.Subject) error {
	if err := s.subjects.Create(ctx, subject); err != nil {
		return conflictOr(err, "code", "subject with this code already exists")
	}
	return nil
}

func (s *AcademicService) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (s *AcademicService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	return deleted(s.subjects.Delete(ctx, id))("subject", id)
}

func (s *AcademicService) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

func (s *AcademicService) ListTeachers(ctx context.Context) ([]*model.Teacher, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func (s *AcademicService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	return deleted(s.teachers.Delete(ctx, id))("teacher", id)
}

// AdmitStudent создаёт ученика с зачислением в класс учебного года
func (s *AcademicService) AdmitStudent(ctx context.Context, student *model.Student) error {
	if err := s.students.Create(ctx, student); err != nil {
		if base.IsForeignKeyViolation(err) {
			return NewValidationError("invalid student").Add("classSectionId", "unknown class section or academic year")
		}
		return conflictOr(err, "admissionNo", "admission number is already taken")
	}
	return nil
}

// conflictOr переводит нарушение уникальности в ошибку поля, остальное оборачивает
func conflictOr(err error, field, msg string) error {
	if base.IsUniqueViolation(err) {
		return NewValidationError("conflict").Add(field, msg)
	}
	return fmt.Errorf("store: %w", err)
}

func deleted(found bool, err error) func(what string, id uuid.UUID) error {
	return func(what string, id uuid.UUID) error {
		if err != nil {
			return fmt.Errorf("delete %s: %w", what, err)
		}
		if !found {
			return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
		}
		return nil
	}
}
