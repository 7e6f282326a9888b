package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StudentStore interface {
	ListEnrolled(ctx context.Context, sectionID, yearID uuid.UUID) ([]*model.Student, error)
	Promote(ctx context.Context, p *model.Promotion) error
}

// PromotionService переводит учеников между классами и учебными годами
type PromotionService struct {
	students StudentStore
	sections SectionGetter
	years    YearGetter
	logger   *zap.Logger
}

func NewPromotionService(students StudentStore, sections SectionGetter, years YearGetter, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		students: students,
		sections: sections,
		years:    years,
		logger:   logger,
	}
}

// Candidates возвращает учеников исходного класса, проверив что класс и год существуют
func (s *PromotionService) Candidates(ctx context.Context, sectionID, yearID uuid.UUID) ([]*model.Student, error) {
	if err := s.exists(ctx, sectionID, yearID); err != nil {
		return nil, err
	}

	students, err := s.students.ListEnrolled(ctx, sectionID, yearID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return students, nil
}

// Promote выполняет подтверждённый план в одной транзакции
func (s *PromotionService) Promote(ctx context.Context, p *model.Promotion) (*model.Promotion, error) {
	if err := s.exists(ctx, p.ToSectionID, p.ToYearID); err != nil {
		return nil, err
	}

	if err := s.students.Promote(ctx, p); err != nil {
		if errors.Is(err, base.ErrStaleRows) {
			s.logger.Warn("Promotion plan is out of date",
				zap.String("from_section_id", p.FromSectionID.String()),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		s.logger.Error("Failed to promote students",
			zap.String("from_section_id", p.FromSectionID.String()),
			zap.String("to_section_id", p.ToSectionID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("promote students: %w", err)
	}
	return p, nil
}

func (s *PromotionService) exists(ctx context.Context, sectionID, yearID uuid.UUID) error {
	section, err := s.sections.GetByID(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("get class section: %w", err)
	}
	if section == nil {
		return fmt.Errorf("class section %s: %w", sectionID, ErrNotFound)
	}

	year, err := s.years.GetByID(ctx, yearID)
	if err != nil {
		return fmt.Errorf("get academic year: %w", err)
	}
	if year == nil {
		return fmt.Errorf("academic year %s: %w", yearID, ErrNotFound)
	}
	return nil
}
