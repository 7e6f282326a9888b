package wizard

import (
	"github.com/Freeeeeet/school_timetable/internal/controller/state"
	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/service"
	"github.com/google/uuid"
)

// Promotion - мастер перевода: select_source -> preview -> confirmed -> completed
type Promotion struct {
	State         state.UserState  `json:"state"`
	FromSectionID uuid.UUID        `json:"fromSectionId"`
	FromYearID    uuid.UUID        `json:"fromYearId"`
	ToSectionID   uuid.UUID        `json:"toSectionId"`
	ToYearID      uuid.UUID        `json:"toYearId"`
	Candidates    []*model.Student `json:"candidates"`
	Promote       []uuid.UUID      `json:"promote"`
	Readmit       []uuid.UUID      `json:"readmit"`
	Result        *model.Promotion `json:"result,omitempty"`
}

func NewPromotion() *Promotion {
	return &Promotion{State: state.StatePromotionSelect}
}

// SelectSource задаёт исходный и целевой класс/год. Доступно до подтверждения,
// повторный выбор сбрасывает предпросмотр.
func (p *Promotion) SelectSource(fromSection, fromYear, toSection, toYear uuid.UUID) error {
	if p.State != state.StatePromotionSelect && p.State != state.StatePromotionPreview {
		return invalidStep("select source", p.State)
	}

	verr := service.NewValidationError("invalid promotion")
	for field, id := range map[string]uuid.UUID{
		"fromSectionId": fromSection,
		"fromYearId":    fromYear,
		"toSectionId":   toSection,
		"toYearId":      toYear,
	} {
		if id == uuid.Nil {
			verr.Add(field, field+" is a required field")
		}
	}
	if fromYear != uuid.Nil && fromYear == toYear {
		verr.Add("toYearId", "target academic year must differ from the source year")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	*p = Promotion{
		State:         state.StatePromotionSelect,
		FromSectionID: fromSection,
		FromYearID:    fromYear,
		ToSectionID:   toSection,
		ToYearID:      toYear,
	}
	return nil
}

// HasSource - исходный и целевой класс выбраны
func (p *Promotion) HasSource() bool {
	return p.FromSectionID != uuid.Nil && p.ToSectionID != uuid.Nil
}

// Preview запоминает учеников исходного класса
func (p *Promotion) Preview(candidates []*model.Student) error {
	if p.State != state.StatePromotionSelect || !p.HasSource() {
		return invalidStep("preview", p.State)
	}
	p.Candidates = candidates
	p.State = state.StatePromotionPreview
	return nil
}

// Confirm фиксирует выбор: promote переводятся в целевой класс, readmit остаются
// в исходном классе на следующий год. Оба списка - подмножества кандидатов без пересечений.
func (p *Promotion) Confirm(promote, readmit []uuid.UUID) error {
	if p.State != state.StatePromotionPreview {
		return invalidStep("confirm", p.State)
	}

	known := make(map[uuid.UUID]bool, len(p.Candidates))
	for _, s := range p.Candidates {
		known[s.ID] = true
	}

	verr := service.NewValidationError("invalid promotion")
	if len(promote)+len(readmit) == 0 {
		verr.Add("promote", "select at least one student")
	}

	chosen := make(map[uuid.UUID]string, len(promote)+len(readmit))
	check := func(field string, ids []uuid.UUID) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			if !known[id] {
				verr.Add(field, "student "+id.String()+" is not enrolled in the source section")
				continue
			}
			if prev, dup := chosen[id]; dup {
				if prev != field {
					verr.Add(field, "student "+id.String()+" cannot be both promoted and readmitted")
				}
				continue
			}
			chosen[id] = field
			out = append(out, id)
		}
		return out
	}
	promote = check("promote", promote)
	readmit = check("readmit", readmit)

	if err := verr.OrNil(); err != nil {
		return err
	}

	p.Promote = promote
	p.Readmit = readmit
	p.State = state.StatePromotionConfirmed
	return nil
}

// Plan возвращает подтверждённый план перевода
func (p *Promotion) Plan() (*model.Promotion, error) {
	if p.State != state.StatePromotionConfirmed {
		return nil, invalidStep("run", p.State)
	}
	return &model.Promotion{
		FromSectionID: p.FromSectionID,
		FromYearID:    p.FromYearID,
		ToSectionID:   p.ToSectionID,
		ToYearID:      p.ToYearID,
		Promoted:      p.Promote,
		Readmitted:    p.Readmit,
	}, nil
}

// Complete отмечает, что перевод выполнен
func (p *Promotion) Complete(result *model.Promotion) error {
	if p.State != state.StatePromotionConfirmed {
		return invalidStep("complete", p.State)
	}
	p.Result = result
	p.State = state.StatePromotionCompleted
	return nil
}
