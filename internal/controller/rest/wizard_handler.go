package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Freeeeeet/school_timetable/internal/controller/wizard"
)

type promotionStartRequest struct {
	FromSectionID uuid.UUID `json:"fromSectionId"`
	FromYearID    uuid.UUID `json:"fromYearId"`
	ToSectionID   uuid.UUID `json:"toSectionId"`
	ToYearID      uuid.UUID `json:"toYearId"`
}

type promotionConfirmRequest struct {
	Promote []uuid.UUID `json:"promote"`
	Readmit []uuid.UUID `json:"readmit"`
}

type meetingDetailsRequest struct {
	Title    string `json:"title"`
	Agenda   string `json:"agenda"`
	Location string `json:"location"`
}

type meetingParticipantsRequest struct {
	ParticipantIDs []uuid.UUID `json:"participantIds"`
}

type meetingScheduleRequest struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

func (s *Server) promotionWizard(c *fiber.Ctx) error {
	return c.JSON(s.wizards.Promotion(session(c).UserID))
}

// promotionStart выбирает исходный и целевой класс
func (s *Server) promotionStart(c *fiber.Ctx) error {
	var req promotionStartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID := session(c).UserID
	p := s.wizards.Promotion(userID)
	if err := p.SelectSource(req.FromSectionID, req.FromYearID, req.ToSectionID, req.ToYearID); err != nil {
		return err
	}
	s.wizards.SavePromotion(userID, p)
	return c.JSON(p)
}

// promotionPreview загружает учеников исходного класса
func (s *Server) promotionPreview(c *fiber.Ctx) error {
	userID := session(c).UserID
	p := s.wizards.Promotion(userID)
	if !p.HasSource() {
		return p.Preview(nil)
	}

	candidates, err := s.services.Promotion.Candidates(c.UserContext(), p.FromSectionID, p.FromYearID)
	if err != nil {
		return err
	}
	if err := p.Preview(candidates); err != nil {
		return err
	}
	s.wizards.SavePromotion(userID, p)
	return c.JSON(p)
}

func (s *Server) promotionConfirm(c *fiber.Ctx) error {
	var req promotionConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID := session(c).UserID
	p := s.wizards.Promotion(userID)
	if err := p.Confirm(req.Promote, req.Readmit); err != nil {
		return err
	}
	s.wizards.SavePromotion(userID, p)
	return c.JSON(p)
}

// promotionRun выполняет подтверждённый перевод
func (s *Server) promotionRun(c *fiber.Ctx) error {
	userID := session(c).UserID
	p := s.wizards.Promotion(userID)
	plan, err := p.Plan()
	if err != nil {
		return err
	}

	result, err := s.services.Promotion.Promote(c.UserContext(), plan)
	if err != nil {
		return err
	}
	if err := p.Complete(result); err != nil {
		return err
	}
	s.wizards.SavePromotion(userID, p)
	return c.JSON(p)
}

func (s *Server) promotionReset(c *fiber.Ctx) error {
	userID := session(c).UserID
	s.wizards.ResetPromotion(userID)
	return c.JSON(s.wizards.Promotion(userID))
}

func (s *Server) meetingWizard(c *fiber.Ctx) error {
	return c.JSON(s.wizards.Meeting(session(c).UserID))
}

func (s *Server) meetingDetails(c *fiber.Ctx) error {
	var req meetingDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return s.meetingStep(c, func(m *wizard.Meeting) error {
		return m.Details(req.Title, req.Agenda, req.Location)
	})
}

func (s *Server) meetingParticipants(c *fiber.Ctx) error {
	var req meetingParticipantsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return s.meetingStep(c, func(m *wizard.Meeting) error {
		return m.Participants(req.ParticipantIDs)
	})
}

func (s *Server) meetingSchedule(c *fiber.Ctx) error {
	var req meetingScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return s.meetingStep(c, func(m *wizard.Meeting) error {
		return m.Schedule(req.StartsAt, req.EndsAt)
	})
}

// meetingConfirm сохраняет собрание, собранное мастером
func (s *Server) meetingConfirm(c *fiber.Ctx) error {
	userID := session(c).UserID
	m := s.wizards.Meeting(userID)
	meeting, err := m.Draft(userID)
	if err != nil {
		return err
	}

	if err := s.services.Meeting.Schedule(c.UserContext(), meeting); err != nil {
		return err
	}
	if err := m.Complete(meeting); err != nil {
		return err
	}
	s.wizards.SaveMeeting(userID, m)
	return c.JSON(m)
}

func (s *Server) meetingReset(c *fiber.Ctx) error {
	userID := session(c).UserID
	s.wizards.ResetMeeting(userID)
	return c.JSON(s.wizards.Meeting(userID))
}

func (s *Server) listMeetings(c *fiber.Ctx) error {
	meetings, err := s.services.Meeting.Upcoming(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"meetings": meetings})
}

// meetingStep применяет шаг к мастеру пользователя и сохраняет его
func (s *Server) meetingStep(c *fiber.Ctx, step func(m *wizard.Meeting) error) error {
	userID := session(c).UserID
	m := s.wizards.Meeting(userID)
	if err := step(m); err != nil {
		return err
	}
	s.wizards.SaveMeeting(userID, m)
	return c.JSON(m)
}
