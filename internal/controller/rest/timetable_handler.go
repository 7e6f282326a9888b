package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/service"
)

type saveEntriesRequest struct {
	AcademicYearID  uuid.UUID              `json:"academicYearId"`
	PropagationMode model.PropagationMode  `json:"propagationMode"`
	Entries         []model.TimetableEntry `json:"entries"`
}

type editRequest struct {
	AcademicYearID  uuid.UUID              `json:"academicYearId"`
	PropagationMode model.PropagationMode  `json:"propagationMode"`
	Entries         []model.TimetableEntry `json:"entries"`
	Op              service.EditOp         `json:"op"`
}

type entriesResponse struct {
	Entries []model.TimetableEntry `json:"entries"`
}

// getTimetableConfig возвращает {config: null}, пока конфигурация года не задана
func (s *Server) getTimetableConfig(c *fiber.Ctx) error {
	yearID, err := queryUUID(c, "academicYearId")
	if err != nil {
		return err
	}

	view, err := s.services.Timetable.GetConfig(c.UserContext(), yearID)
	if errors.Is(err, service.ErrConfigMissing) {
		return c.JSON(fiber.Map{"config": nil})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"config": view})
}

func (s *Server) saveTimetableConfig(c *fiber.Ctx) error {
	var cfg model.TimetableConfig
	if err := c.BodyParser(&cfg); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := s.services.Timetable.SaveConfig(c.UserContext(), cfg)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) getTimetable(c *fiber.Ctx) error {
	sectionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	yearID, err := queryUUID(c, "academicYearId")
	if err != nil {
		return err
	}

	entries, err := s.services.Timetable.GetEntries(c.UserContext(), sectionID, yearID)
	if err != nil {
		return err
	}
	return c.JSON(entriesResponse{Entries: nonNil(entries)})
}

// saveTimetable заменяет расписание класса целиком
func (s *Server) saveTimetable(c *fiber.Ctx) error {
	sectionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req saveEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.AcademicYearID == uuid.Nil {
		return badRequest("academicYearId", "academicYearId is a required field")
	}

	entries, err := s.services.Timetable.SaveEntries(c.UserContext(), service.SaveEntriesInput{
		SectionID: sectionID,
		YearID:    req.AcademicYearID,
		Mode:      req.PropagationMode,
		Entries:   req.Entries,
	})
	if err != nil {
		return err
	}
	return c.JSON(entriesResponse{Entries: nonNil(entries)})
}

// editTimetable применяет одну правку к сетке клиента и ничего не сохраняет
func (s *Server) editTimetable(c *fiber.Ctx) error {
	if _, err := paramUUID(c, "id"); err != nil {
		return err
	}

	var req editRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.AcademicYearID == uuid.Nil {
		return badRequest("academicYearId", "academicYearId is a required field")
	}

	entries, err := s.services.Timetable.Edit(c.UserContext(), service.EditInput{
		YearID:  req.AcademicYearID,
		Mode:    req.PropagationMode,
		Entries: req.Entries,
		Op:      req.Op,
	})
	if err != nil {
		return err
	}
	return c.JSON(entriesResponse{Entries: nonNil(entries)})
}

func (s *Server) timetableImage(c *fiber.Ctx) error {
	sectionID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	yearID, err := queryUUID(c, "academicYearId")
	if err != nil {
		return err
	}

	data, err := s.services.Timetable.RenderPNG(c.UserContext(), sectionID, yearID)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

func nonNil(entries []model.TimetableEntry) []model.TimetableEntry {
	if entries == nil {
		return []model.TimetableEntry{}
	}
	return entries
}
