package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

const dateLayout = "2006-01-02"

type createAcademicYearRequest struct {
	Name      string `json:"name" validate:"required,max=64"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"isCurrent"`
}

type createClassSectionRequest struct {
	Name     string `json:"name" validate:"required,max=32"`
	Course   string `json:"course" validate:"required,max=64"`
	Stream   string `json:"stream" validate:"max=64"`
	Capacity int    `json:"capacity" validate:"min=0"`
}

type createSubjectRequest struct {
	Code          string `json:"code" validate:"required,max=16"`
	Name          string `json:"name" validate:"required,max=128"`
	WeeklyPeriods int    `json:"weeklyPeriods" validate:"min=0"`
}

type createTeacherRequest struct {
	FullName string `json:"fullName" validate:"required,max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

type admitStudentRequest struct {
	FullName       string `json:"fullName" validate:"required,max=128"`
	AdmissionNo    string `json:"admissionNo" validate:"required,max=32"`
	ClassSectionID string `json:"classSectionId" validate:"required,uuid"`
	AcademicYearID string `json:"academicYearId" validate:"required,uuid"`
}

func (s *Server) listAcademicYears(c *fiber.Ctx) error {
	years, err := s.services.Academic.ListAcademicYears(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"academicYears": years})
}

func (s *Server) createAcademicYear(c *fiber.Ctx) error {
	var req createAcademicYearRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	// формат уже проверен тегом datetime
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)

	year, err := s.services.Academic.CreateAcademicYear(c.UserContext(), req.Name, start, end, req.IsCurrent)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(year)
}

func (s *Server) activateAcademicYear(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Academic.ActivateAcademicYear(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteAcademicYear(c *fiber.Ctx) error {
	return s.deleteByID(c, s.services.Academic.DeleteAcademicYear)
}

func (s *Server) listClassSections(c *fiber.Ctx) error {
	sections, err := s.services.Academic.ListClassSections(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"classSections": sections})
}

func (s *Server) createClassSection(c *fiber.Ctx) error {
	var req createClassSectionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	section := &model.ClassSection{Name: req.Name, Course: req.Course, Stream: req.Stream, Capacity: req.Capacity}
	if err := s.services.Academic.CreateClassSection(c.UserContext(), section); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

func (s *Server) deleteClassSection(c *fiber.Ctx) error {
	return s.deleteByID(c, s.services.Academic.DeleteClassSection)
}

func (s *Server) listSubjects(c *fiber.Ctx) error {
	subjects, err := s.services.Academic.ListSubjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

func (s *Server) createSubject(c *fiber.Ctx) error {
	var req createSubjectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	subject := &model.Subject{Code: req.Code, Name: req.Name, WeeklyPeriod: req.WeeklyPeriods}
	if err := s.services.Academic.CreateSubject(c.UserContext(), subject); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(subject)
}

func (s *Server) deleteSubject(c *fiber.Ctx) error {
	return s.deleteByID(c, s.services.Academic.DeleteSubject)
}

func (s *Server) listTeachers(c *fiber.Ctx) error {
	teachers, err := s.services.Academic.ListTeachers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"teachers": teachers})
}

func (s *Server) createTeacher(c *fiber.Ctx) error {
	var req createTeacherRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	teacher := &model.Teacher{FullName: req.FullName, Email: req.Email, Phone: req.Phone}
	if err := s.services.Academic.CreateTeacher(c.UserContext(), teacher); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(teacher)
}

func (s *Server) deleteTeacher(c *fiber.Ctx) error {
	return s.deleteByID(c, s.services.Academic.DeleteTeacher)
}

// admitStudent зачисляет нового ученика в класс на учебный год
func (s *Server) admitStudent(c *fiber.Ctx) error {
	var req admitStudentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sectionID := uuid.MustParse(req.ClassSectionID)
	yearID := uuid.MustParse(req.AcademicYearID)
	student := &model.Student{
		FullName:       req.FullName,
		AdmissionNo:    req.AdmissionNo,
		ClassSectionID: &sectionID,
		AcademicYearID: &yearID,
	}
	if err := s.services.Academic.AdmitStudent(c.UserContext(), student); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func (s *Server) deleteByID(c *fiber.Ctx, del func(ctx context.Context, id uuid.UUID) error) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := del(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
