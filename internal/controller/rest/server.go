// Package rest - HTTP API школьного расписания на fiber.
package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/controller/wizard"
	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/service"
)

type TimetableService interface {
	GetConfig(ctx context.Context, yearID uuid.UUID) (*service.ConfigView, error)
	SaveConfig(ctx context.Context, cfg model.TimetableConfig) (*service.SaveConfigResult, error)
	GetEntries(ctx context.Context, sectionID, yearID uuid.UUID) ([]model.TimetableEntry, error)
	SaveEntries(ctx context.Context, in service.SaveEntriesInput) ([]model.TimetableEntry, error)
	Edit(ctx context.Context, in service.EditInput) ([]model.TimetableEntry, error)
	RenderPNG(ctx context.Context, sectionID, yearID uuid.UUID) ([]byte, error)
}

type AcademicService interface {
	CreateAcademicYear(ctx context.Context, name string, start, end time.Time, current bool) (*model.AcademicYear, error)
	ListAcademicYears(ctx context.Context) ([]*model.AcademicYear, error)
	ActivateAcademicYear(ctx context.Context, id uuid.UUID) error
	DeleteAcademicYear(ctx context.Context, id uuid.UUID) error
	CreateClassSection(ctx context.Context, section *model.ClassSection) error
	ListClassSections(ctx context.Context) ([]*model.ClassSection, error)
	DeleteClassSection(ctx context.Context, id uuid.UUID) error
	CreateSubject(ctx context.Context, subject *model.Subject) error
	ListSubjects(ctx context.Context) ([]*model.Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error
	CreateTeacher(ctx context.Context, teacher *model.Teacher) error
	ListTeachers(ctx context.Context) ([]*model.Teacher, error)
	DeleteTeacher(ctx context.Context, id uuid.UUID) error
	AdmitStudent(ctx context.Context, student *model.Student) error
}

type PromotionService interface {
	Candidates(ctx context.Context, sectionID, yearID uuid.UUID) ([]*model.Student, error)
	Promote(ctx context.Context, p *model.Promotion) (*model.Promotion, error)
}

type MeetingService interface {
	Schedule(ctx context.Context, meeting *model.Meeting) error
	Upcoming(ctx context.Context) ([]*model.Meeting, error)
}

// Services - зависимости обработчиков
type Services struct {
	Timetable TimetableService
	Academic  AcademicService
	Promotion PromotionService
	Meeting   MeetingService
}

// Server - HTTP сервер API
type Server struct {
	app      *fiber.App
	services Services
	wizards  *wizard.Store
	secret   []byte
	logger   *zap.Logger
}

func NewServer(services Services, wizards *wizard.Store, jwtSecret string, logger *zap.Logger) *Server {
	s := &Server{
		services: services,
		wizards:  wizards,
		secret:   []byte(jwtSecret),
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "school-timetable",
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	s.app.Use(requestLogger(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/v1", authMiddleware(s.secret))

	// Расписание
	v1.Get("/timetable/config", s.getTimetableConfig)
	v1.Post("/timetable/config", requireAdmin, s.saveTimetableConfig)
	v1.Get("/class-sections/:id/timetable", s.getTimetable)
	v1.Post("/class-sections/:id/timetable", requireAdmin, s.saveTimetable)
	v1.Post("/class-sections/:id/timetable/edit", s.editTimetable)
	v1.Get("/class-sections/:id/timetable.png", s.timetableImage)

	// Справочники
	v1.Get("/academic-years", s.listAcademicYears)
	v1.Post("/academic-years", requireAdmin, s.createAcademicYear)
	v1.Post("/academic-years/:id/activate", requireAdmin, s.activateAcademicYear)
	v1.Delete("/academic-years/:id", requireAdmin, s.deleteAcademicYear)
	v1.Get("/class-sections", s.listClassSections)
	v1.Post("/class-sections", requireAdmin, s.createClassSection)
	v1.Delete("/class-sections/:id", requireAdmin, s.deleteClassSection)
	v1.Get("/subjects", s.listSubjects)
	v1.Post("/subjects", requireAdmin, s.createSubject)
	v1.Delete("/subjects/:id", requireAdmin, s.deleteSubject)
	v1.Get("/teachers", s.listTeachers)
	v1.Post("/teachers", requireAdmin, s.createTeacher)
	v1.Delete("/teachers/:id", requireAdmin, s.deleteTeacher)
	v1.Post("/students", requireAdmin, s.admitStudent)

	// Мастер перевода учеников
	promotion := v1.Group("/promotions/wizard", requireAdmin)
	promotion.Get("/", s.promotionWizard)
	promotion.Post("/start", s.promotionStart)
	promotion.Post("/preview", s.promotionPreview)
	promotion.Post("/confirm", s.promotionConfirm)
	promotion.Post("/run", s.promotionRun)
	promotion.Post("/reset", s.promotionReset)

	// Мастер собрания
	v1.Get("/meetings", s.listMeetings)
	meeting := v1.Group("/meetings/wizard", requireAdmin)
	meeting.Get("/", s.meetingWizard)
	meeting.Post("/details", s.meetingDetails)
	meeting.Post("/participants", s.meetingParticipants)
	meeting.Post("/schedule", s.meetingSchedule)
	meeting.Post("/confirm", s.meetingConfirm)
	meeting.Post("/reset", s.meetingReset)
}

// App возвращает fiber приложение (используется в тестах)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen блокирует до остановки сервера
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown дожидается завершения активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
