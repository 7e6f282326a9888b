package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/app"
	"github.com/Freeeeeet/school_timetable/internal/config"
	"github.com/Freeeeeet/school_timetable/internal/controller/rest"
	"github.com/Freeeeeet/school_timetable/internal/controller/state"
	"github.com/Freeeeeet/school_timetable/internal/controller/telegram"
	"github.com/Freeeeeet/school_timetable/internal/controller/wizard"
	"github.com/Freeeeeet/school_timetable/internal/repository"
	"github.com/Freeeeeet/school_timetable/internal/service"
	"github.com/Freeeeeet/school_timetable/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting school timetable server",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("telegram", cfg.TelegramEnabled()))

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, ".", logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Репозитории
	years := repository.NewAcademicYearRepository(pool, logger)
	sections := repository.NewClassSectionRepository(pool, logger)
	subjects := repository.NewSubjectRepository(pool, logger)
	teachers := repository.NewTeacherRepository(pool, logger)
	students := repository.NewStudentRepository(pool, logger)
	timetables := repository.NewTimetableRepository(pool, logger)
	meetings := repository.NewMeetingRepository(pool, logger)

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.TelegramEnabled() {
		tg, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			return err
		}
		notifier = tg
	}

	// Сервисы
	services := rest.Services{
		Timetable: service.NewTimetableService(timetables, years, sections, subjects, teachers, notifier, logger),
		Academic:  service.NewAcademicService(years, sections, subjects, teachers, students, logger),
		Promotion: service.NewPromotionService(students, sections, years, logger),
		Meeting:   service.NewMeetingService(meetings, teachers, logger),
	}

	sessions := state.NewManager()
	scheduler := app.NewScheduler(sessions, cfg.SessionTTL, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := rest.NewServer(services, wizard.NewStore(sessions), cfg.JWTSecret, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
