package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TimetableRepository хранит конфигурацию учебного дня по годам и записи расписания классов
type TimetableRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewTimetableRepository(pool *pgxpool.Pool, logger *zap.Logger) *TimetableRepository {
	return &TimetableRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// GetConfig возвращает конфигурацию учебного года, nil если её ещё нет
func (r *TimetableRepository) GetConfig(ctx context.Context, yearID uuid.UUID) (*model.TimetableConfig, error) {
	query := `
		SELECT academic_year_id, primary_schedule, alternate_schedule, alternate_days, updated_at
		FROM timetable_configs
		WHERE academic_year_id = $1
	`

	var (
		cfg       model.TimetableConfig
		primary   []byte
		alternate []byte
		days      []string
	)
	err := r.Pool().QueryRow(ctx, query, yearID).Scan(
		&cfg.AcademicYearID,
		&primary,
		&alternate,
		&days,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get timetable config: %w", err)
	}

	if err := json.Unmarshal(primary, &cfg.Primary); err != nil {
		return nil, fmt.Errorf("decode primary schedule: %w", err)
	}
	if len(alternate) > 0 {
		cfg.Alternate = &model.DaySchedule{}
		if err := json.Unmarshal(alternate, cfg.Alternate); err != nil {
			return nil, fmt.Errorf("decode alternate schedule: %w", err)
		}
	}
	for _, d := range days {
		cfg.AlternateDays = append(cfg.AlternateDays, model.Weekday(d))
	}

	return &cfg, nil
}

// SaveConfig сохраняет конфигурацию и в той же транзакции удаляет записи расписания года,
// чей слот больше не существует в шаблоне своего дня. valid - допустимые id слотов по дням.
// Возвращает число удалённых записей.
func (r *TimetableRepository) SaveConfig(ctx context.Context, cfg *model.TimetableConfig, valid map[model.Weekday][]string) (int64, error) {
	primary, err := json.Marshal(cfg.Primary)
	if err != nil {
		return 0, fmt.Errorf("encode primary schedule: %w", err)
	}
	var alternate []byte
	if cfg.Alternate != nil {
		if alternate, err = json.Marshal(cfg.Alternate); err != nil {
			return 0, fmt.Errorf("encode alternate schedule: %w", err)
		}
	}
	days := make([]string, 0, len(cfg.AlternateDays))
	for _, d := range cfg.AlternateDays {
		days = append(days, string(d))
	}

	// пары (день, слот) передаются двумя параллельными массивами для unnest
	var validDays, validSlots []string
	for _, d := range model.AllWeekdays {
		for _, id := range valid[d] {
			validDays = append(validDays, string(d))
			validSlots = append(validSlots, id)
		}
	}

	upsert := `
		INSERT INTO timetable_configs (academic_year_id, primary_schedule, alternate_schedule, alternate_days, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (academic_year_id) DO UPDATE
		SET primary_schedule = EXCLUDED.primary_schedule,
		    alternate_schedule = EXCLUDED.alternate_schedule,
		    alternate_days = EXCLUDED.alternate_days,
		    updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	var purged int64
	err = r.InTx(ctx, func(q base.Querier) error {
		if err := q.QueryRow(ctx, upsert, cfg.AcademicYearID, primary, alternate, days).Scan(&cfg.UpdatedAt); err != nil {
			return fmt.Errorf("upsert timetable config: %w", err)
		}

		n, err := base.ExecAffected(ctx, q, `
			DELETE FROM timetable_entries e
			WHERE e.academic_year_id = $1
			  AND NOT EXISTS (
			      SELECT 1 FROM unnest($2::text[], $3::text[]) AS v(day, slot_id)
			      WHERE v.day = e.day AND v.slot_id = e.slot_id
			  )`,
			cfg.AcademicYearID, validDays, validSlots)
		if err != nil {
			return fmt.Errorf("purge orphaned timetable entries: %w", err)
		}
		purged = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Info("Timetable config saved",
		zap.String("academic_year_id", cfg.AcademicYearID.String()),
		zap.Int("slots", len(validSlots)),
		zap.Int64("purged_entries", purged))
	return purged, nil
}

// ListEntries возвращает записи расписания класса за учебный год
func (r *TimetableRepository) ListEntries(ctx context.Context, sectionID, yearID uuid.UUID) ([]model.TimetableEntry, error) {
	query := `
		SELECT day, slot_id, subject_id, teacher_id
		FROM timetable_entries
		WHERE class_section_id = $1 AND academic_year_id = $2
	`

	rows, err := r.Pool().Query(ctx, query, sectionID, yearID)
	if err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	defer rows.Close()

	var entries []model.TimetableEntry
	for rows.Next() {
		var (
			day                  string
			slotID               string
			subjectID, teacherID uuid.UUID
		)
		if err := rows.Scan(&day, &slotID, &subjectID, &teacherID); err != nil {
			return nil, fmt.Errorf("scan timetable entry: %w", err)
		}
		entries = append(entries, model.TimetableEntry{
			Day:       model.Weekday(day),
			SlotID:    slotID,
			SubjectID: subjectID.String(),
			TeacherID: teacherID.String(),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timetable entries: %w", err)
	}

	return entries, nil
}

// ReplaceEntries целиком заменяет расписание класса за год: удаление и COPY в одной транзакции.
// Одновременные сохранения не согласуются, побеждает последнее.
func (r *TimetableRepository) ReplaceEntries(ctx context.Context, sectionID, yearID uuid.UUID, entries []model.TimetableEntry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		subjectID, err := uuid.Parse(e.SubjectID)
		if err != nil {
			return fmt.Errorf("parse subject id %q: %w", e.SubjectID, err)
		}
		teacherID, err := uuid.Parse(e.TeacherID)
		if err != nil {
			return fmt.Errorf("parse teacher id %q: %w", e.TeacherID, err)
		}
		rows = append(rows, []interface{}{sectionID, yearID, string(e.Day), e.SlotID, subjectID, teacherID})
	}

	var deleted int64
	err := r.InTx(ctx, func(q base.Querier) error {
		var err error
		deleted, err = base.ExecAffected(ctx, q,
			`DELETE FROM timetable_entries WHERE class_section_id = $1 AND academic_year_id = $2`,
			sectionID, yearID)
		if err != nil {
			return fmt.Errorf("delete timetable entries: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		_, err = q.CopyFrom(ctx,
			pgx.Identifier{"timetable_entries"},
			[]string{"class_section_id", "academic_year_id", "day", "slot_id", "subject_id", "teacher_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy timetable entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Timetable entries replaced",
		zap.String("class_section_id", sectionID.String()),
		zap.String("academic_year_id", yearID.String()),
		zap.Int64("deleted", deleted),
		zap.Int("inserted", len(rows)))
	return nil
}
