package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/render"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
	"github.com/Freeeeeet/school_timetable/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TimetableStore - хранилище конфигураций дня и записей расписания
type TimetableStore interface {
	GetConfig(ctx context.Context, yearID uuid.UUID) (*model.TimetableConfig, error)
	SaveConfig(ctx context.Context, cfg *model.TimetableConfig, valid map[model.Weekday][]string) (int64, error)
	ListEntries(ctx context.Context, sectionID, yearID uuid.UUID) ([]model.TimetableEntry, error)
	ReplaceEntries(ctx context.Context, sectionID, yearID uuid.UUID, entries []model.TimetableEntry) error
}

type YearGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.AcademicYear, error)
}

type SectionGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSection, error)
}

type SubjectLister interface {
	List(ctx context.Context) ([]*model.Subject, error)
}

type TeacherLister interface {
	List(ctx context.Context) ([]*model.Teacher, error)
}

// TimetableNotice - уведомление о сохранённом расписании класса
type TimetableNotice struct {
	SectionName   string
	YearName      string
	FilledPeriods int
	Image         []byte
}

// Notifier рассылает уведомления о сохранении расписания
type Notifier interface {
	TimetableSaved(ctx context.Context, notice TimetableNotice) error
}

// NopNotifier используется, когда уведомления выключены
type NopNotifier struct{}

func (NopNotifier) TimetableSaved(context.Context, TimetableNotice) error { return nil }

const notifyTimeout = 15 * time.Second

// ConfigView - конфигурация года вместе со сгенерированными слотами обоих шаблонов
type ConfigView struct {
	AcademicYearID uuid.UUID          `json:"academicYearId"`
	Primary        model.DaySchedule  `json:"primary"`
	Alternate      *model.DaySchedule `json:"alternate,omitempty"`
	AlternateDays  []model.Weekday    `json:"alternateDays"`
	Slots          []model.TimeSlot   `json:"slots"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// SaveConfigResult - итог сохранения конфигурации. Overrun - предупреждение,
// что день выходит за заданный endTime; сохранению оно не мешает.
type SaveConfigResult struct {
	Config        *ConfigView `json:"config"`
	Overrun       bool        `json:"overrun"`
	PurgedEntries int64       `json:"purgedEntries"`
}

// SaveEntriesInput - массовое сохранение расписания класса
type SaveEntriesInput struct {
	SectionID uuid.UUID
	YearID    uuid.UUID
	Mode      model.PropagationMode
	Entries   []model.TimetableEntry
}

// EditAction - операция над одной ячейкой
type EditAction string

const (
	EditSet   EditAction = "set"
	EditClear EditAction = "clear"
)

// EditOp - правка одной ячейки сетки
type EditOp struct {
	Action    EditAction    `json:"action" validate:"required,oneof=set clear"`
	Day       model.Weekday `json:"day" validate:"required"`
	SlotID    string        `json:"slotId" validate:"required"`
	SubjectID string        `json:"subjectId"`
	TeacherID string        `json:"teacherId"`
}

// EditInput - состояние сетки на клиенте и правка, которую нужно к нему применить
type EditInput struct {
	YearID  uuid.UUID
	Mode    model.PropagationMode
	Entries []model.TimetableEntry
	Op      EditOp
}

type TimetableService struct {
	store    TimetableStore
	years    YearGetter
	sections SectionGetter
	subjects SubjectLister
	teachers TeacherLister
	notifier Notifier
	logger   *zap.Logger
}

func NewTimetableService(
	store TimetableStore,
	years YearGetter,
	sections SectionGetter,
	subjects SubjectLister,
	teachers TeacherLister,
	notifier Notifier,
	logger *zap.Logger,
) *TimetableService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &TimetableService{
		store:    store,
		years:    years,
		sections: sections,
		subjects: subjects,
		teachers: teachers,
		notifier: notifier,
		logger:   logger,
	}
}

// GetConfig возвращает конфигурацию года со слотами или ErrConfigMissing
func (s *TimetableService) GetConfig(ctx context.Context, yearID uuid.UUID) (*ConfigView, error) {
	cfg, err := s.store.GetConfig(ctx, yearID)
	if err != nil {
		return nil, fmt.Errorf("get timetable config: %w", err)
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}
	return viewOf(cfg), nil
}

// SaveConfig проверяет и сохраняет пару шаблонов дня. Записи расписания года,
// чей слот больше не существует в шаблоне своего дня, удаляются в той же транзакции.
func (s *TimetableService) SaveConfig(ctx context.Context, cfg model.TimetableConfig) (*SaveConfigResult, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	year, err := s.years.GetByID(ctx, cfg.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("get academic year: %w", err)
	}
	if year == nil {
		return nil, fmt.Errorf("academic year %s: %w", cfg.AcademicYearID, ErrNotFound)
	}

	view := viewOf(&cfg)
	purged, err := s.store.SaveConfig(ctx, &cfg, layoutOf(&cfg).SlotIDs())
	if err != nil {
		s.logger.Error("Failed to save timetable config",
			zap.String("academic_year_id", cfg.AcademicYearID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("save timetable config: %w", err)
	}
	view.UpdatedAt = cfg.UpdatedAt

	primary, alternate := timetable.SplitSlots(view.Slots)
	overrun := timetable.Overrun(cfg.Primary, primary)
	if cfg.Alternate != nil {
		overrun = overrun || timetable.Overrun(*cfg.Alternate, alternate)
	}
	if overrun {
		s.logger.Warn("Generated school day runs past configured end time",
			zap.String("academic_year_id", cfg.AcademicYearID.String()))
	}

	return &SaveConfigResult{Config: view, Overrun: overrun, PurgedEntries: purged}, nil
}

// GetEntries возвращает расписание класса за год
func (s *TimetableService) GetEntries(ctx context.Context, sectionID, yearID uuid.UUID) ([]model.TimetableEntry, error) {
	if _, err := s.section(ctx, sectionID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, sectionID, yearID)
	if err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}

	cfg, err := s.store.GetConfig(ctx, yearID)
	if err != nil {
		return nil, fmt.Errorf("get timetable config: %w", err)
	}
	if cfg == nil {
		return entries, nil
	}

	// Через сетку, чтобы отдать записи в порядке дней и слотов
	grid := timetable.NewGrid(layoutOf(cfg), model.PropagationIndependent)
	grid.Load(entries)
	return grid.Entries(), nil
}

// SaveEntries целиком заменяет расписание класса. Сохранение блокируется, если режим
// распространения не выбран или в какой-то ячейке задан только предмет или только учитель.
// Записи на перерывы и несуществующие слоты отбрасываются.
func (s *TimetableService) SaveEntries(ctx context.Context, in SaveEntriesInput) ([]model.TimetableEntry, error) {
	verr := NewValidationError("timetable cannot be saved")
	if !in.Mode.Valid() {
		verr.Add("propagationMode", "choose how edits propagate before saving")
	}

	cfg, err := s.store.GetConfig(ctx, in.YearID)
	if err != nil {
		return nil, fmt.Errorf("get timetable config: %w", err)
	}
	if cfg == nil {
		verr.Add("academicYearId", "timetable config is not set for this academic year")
		return nil, verr
	}

	section, err := s.section(ctx, in.SectionID)
	if err != nil {
		return nil, err
	}

	grid := timetable.NewGrid(layoutOf(cfg), in.Mode)
	grid.Load(in.Entries)

	for _, e := range grid.Incomplete() {
		verr.Add(cellField(e), "subject and teacher are both required")
	}

	entries := grid.Entries()
	for _, e := range entries {
		if _, err := uuid.Parse(e.SubjectID); err != nil {
			verr.Add(cellField(e)+".subjectId", "must be a valid UUID")
		}
		if _, err := uuid.Parse(e.TeacherID); err != nil {
			verr.Add(cellField(e)+".teacherId", "must be a valid UUID")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceEntries(ctx, in.SectionID, in.YearID, entries); err != nil {
		if base.IsForeignKeyViolation(err) {
			return nil, NewValidationError("timetable cannot be saved").
				Add("entries", "unknown subject or teacher")
		}
		s.logger.Error("Failed to save timetable entries",
			zap.String("class_section_id", in.SectionID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("replace timetable entries: %w", err)
	}

	s.logger.Info("Timetable saved",
		zap.String("class_section_id", in.SectionID.String()),
		zap.String("academic_year_id", in.YearID.String()),
		zap.String("mode", string(in.Mode)),
		zap.Int("entries", len(entries)),
		zap.Int("dropped", len(in.Entries)-len(entries)))

	s.notify(ctx, section, in.YearID, grid, entries)

	return entries, nil
}

// Edit применяет одну правку к переданному состоянию сетки без сохранения
// и возвращает получившиеся ячейки
func (s *TimetableService) Edit(ctx context.Context, in EditInput) ([]model.TimetableEntry, error) {
	if err := ValidateStruct(in.Op); err != nil {
		return nil, err
	}
	if !in.Op.Day.Valid() {
		return nil, NewValidationError("invalid edit").Add("op.day", "unknown weekday")
	}

	cfg, err := s.store.GetConfig(ctx, in.YearID)
	if err != nil {
		return nil, fmt.Errorf("get timetable config: %w", err)
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	layout := layoutOf(cfg)
	if !slices.Contains(layout.Days(), in.Op.Day) {
		return nil, NewValidationError("invalid edit").Add("op.day", "day is not part of the school week")
	}
	slot, ok := layout.PatternFor(in.Op.Day).Slot(in.Op.SlotID)
	if !ok {
		return nil, NewValidationError("invalid edit").Add("op.slotId", "slot does not exist on this day")
	}
	if slot.Type != model.SlotTypePeriod {
		return nil, NewValidationError("invalid edit").Add("op.slotId", "only periods can be assigned")
	}

	grid := timetable.NewGrid(layout, in.Mode)
	grid.Load(in.Entries)

	switch in.Op.Action {
	case EditSet:
		grid.Set(in.Op.Day, in.Op.SlotID, in.Op.SubjectID, in.Op.TeacherID)
	case EditClear:
		grid.Clear(in.Op.Day, in.Op.SlotID)
	}

	return append(grid.Entries(), grid.Incomplete()...), nil
}

// RenderPNG рисует сохранённое расписание класса
func (s *TimetableService) RenderPNG(ctx context.Context, sectionID, yearID uuid.UUID) ([]byte, error) {
	section, err := s.section(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.store.GetConfig(ctx, yearID)
	if err != nil {
		return nil, fmt.Errorf("get timetable config: %w", err)
	}
	if cfg == nil {
		return nil, ErrConfigMissing
	}

	entries, err := s.store.ListEntries(ctx, sectionID, yearID)
	if err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}

	return s.render(ctx, section, yearID, layoutOf(cfg), entries)
}

func (s *TimetableService) render(ctx context.Context, section *model.ClassSection, yearID uuid.UUID,
	layout *timetable.Layout, entries []model.TimetableEntry) ([]byte, error) {

	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	subjectNames := make(map[string]string, len(subjects))
	for _, subj := range subjects {
		subjectNames[subj.ID.String()] = subj.Name
	}
	teacherNames := make(map[string]string, len(teachers))
	for _, t := range teachers {
		teacherNames[t.ID.String()] = t.FullName
	}

	return render.Timetable(render.TimetableInput{
		Title:        s.title(ctx, section, yearID),
		Layout:       layout,
		Entries:      entries,
		SubjectNames: subjectNames,
		TeacherNames: teacherNames,
	})
}

func (s *TimetableService) title(ctx context.Context, section *model.ClassSection, yearID uuid.UUID) string {
	year, err := s.years.GetByID(ctx, yearID)
	if err != nil || year == nil {
		return section.Name
	}
	return section.Name + " · " + year.Name
}

// notify отправляет картинку расписания. Ошибки только логируются.
func (s *TimetableService) notify(ctx context.Context, section *model.ClassSection, yearID uuid.UUID,
	grid *timetable.Grid, entries []model.TimetableEntry) {

	if _, ok := s.notifier.(NopNotifier); ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	image, err := s.render(ctx, section, yearID, grid.Layout(), entries)
	if err != nil {
		s.logger.Warn("Failed to render timetable for notification", zap.Error(err))
		return
	}

	notice := TimetableNotice{
		SectionName:   section.Name,
		YearName:      yearID.String(),
		FilledPeriods: len(entries),
		Image:         image,
	}
	if year, err := s.years.GetByID(ctx, yearID); err == nil && year != nil {
		notice.YearName = year.Name
	}

	if err := s.notifier.TimetableSaved(ctx, notice); err != nil {
		s.logger.Warn("Failed to send timetable notification",
			zap.String("class_section_id", section.ID.String()),
			zap.Error(err))
	}
}

func (s *TimetableService) section(ctx context.Context, id uuid.UUID) (*model.ClassSection, error) {
	section, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class section: %w", err)
	}
	if section == nil {
		return nil, fmt.Errorf("class section %s: %w", id, ErrNotFound)
	}
	return section, nil
}

func cellField(e model.TimetableEntry) string {
	return fmt.Sprintf("entries[%s/%s]", e.Day, e.SlotID)
}

// validateConfig - теги validate плюс проверки, которые тегами не выразить
func validateConfig(cfg *model.TimetableConfig) error {
	verr := NewValidationError("invalid timetable config")
	if cfg.AcademicYearID == uuid.Nil {
		verr.Add("academicYearId", "academicYearId is a required field")
	}
	if err := ValidateStruct(cfg); err != nil {
		ve, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		verr.Fields = append(verr.Fields, ve.Fields...)
	}

	validateSchedule(verr, "primary", &cfg.Primary)
	if cfg.Alternate != nil {
		validateSchedule(verr, "alternate", cfg.Alternate)
	}

	seen := make(map[model.Weekday]bool, len(cfg.AlternateDays))
	days := cfg.AlternateDays[:0]
	for i, d := range cfg.AlternateDays {
		if !d.Valid() {
			verr.Add(fmt.Sprintf("alternateDays[%d]", i), "unknown weekday")
			continue
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	cfg.AlternateDays = days

	return verr.OrNil()
}

func validateSchedule(verr *ValidationError, prefix string, s *model.DaySchedule) {
	if s.StartTime < 0 || s.StartTime >= 24*60 {
		verr.Add(prefix+".startTime", "must be a time of day")
	}
	for i := range s.Breaks {
		b := &s.Breaks[i]
		field := fmt.Sprintf("%s.breaks[%d]", prefix, i)
		if b.AfterPeriod > s.TotalPeriods {
			verr.Add(field+".afterPeriod", fmt.Sprintf("must be between 1 and %d", s.TotalPeriods))
		}
		if b.Type == "" {
			b.Type = model.SlotTypeShortBreak
		}
		if !b.Type.Valid() || !b.Type.IsBreak() {
			verr.Add(field+".type", "must be a break type")
		}
	}
}

func viewOf(cfg *model.TimetableConfig) *ConfigView {
	slots := timetable.GenerateSlots(cfg.Primary)
	if cfg.Alternate != nil {
		slots = append(slots, timetable.GenerateAlternateSlots(*cfg.Alternate)...)
	}
	days := cfg.AlternateDays
	if days == nil {
		days = []model.Weekday{}
	}
	return &ConfigView{
		AcademicYearID: cfg.AcademicYearID,
		Primary:        cfg.Primary,
		Alternate:      cfg.Alternate,
		AlternateDays:  days,
		Slots:          slots,
		UpdatedAt:      cfg.UpdatedAt,
	}
}

func layoutOf(cfg *model.TimetableConfig) *timetable.Layout {
	var alternate []model.TimeSlot
	if cfg.Alternate != nil {
		alternate = timetable.GenerateAlternateSlots(*cfg.Alternate)
	}
	return timetable.NewLayout(timetable.GenerateSlots(cfg.Primary), alternate, nil, cfg.AlternateDays)
}
