package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

type entryKey struct {
	section, year uuid.UUID
}

type fakeTimetableStore struct {
	configs     map[uuid.UUID]*model.TimetableConfig
	entries     map[entryKey][]model.TimetableEntry
	savedSlots  map[model.Weekday][]string
	replaceErr  error
	replaceHits int
}

func newFakeTimetableStore() *fakeTimetableStore {
	return &fakeTimetableStore{
		configs: make(map[uuid.UUID]*model.TimetableConfig),
		entries: make(map[entryKey][]model.TimetableEntry),
	}
}

func (f *fakeTimetableStore) GetConfig(_ context.Context, yearID uuid.UUID) (*model.TimetableConfig, error) {
	return f.configs[yearID], nil
}

func (f *fakeTimetableStore) SaveConfig(_ context.Context, cfg *model.TimetableConfig, valid map[model.Weekday][]string) (int64, error) {
	cp := *cfg
	cp.UpdatedAt = time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	cfg.UpdatedAt = cp.UpdatedAt
	f.configs[cfg.AcademicYearID] = &cp
	f.savedSlots = valid

	known := make(map[model.Weekday]map[string]bool, len(valid))
	for day, ids := range valid {
		known[day] = make(map[string]bool, len(ids))
		for _, id := range ids {
			known[day][id] = true
		}
	}
	var purged int64
	for key, list := range f.entries {
		if key.year != cfg.AcademicYearID {
			continue
		}
		kept := list[:0]
		for _, e := range list {
			if known[e.Day][e.SlotID] {
				kept = append(kept, e)
			} else {
				purged++
			}
		}
		f.entries[key] = kept
	}
	return purged, nil
}

func (f *fakeTimetableStore) ListEntries(_ context.Context, sectionID, yearID uuid.UUID) ([]model.TimetableEntry, error) {
	return f.entries[entryKey{sectionID, yearID}], nil
}

func (f *fakeTimetableStore) ReplaceEntries(_ context.Context, sectionID, yearID uuid.UUID, entries []model.TimetableEntry) error {
	f.replaceHits++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.entries[entryKey{sectionID, yearID}] = entries
	return nil
}

type fakeYears map[uuid.UUID]*model.AcademicYear

func (f fakeYears) GetByID(_ context.Context, id uuid.UUID) (*model.AcademicYear, error) {
	return f[id], nil
}

type fakeSections map[uuid.UUID]*model.ClassSection

func (f fakeSections) GetByID(_ context.Context, id uuid.UUID) (*model.ClassSection, error) {
	return f[id], nil
}

type fakeSubjects []*model.Subject

func (f fakeSubjects) List(context.Context) ([]*model.Subject, error) { return f, nil }

type fakeTeachers []*model.Teacher

func (f fakeTeachers) List(context.Context) ([]*model.Teacher, error) { return f, nil }

func (f fakeTeachers) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	var n int
	for _, id := range ids {
		for _, t := range f {
			if t.ID == id {
				n++
			}
		}
	}
	return n, nil
}

type recordingNotifier struct {
	notices []TimetableNotice
	err     error
}

func (r *recordingNotifier) TimetableSaved(_ context.Context, n TimetableNotice) error {
	r.notices = append(r.notices, n)
	return r.err
}
