package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/repository/base"
)

type fakeYearStore struct {
	years     map[uuid.UUID]*model.AcademicYear
	createErr error
}

func (f *fakeYearStore) Create(_ context.Context, year *model.AcademicYear) error {
	if f.createErr != nil {
		return f.createErr
	}
	year.ID = uuid.New()
	f.years[year.ID] = year
	return nil
}

func (f *fakeYearStore) GetByID(_ context.Context, id uuid.UUID) (*model.AcademicYear, error) {
	return f.years[id], nil
}

func (f *fakeYearStore) List(context.Context) ([]*model.AcademicYear, error) {
	var out []*model.AcademicYear
	for _, y := range f.years {
		out = append(out, y)
	}
	return out, nil
}

func (f *fakeYearStore) SetCurrent(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.years[id]; !ok {
		return false, nil
	}
	for yid, y := range f.years {
		y.IsCurrent = yid == id
	}
	return true, nil
}

func (f *fakeYearStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.years[id]
	delete(f.years, id)
	return ok, nil
}

type fakeStudentCreator struct{ err error }

func (f fakeStudentCreator) Create(context.Context, *model.Student) error { return f.err }

func newAcademicService(years *fakeYearStore, students StudentCreator) *AcademicService {
	return NewAcademicService(years, nil, nil, nil, students, zap.NewNop())
}

func TestAcademicService_CreateAcademicYear(t *testing.T) {
	years := &fakeYearStore{years: make(map[uuid.UUID]*model.AcademicYear)}
	svc := newAcademicService(years, nil)
	ctx := context.Background()
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	old, err := svc.CreateAcademicYear(ctx, "2024/2025", start.AddDate(-1, 0, 0), start.AddDate(0, -3, 0), true)
	require.NoError(t, err)
	assert.True(t, old.IsCurrent)

	year, err := svc.CreateAcademicYear(ctx, "2025/2026", start, start.AddDate(0, 9, 0), true)
	require.NoError(t, err)
	assert.True(t, year.IsCurrent)
	assert.False(t, years.years[old.ID].IsCurrent, "only one current year")

	_, err = svc.CreateAcademicYear(ctx, "broken", start, start, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldMap(), "endDate")
}

func TestAcademicService_Errors(t *testing.T) {
	years := &fakeYearStore{years: make(map[uuid.UUID]*model.AcademicYear)}
	ctx := context.Background()

	svc := newAcademicService(years, fakeStudentCreator{err: &pgconn.PgError{Code: "23505"}})
	var verr *ValidationError
	require.ErrorAs(t, svc.AdmitStudent(ctx, &model.Student{AdmissionNo: "A-1"}), &verr)
	assert.Contains(t, verr.FieldMap(), "admissionNo")

	svc = newAcademicService(years, fakeStudentCreator{err: &pgconn.PgError{Code: "23503"}})
	require.ErrorAs(t, svc.AdmitStudent(ctx, &model.Student{}), &verr)
	assert.Contains(t, verr.FieldMap(), "classSectionId")

	assert.ErrorIs(t, svc.ActivateAcademicYear(ctx, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteAcademicYear(ctx, uuid.New()), ErrNotFound)

	years.createErr = errors.New("boom")
	_, err := svc.CreateAcademicYear(ctx, "x", time.Now(), time.Now().Add(time.Hour), false)
	require.Error(t, err)
	assert.False(t, errors.As(err, &verr))
}

type fakeStudentStore struct {
	enrolled   []*model.Student
	promoted   *model.Promotion
	promoteErr error
}

func (f *fakeStudentStore) ListEnrolled(context.Context, uuid.UUID, uuid.UUID) ([]*model.Student, error) {
	return f.enrolled, nil
}

func (f *fakeStudentStore) Promote(_ context.Context, p *model.Promotion) error {
	if f.promoteErr != nil {
		return f.promoteErr
	}
	f.promoted = p
	return nil
}

func TestPromotionService(t *testing.T) {
	section, year, nextYear := uuid.New(), uuid.New(), uuid.New()
	students := &fakeStudentStore{enrolled: []*model.Student{{ID: uuid.New(), FullName: "Alice"}}}
	svc := NewPromotionService(
		students,
		fakeSections{section: {ID: section}},
		fakeYears{year: {ID: year}, nextYear: {ID: nextYear}},
		zap.NewNop(),
	)
	ctx := context.Background()

	got, err := svc.Candidates(ctx, section, year)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.Candidates(ctx, uuid.New(), year)
	assert.ErrorIs(t, err, ErrNotFound)

	plan := &model.Promotion{FromSectionID: section, FromYearID: year, ToSectionID: section, ToYearID: uuid.New()}
	_, err = svc.Promote(ctx, plan)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, students.promoted)

	plan.ToYearID = nextYear
	_, err = svc.Promote(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, plan, students.promoted)
}

func TestPromotionService_StalePlan(t *testing.T) {
	section, year := uuid.New(), uuid.New()
	tests := []struct {
		name     string
		storeErr error
		conflict bool
	}{
		{
			name:     "student left the source section",
			storeErr: fmt.Errorf("promote students: 1 of 2 students are not enrolled in the source section: %w", base.ErrStaleRows),
			conflict: true,
		},
		{name: "storage failure", storeErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPromotionService(
				&fakeStudentStore{promoteErr: tt.storeErr},
				fakeSections{section: {ID: section}},
				fakeYears{year: {ID: year}},
				zap.NewNop(),
			)

			_, err := svc.Promote(context.Background(), &model.Promotion{ToSectionID: section, ToYearID: year})
			require.Error(t, err)
			assert.Equal(t, tt.conflict, errors.Is(err, ErrConflict))
			assert.ErrorIs(t, err, tt.storeErr)
		})
	}
}

type fakeMeetingStore struct{ created []*model.Meeting }

func (f *fakeMeetingStore) Create(_ context.Context, m *model.Meeting) error {
	m.ID = uuid.New()
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMeetingStore) ListUpcoming(_ context.Context, from time.Time) ([]*model.Meeting, error) {
	var out []*model.Meeting
	for _, m := range f.created {
		if m.EndsAt.After(from) {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestMeetingService(t *testing.T) {
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	teacher := &model.Teacher{ID: uuid.New()}
	store := &fakeMeetingStore{}
	svc := NewMeetingService(store, fakeTeachers{teacher}, zap.NewNop())
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	meeting := &model.Meeting{
		Title:          "Staff meeting",
		StartsAt:       now.Add(24 * time.Hour),
		EndsAt:         now.Add(25 * time.Hour),
		ParticipantIDs: []uuid.UUID{teacher.ID},
	}
	require.NoError(t, svc.Schedule(ctx, meeting))
	assert.NotEqual(t, uuid.Nil, meeting.ID)

	var verr *ValidationError
	past := *meeting
	past.StartsAt = now.Add(-time.Hour)
	require.ErrorAs(t, svc.Schedule(ctx, &past), &verr)
	assert.Contains(t, verr.FieldMap(), "startsAt")

	stranger := *meeting
	stranger.ParticipantIDs = []uuid.UUID{teacher.ID, uuid.New()}
	require.ErrorAs(t, svc.Schedule(ctx, &stranger), &verr)
	assert.Contains(t, verr.FieldMap(), "participantIds")

	upcoming, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError("invalid")
	assert.NoError(t, verr.OrNil())

	verr.Add("b", "second").Add("a", "first").Add("a", "ignored")
	assert.Equal(t, "invalid: a: first; a: ignored; b: second", verr.Error())
	assert.Equal(t, map[string]string{"a": "first", "b": "second"}, verr.FieldMap())
}
