package wizard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/school_timetable/internal/controller/state"
	"github.com/Freeeeeet/school_timetable/internal/model"
	"github.com/Freeeeeet/school_timetable/internal/service"
)

func TestPromotion_HappyPath(t *testing.T) {
	fromSection, fromYear, toSection, toYear := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	alice := &model.Student{ID: uuid.New(), FullName: "Alice"}
	bob := &model.Student{ID: uuid.New(), FullName: "Bob"}

	p := NewPromotion()
	require.NoError(t, p.SelectSource(fromSection, fromYear, toSection, toYear))
	require.NoError(t, p.Preview([]*model.Student{alice, bob}))
	assert.Equal(t, state.StatePromotionPreview, p.State)

	require.NoError(t, p.Confirm([]uuid.UUID{alice.ID}, []uuid.UUID{bob.ID}))
	plan, err := p.Plan()
	require.NoError(t, err)
	assert.Equal(t, &model.Promotion{
		FromSectionID: fromSection, FromYearID: fromYear,
		ToSectionID: toSection, ToYearID: toYear,
		Promoted: []uuid.UUID{alice.ID}, Readmitted: []uuid.UUID{bob.ID},
	}, plan)

	require.NoError(t, p.Complete(plan))
	assert.Equal(t, state.StatePromotionCompleted, p.State)

	err = p.SelectSource(fromSection, fromYear, toSection, toYear)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestPromotion_Guards(t *testing.T) {
	p := NewPromotion()

	assert.ErrorIs(t, p.Preview(nil), ErrInvalidStep, "preview needs source and target")
	_, err := p.Plan()
	assert.ErrorIs(t, err, ErrInvalidStep, "run needs confirmation")

	year := uuid.New()
	err = p.SelectSource(uuid.New(), year, uuid.Nil, year)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.FieldMap()
	assert.Contains(t, fields, "toSectionId")
	assert.Contains(t, fields, "toYearId")

	alice := &model.Student{ID: uuid.New()}
	require.NoError(t, p.SelectSource(uuid.New(), uuid.New(), uuid.New(), uuid.New()))
	require.NoError(t, p.Preview([]*model.Student{alice}))

	err = p.Confirm(nil, nil)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldMap(), "promote")

	err = p.Confirm([]uuid.UUID{uuid.New()}, nil)
	require.ErrorAs(t, err, &verr)

	err = p.Confirm([]uuid.UUID{alice.ID}, []uuid.UUID{alice.ID})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldMap(), "readmit")
	assert.Equal(t, state.StatePromotionPreview, p.State)
}

func TestPromotion_ReselectResetsPreview(t *testing.T) {
	p := NewPromotion()
	require.NoError(t, p.SelectSource(uuid.New(), uuid.New(), uuid.New(), uuid.New()))
	require.NoError(t, p.Preview([]*model.Student{{ID: uuid.New()}}))

	require.NoError(t, p.SelectSource(uuid.New(), uuid.New(), uuid.New(), uuid.New()))
	assert.Equal(t, state.StatePromotionSelect, p.State)
	assert.Empty(t, p.Candidates)
}

func TestMeeting_Flow(t *testing.T) {
	m := NewMeeting()
	start := time.Date(2025, 9, 5, 14, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, m.Participants([]uuid.UUID{uuid.New()}), ErrInvalidStep)

	var verr *service.ValidationError
	require.ErrorAs(t, m.Details("  ", "", ""), &verr)
	assert.Contains(t, verr.FieldMap(), "title")

	require.NoError(t, m.Details(" Staff meeting ", "Term plan", "Hall"))
	assert.Equal(t, "Staff meeting", m.Title)
	assert.Equal(t, state.StateMeetingParticipants, m.State)

	require.ErrorAs(t, m.Participants([]uuid.UUID{uuid.Nil}), &verr)
	teacher := uuid.New()
	require.NoError(t, m.Participants([]uuid.UUID{teacher, teacher}))
	assert.Equal(t, []uuid.UUID{teacher}, m.ParticipantIDs)

	require.ErrorAs(t, m.Schedule(start, start), &verr)
	assert.Contains(t, verr.FieldMap(), "endsAt")
	require.NoError(t, m.Schedule(start, start.Add(time.Hour)))
	assert.Equal(t, state.StateMeetingReview, m.State)

	// возврат к первому шагу не откатывает прогресс
	require.NoError(t, m.Details("Staff meeting (moved)", "", ""))
	assert.Equal(t, state.StateMeetingReview, m.State)

	author := uuid.New()
	draft, err := m.Draft(author)
	require.NoError(t, err)
	assert.Equal(t, "Staff meeting (moved)", draft.Title)
	assert.Equal(t, author, draft.CreatedBy)

	require.NoError(t, m.Complete(draft))
	assert.ErrorIs(t, m.Details("again", "", ""), ErrInvalidStep)
	_, err = m.Draft(author)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestStore(t *testing.T) {
	sm := state.NewManager()
	store := NewStore(sm)
	user := uuid.New()

	p := store.Promotion(user)
	assert.Equal(t, state.StatePromotionSelect, p.State)
	require.NoError(t, p.SelectSource(uuid.New(), uuid.New(), uuid.New(), uuid.New()))
	require.NoError(t, p.Preview(nil))
	store.SavePromotion(user, p)

	assert.Equal(t, state.StatePromotionPreview, sm.GetState("promotion:"+user.String()))
	assert.Equal(t, state.StatePromotionPreview, store.Promotion(user).State)
	assert.Equal(t, state.StateMeetingDetails, store.Meeting(user).State, "wizards are independent")

	store.ResetPromotion(user)
	assert.Equal(t, state.StatePromotionSelect, store.Promotion(user).State)
	assert.Zero(t, sm.Len())
}
