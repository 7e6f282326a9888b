package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/service"
)

type apiRecorder struct {
	mu      sync.Mutex
	paths   []string
	bodies  []string
	respond string
}

func (r *apiRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	r.bodies = append(r.bodies, string(body))
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, r.respond)
}

func TestNotifier_TimetableSaved(t *testing.T) {
	rec := &apiRecorder{respond: `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"group"}}}`}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n, err := NewNotifier("123:token", 42, zap.NewNop(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)

	err = n.TimetableSaved(context.Background(), service.TimetableNotice{
		SectionName:   "7-Б <A>",
		YearName:      "2025/2026",
		FilledPeriods: 21,
		Image:         []byte("\x89PNG"),
	})
	require.NoError(t, err)

	require.Len(t, rec.paths, 1)
	assert.True(t, strings.HasSuffix(rec.paths[0], "/sendPhoto"), rec.paths[0])
	assert.Contains(t, rec.bodies[0], "timetable.png")
	assert.Contains(t, rec.bodies[0], "7-Б &lt;A&gt;")
	assert.Contains(t, rec.bodies[0], "21 урок")
}

func TestNotifier_APIError(t *testing.T) {
	rec := &apiRecorder{respond: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n, err := NewNotifier("123:token", 42, zap.NewNop(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)

	err = n.TimetableSaved(context.Background(), service.TimetableNotice{SectionName: "7-Б", Image: []byte("x")})
	assert.Error(t, err)
}

func TestCaption(t *testing.T) {
	got := caption(service.TimetableNotice{SectionName: "5-А", FilledPeriods: 3})
	assert.Contains(t, got, "<b>5-А</b>")
	assert.NotContains(t, got, "Учебный год")
	assert.Contains(t, got, "3 урока")
}

func TestPluralizeLessons(t *testing.T) {
	tests := map[int]string{0: "уроков", 1: "урок", 2: "урока", 5: "уроков", 11: "уроков", 21: "урок", 34: "урока", 112: "уроков"}
	for n, want := range tests {
		assert.Equal(t, want, pluralizeLessons(n), n)
	}
}
