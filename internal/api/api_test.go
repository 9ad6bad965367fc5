package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/auth"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/seed"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

const token = "MOCK-TOKEN"

type envelope[T any] struct {
	Data      T                  `json:"data"`
	Meta      map[string]any     `json:"meta"`
	Error     *internal.AppError `json:"error"`
	RequestID string             `json:"requestId"`
}

type fixture struct {
	router *gin.Engine
	store  *storage.MemoryStore
	db     *storage.MemoryDatabase
}

func setup(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewNopLogger()
	store := storage.NewMemoryStore()
	db := storage.NewMemoryDatabase()
	t.Cleanup(func() { _ = db.Close() })
	m := metrics.New()

	deps := service.EntryDeps{
		Loader:  entry.NewLoader(store, logger, m),
		Dates:   timefmt.NewDates(timefmt.FixedClock{T: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}),
		Logger:  logger,
		Metrics: m,
	}
	app := NewApplication(logger, deps, db, m)
	provider := auth.NewLocalAuthProvider(token, "u1", "Demo Sleeper", logger)
	return fixture{router: NewRouter(app, provider, "development"), store: store, db: db}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

const lastNight = `{"date":"2026-10-16","startTime":"2230","endTime":"0615","quality":80,
	"entryFactors":{"f1":{"name":"caffeine","category":"chemical"},"f2":{"name":"napped","category":"practice"}},
	"notes":"woke once"}`

func TestUnauthenticatedRoutes(t *testing.T) {
	f := setup(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries/today", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostViewEntry(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/entries/view", lastNight)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[entry.ViewModel](t, rec).Data

	assert.Equal(t, "Friday, October 16, 2026", view.FormattedDate)
	assert.Equal(t, "10:30 PM", view.BedTime)
	assert.Equal(t, "6:15 AM", view.WakeTime)
	assert.Equal(t, 7, view.DurationHours)
	assert.Equal(t, 45, view.DurationMinutes)
	assert.Equal(t, []string{"caffeine", "napped"}, view.Factors)
	assert.True(t, view.CanEdit)

	// a provided entry never touches the cache
	_, found, _ := f.store.GetItem(context.Background(), entry.YesterdaysEntryKey)
	assert.False(t, found)
}

func TestPostViewEntry_Invalid(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/entries/view",
		`{"date":"16/10/2026","startTime":"22:30","endTime":"0615","quality":120,"entryFactors":{"f1":{"name":""}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[any](t, rec)
	assert.Equal(t, 400, env.Error.Code)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, map[string]string{
		"date":                  "must be a date like 2026-10-16",
		"startTime":             "must be a 24-hour time like 2230",
		"quality":               "must be between 0 and 100",
		"entryFactors[f1].name": "is required",
	}, env.Error.Fields)

	rec = f.do(t, http.MethodPost, "/entries/view", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodayEntry_FallsBackToCache(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/entries/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	blank := decode[entry.ViewModel](t, rec)
	assert.Empty(t, blank.Data.FormattedDate)
	assert.Empty(t, blank.Data.Factors)
	assert.True(t, blank.Data.CanEdit)
	assert.Equal(t, "fallback", blank.Meta["source"])

	rec = f.do(t, http.MethodPut, "/entries/yesterday", lastNight)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/entries/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[entry.ViewModel](t, rec).Data
	assert.Equal(t, "10:30 PM", view.BedTime)
	assert.Equal(t, "woke once", view.Notes)
}

func TestPutYesterdaysEntry_Invalid(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPut, "/entries/yesterday", `{"date":"yesterday","startTime":"2230","endTime":"0615"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, found, _ := f.store.GetItem(context.Background(), entry.YesterdaysEntryKey)
	assert.False(t, found)
}

func TestPostEditEntry(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"yesterday's entry", lastNight, http.StatusOK},
		{"older entry", `{"date":"2026-10-10","startTime":"2300","endTime":"0700","quality":50}`, http.StatusConflict},
		{"no entry uses fallback", "", http.StatusOK},
		{"undated entry uses fallback", `{"notes":"draft"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			rec := f.do(t, http.MethodPost, "/entries/edit", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, entry.EditRoute, decode[EditResponse](t, rec).Data.Route)
			} else {
				env := decode[entry.ViewModel](t, rec)
				assert.Equal(t, 409, env.Error.Code)
				assert.Equal(t, "Saturday, October 10, 2026", env.Data.FormattedDate)
				assert.False(t, env.Data.CanEdit)
			}
		})
	}
}

func TestFactorsAndProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec := f.do(t, http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 404, decode[any](t, rec).Error.Code)

	_, err := seed.New(f.db, internal.NewNopLogger(), nil).Run(ctx, seed.Options{
		UserID:  "u1",
		Profile: internal.UserProfile{Name: "Demo Sleeper", SleepGoalStart: "2245", SleepGoalEnd: "0700"},
	})
	require.NoError(t, err)

	rec = f.do(t, http.MethodGet, "/factors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	factors := decode[map[string]internal.SleepFactor](t, rec)
	assert.Len(t, factors.Data, len(seed.DefaultFactors))
	assert.EqualValues(t, len(seed.DefaultFactors), factors.Meta["count"])

	rec = f.do(t, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[service.ProfileView](t, rec).Data
	assert.Equal(t, "10:45 PM", profile.GoalBedTime)
	assert.Equal(t, "7:00 AM", profile.GoalWakeTime)
	assert.Len(t, profile.Factors, len(seed.DefaultFactors))
}

func TestStreamFactors(t *testing.T) {
	f := setup(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/factors/stream?access_token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first map[string]internal.SleepFactor
	require.NoError(t, conn.ReadJSON(&first))
	assert.Empty(t, first)

	id, err := f.db.Push(context.Background(), seed.FactorsPath, internal.SleepFactor{Name: "melatonin", Category: internal.CategoryChemical})
	require.NoError(t, err)

	var next map[string]internal.SleepFactor
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "melatonin", next[id].Name)
}

func TestMetricsEndpoint(t *testing.T) {
	f := setup(t)
	f.do(t, http.MethodGet, "/entries/today", "")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sleepdiary_entry_loads_total{outcome="missing",source="fallback"} 1`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}
