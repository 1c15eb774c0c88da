package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func newTestClient(t *testing.T, handler http.Handler, tokens domain.TokenStore) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		HTTPClient:    srv.Client(),
		BaseURL:       srv.URL + "/api/v1/",
		AuthURL:       srv.URL,
		Timeout:       2 * time.Second,
		NaiveLocation: saoPaulo,
	}, tokens)
}

func loggedIn() *testutil.MockTokenStore {
	return &testutil.MockTokenStore{Token: domain.Token{AccessToken: "tok-123", TokenType: "bearer"}}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

const listBody = `[
  {
    "id": "h-1", "title": "Read", "difficulty": "EASY", "task_type": "habit",
    "completed": false, "created_at": "2025-01-01T08:00:00", "user_id": "u-1",
    "frequency_type": "SPECIFIC_DAYS", "frequency_days": [0, 2, 4],
    "current_streak": "3", "best_streak": 5, "times_completed_this_week": 2,
    "last_completed_at": "2025-01-15T07:30:00Z",
    "tags": [{"id": "t-1", "name": "health", "color": "#00FF00", "user_id": "u-1", "created_at": "2025-01-01T00:00:00"}]
  },
  {
    "id": "d-1", "title": "Taxes", "difficulty": "hard", "task_type": "todo",
    "completed": true, "created_at": "2025-01-02T09:00:00.123456", "user_id": "u-1",
    "deadline": "2025-12-31T23:59:59", "completed_at": null, "description": null
  },
  {"id": "x-1", "title": "Mystery", "difficulty": "EASY", "task_type": "chore", "created_at": "2025-01-01T00:00:00"}
]`

func TestClient_ListTasks(t *testing.T) {
	// Setup
	var gotAuth, gotRequestID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, listBody)
	})
	client := newTestClient(t, mux, loggedIn())

	// Execute
	tasks, err := client.ListTasks(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Len(t, gotRequestID, 36)
	require.Len(t, tasks, 2, "unknown task types are skipped")

	habit, ok := tasks[0].(domain.Habit)
	require.True(t, ok)
	assert.Equal(t, domain.FrequencySpecificDays, habit.FrequencyType)
	assert.Equal(t, []int{0, 2, 4}, habit.FrequencyDays)
	assert.Equal(t, 3, habit.CurrentStreak)
	assert.Equal(t, 5, habit.BestStreak)
	assert.Equal(t, 2, habit.TimesCompletedThisWeek)
	require.NotNil(t, habit.LastCompletedAt)
	assert.True(t, habit.LastCompletedAt.Equal(time.Date(2025, time.January, 15, 7, 30, 0, 0, time.UTC)))
	assert.True(t, habit.CreatedAt.Equal(time.Date(2025, time.January, 1, 8, 0, 0, 0, saoPaulo)))
	assert.True(t, habit.HasTag("health"))

	todo, ok := tasks[1].(domain.Todo)
	require.True(t, ok)
	assert.Equal(t, domain.DifficultyHard, todo.Difficulty)
	assert.True(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
	require.NotNil(t, todo.Deadline)
	assert.True(t, todo.Deadline.Equal(time.Date(2025, time.December, 31, 23, 59, 59, 0, saoPaulo)))
}

func TestClient_NoTokenSendsNothing(t *testing.T) {
	// Setup
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, "[]")
	}), &testutil.MockTokenStore{})

	// Execute
	_, err := client.ListTasks(context.Background())

	// Assert
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_ExpiredToken(t *testing.T) {
	// Setup
	tokens := loggedIn()
	tokens.Token.Expiry = time.Now().Add(-time.Minute)
	client := newTestClient(t, http.NotFoundHandler(), tokens)

	// Execute
	_, err := client.CurrentUser(context.Background())

	// Assert
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClient_CompleteTask(t *testing.T) {
	// Setup
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks/h-1/complete", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
		  "message": "Task completed",
		  "user": {"id": "u-1", "username": "ana", "email": "a@x.io", "xp": "150", "level": 2, "coins": 7},
		  "task_completion": {"id": "c-1", "task_id": "h-1", "user_id": "u-1", "completed_at": "2025-01-15T10:00:00", "xp_earned": 10},
		  "streak_info": {"current_streak": 7, "best_streak": 7, "last_completed_at": "2025-01-15T10:00:00"},
		  "level_up": true,
		  "previous_level": "1"
		}`)
	})
	client := newTestClient(t, mux, loggedIn())

	// Execute
	resp, err := client.CompleteTask(context.Background(), "h-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Completion.XPEarned)
	assert.True(t, resp.Completion.CompletedAt.Equal(time.Date(2025, time.January, 15, 10, 0, 0, 0, saoPaulo)))
	require.NotNil(t, resp.Streak)
	assert.Equal(t, 7, resp.Streak.CurrentStreak)
	require.NotNil(t, resp.User)
	assert.Equal(t, domain.Numeric("150"), resp.User.XP)
	assert.True(t, domain.NumericGreater(resp.User.Level, resp.PreviousLevel))

	effects := domain.ProcessCompletion(resp, resp.PreviousLevel)
	assert.True(t, domain.HasEffect(effects, domain.EffectLevelUp))
	assert.True(t, domain.HasEffect(effects, domain.EffectCelebration))
}

func TestClient_CompleteTaskConflict(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad request", `{"detail": "Task has already been completed today"}`, http.StatusBadRequest},
		{"phrase on other status", `{"message": "Habit has already been completed"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}), loggedIn())

			// Execute
			_, err := client.CompleteTask(context.Background(), "h-1")

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConflict)
			var derr *domain.Error
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, tt.status, derr.Status)
		})
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantKind  domain.ErrorKind
		wantField string
		status    int
	}{
		{"unauthorized", `{"detail": "Could not validate credentials"}`, domain.KindUnauthorized, "", http.StatusUnauthorized},
		{"forbidden", `{}`, domain.KindUnauthorized, "", http.StatusForbidden},
		{"not found", `{"detail": "Task not found"}`, domain.KindNotFound, "", http.StatusNotFound},
		{"conflict", `{"detail": "duplicate"}`, domain.KindConflict, "", http.StatusConflict},
		{"field errors", `{"detail": [{"loc": ["body", "title"], "msg": "field required", "type": "missing"}]}`, domain.KindValidation, "title", http.StatusUnprocessableEntity},
		{"plain bad request", `{"detail": "Title too long"}`, domain.KindValidation, "", http.StatusBadRequest},
		{"server error", `oops`, domain.KindNetwork, "", http.StatusBadGateway},
		{"other", `{}`, domain.KindBackend, "", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}), loggedIn())

			// Execute
			_, err := client.UncompleteTask(context.Background(), "h-1")

			// Assert
			var derr *domain.Error
			require.True(t, errors.As(err, &derr), "got %v", err)
			assert.Equal(t, tt.wantKind, derr.Kind)
			assert.Equal(t, tt.wantField, derr.Field)
			assert.Equal(t, tt.status, derr.Status)
			assert.NotEmpty(t, derr.Message)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	// Setup
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	client := New(Options{HTTPClient: srv.Client(), BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, loggedIn())

	// Execute
	_, err := client.ListTasks(context.Background())

	// Assert
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClient_ConnectionRefused(t *testing.T) {
	// Setup
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := New(Options{BaseURL: url}, loggedIn())

	// Execute
	_, err := client.ListTasks(context.Background())

	// Assert
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_CreateRequests(t *testing.T) {
	// Setup
	var habitBody, todoBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/tasks/habits/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&habitBody)
		writeJSON(w, http.StatusCreated, `{"id": "h-9", "title": "Run", "difficulty": "MEDIUM", "task_type": "habit",
			"created_at": "2025-01-15T10:00:00", "frequency_type": "SPECIFIC_DAYS", "frequency_days": [1, 3]}`)
	})
	mux.HandleFunc("POST /api/v1/tasks/todos/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&todoBody)
		writeJSON(w, http.StatusCreated, `{"id": "d-9", "title": "Call", "difficulty": "EASY", "task_type": "todo",
			"created_at": "2025-01-15T10:00:00", "deadline": "2025-02-01T18:00:00"}`)
	})
	client := newTestClient(t, mux, loggedIn())
	deadline := time.Date(2025, time.February, 1, 21, 0, 0, 0, time.UTC)

	// Execute
	habit, err := client.CreateHabit(context.Background(), domain.HabitDraft{
		Title: "Run", Difficulty: domain.DifficultyMedium,
		FrequencyType: domain.FrequencySpecificDays, FrequencyDays: []int{1, 3},
	})
	require.NoError(t, err)
	todo, err := client.CreateTodo(context.Background(), domain.TodoDraft{
		Title: "Call", Difficulty: domain.DifficultyEasy, Deadline: &deadline,
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "h-9", habit.ID)
	assert.Equal(t, "SPECIFIC_DAYS", habitBody["frequency_type"])
	assert.Equal(t, []any{1.0, 3.0}, habitBody["frequency_days"])
	assert.NotContains(t, habitBody, "frequency_target_times")

	assert.Equal(t, "d-9", todo.ID)
	assert.Equal(t, "2025-02-01T18:00:00", todoBody["deadline"], "deadline is sent naive in the backend zone")
	require.NotNil(t, todo.Deadline)
	assert.True(t, todo.Deadline.Equal(deadline))
}

func TestClient_UpdateSendsOnlySetFields(t *testing.T) {
	// Setup
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/tasks/habits/h-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, `{"id": "h-1", "title": "Walk", "difficulty": "EASY", "task_type": "habit",
			"created_at": "2025-01-15T10:00:00", "frequency_type": "DAILY"}`)
	})
	client := newTestClient(t, mux, loggedIn())
	title := "Walk"

	// Execute
	_, err := client.UpdateHabit(context.Background(), "h-1", domain.HabitPatch{Title: &title})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Walk"}, body)
}

func TestClient_RegisterIsPublic(t *testing.T) {
	// Setup
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusCreated, `{"id": "u-2", "username": "bo", "email": "bo@x.io"}`)
	})
	client := newTestClient(t, mux, &testutil.MockTokenStore{})

	// Execute
	user, err := client.Register(context.Background(), domain.RegisterRequest{Username: "bo", Email: "bo@x.io", Password: "pw"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "u-2", user.ID)
	assert.Equal(t, 1, user.Level)
}

func TestClient_Login(t *testing.T) {
	// Setup
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("password") != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"detail": "Incorrect username or password"}`)
			return
		}
		assert.Equal(t, "ana", r.PostForm.Get("username"))
		writeJSON(w, http.StatusOK, `{"access_token": "jwt-abc", "token_type": "bearer"}`)
	})
	client := newTestClient(t, mux, &testutil.MockTokenStore{})

	// Execute
	tok, err := client.Login(context.Background(), "ana", "secret")
	_, badErr := client.Login(context.Background(), "ana", "wrong")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", tok.AccessToken)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.ErrorIs(t, badErr, domain.ErrUnauthorized)
	assert.Contains(t, badErr.Error(), "Incorrect username or password")
}

func TestClient_RequestIDIsStampedOnceAndLogged(t *testing.T) {
	// Setup
	var apiID, loginID string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		apiID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, `{"id": "u-1", "username": "ana", "email": "ana@example.com", "xp": 0, "level": 1}`)
	})
	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		loginID = r.Header.Get(RequestIDHeader)
		writeJSON(w, http.StatusOK, `{"access_token": "jwt-abc", "token_type": "bearer"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	logger := &testutil.MockLogger{}
	client := New(Options{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL + "/api/v1/",
		AuthURL:    srv.URL,
		Timeout:    2 * time.Second,
		Logger:     logger,
	}, loggedIn())

	// Execute
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	_, err = client.Login(context.Background(), "ana", "secret")
	require.NoError(t, err)

	// Assert
	assert.Len(t, apiID, 36)
	assert.Len(t, loginID, 36, "login goes through the same transport")
	assert.NotEqual(t, apiID, loginID)
	require.NotEmpty(t, logger.Entries)
	assert.Contains(t, logger.Entries[0].Msg, "["+apiID+"]", "the logged ID is the one sent")
}

func TestClient_StatsEndpoints(t *testing.T) {
	// Setup
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/dashboard/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"total_xp": 250, "current_level": "3", "total_tasks_completed": 21, "current_streak": 4}`)
	})
	mux.HandleFunc("GET /api/v1/dashboard/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"entries": [{"date": "2025-01-14", "tasks_completed": 3, "xp_earned": 50}], "total_days": 1}`)
	})
	mux.HandleFunc("GET /api/v1/achievements/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": "a-1", "name": "First", "description": "d", "icon": "*", "unlocked_at": "2025-01-02T00:00:00", "progress": 100},
			{"id": "a-2", "name": "Week", "description": "d", "icon": "+", "progress": 40, "target": 7}]`)
	})
	client := newTestClient(t, mux, loggedIn())
	ctx := context.Background()

	// Execute
	stats, err := client.DashboardStats(ctx)
	require.NoError(t, err)
	history, err := client.History(ctx)
	require.NoError(t, err)
	achievements, err := client.Achievements(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 250, stats.TotalXP)
	assert.Equal(t, 3, stats.CurrentLevel)
	require.Len(t, history, 1)
	assert.Equal(t, domain.CompletionHistoryEntry{CompletedDate: "2025-01-14", TasksCompleted: 3, XPEarned: 50}, history[0])
	require.Len(t, achievements, 2)
	assert.True(t, achievements[0].Unlocked())
	assert.False(t, achievements[1].Unlocked())
	assert.Equal(t, 7, achievements[1].Target)
}

func TestClient_TagEndpoints(t *testing.T) {
	// Setup
	var attached, detached string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tags/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": "t-1", "name": "health", "color": "#0F0", "user_id": "u-1", "created_at": "2025-01-01T00:00:00Z"}]`)
	})
	mux.HandleFunc("POST /api/v1/tasks/{task}/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		attached = r.PathValue("task") + ":" + r.PathValue("tag")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/v1/tasks/{task}/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		detached = r.PathValue("task") + ":" + r.PathValue("tag")
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/tasks/by-tag/t-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, listBody)
	})
	client := newTestClient(t, mux, loggedIn())
	ctx := context.Background()

	// Execute
	tags, err := client.ListTags(ctx)
	require.NoError(t, err)
	require.NoError(t, client.AttachTag(ctx, "h-1", "t-1"))
	require.NoError(t, client.DetachTag(ctx, "h-1", "t-1"))
	tasks, err := client.TasksByTag(ctx, "t-1")
	require.NoError(t, err)

	// Assert
	require.Len(t, tags, 1)
	assert.Equal(t, "health", tags[0].Name)
	assert.Equal(t, "h-1:t-1", attached)
	assert.Equal(t, "h-1:t-1", detached)
	assert.Len(t, tasks, 2)
}

func TestClient_UpdateAndDeleteTag(t *testing.T) {
	// Setup
	var updateBody map[string]any
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&updateBody)
		writeJSON(w, http.StatusOK, `{"id": "`+r.PathValue("tag")+`", "name": "focus", "color": "#0F0", "user_id": "u-1", "created_at": "2025-01-01T00:00:00"}`)
	})
	mux.HandleFunc("DELETE /api/v1/tags/{tag}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("tag")
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux, loggedIn())
	ctx := context.Background()

	// Execute
	tag, err := client.UpdateTag(ctx, "t-1", "focus", "")
	require.NoError(t, err)
	require.NoError(t, client.DeleteTag(ctx, "t-1"))

	// Assert
	assert.Equal(t, "t-1", tag.ID)
	assert.Equal(t, "focus", tag.Name)
	assert.False(t, tag.CreatedAt.IsZero())
	assert.Equal(t, map[string]any{"name": "focus"}, updateBody, "unchanged fields are omitted")
	assert.Equal(t, "t-1", deleted)
}

func TestWireTime_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-12-31T23:59:59", time.Date(2025, time.December, 31, 23, 59, 59, 0, saoPaulo)},
		{"2025-12-31T23:59:59.5", time.Date(2025, time.December, 31, 23, 59, 59, 500_000_000, saoPaulo)},
		{"2025-12-31 23:59:59", time.Date(2025, time.December, 31, 23, 59, 59, 0, saoPaulo)},
		{"2025-12-31", time.Date(2025, time.December, 31, 0, 0, 0, 0, saoPaulo)},
		{"2025-12-31T23:59:59Z", time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{"2025-12-31T23:59:59+01:00", time.Date(2025, time.December, 31, 22, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := wireTime(tt.in).parse(saoPaulo)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}

	empty, err := wireTime("").parse(saoPaulo)
	assert.NoError(t, err)
	assert.Nil(t, empty)

	_, err = wireTime("yesterday").parse(saoPaulo)
	assert.Error(t, err)
}
