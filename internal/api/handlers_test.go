// Filmorate - Film Catalog and Social Graph Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmorate

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmorate/internal/events"
	"github.com/tomtom215/filmorate/internal/models"
	"github.com/tomtom215/filmorate/internal/service"
	"github.com/tomtom215/filmorate/internal/storage"
	"github.com/tomtom215/filmorate/internal/storage/memory"
)

// errorBody mirrors models.ErrorResponse with decodable violations.
type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Violations []models.Violation `json:"violations"`
		} `json:"details"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })
	return newTestServerWith(store, store, nil)
}

func newTestServerWith(store storage.Store, pinger Pinger, mw *ChiMiddleware) http.Handler {
	publisher := events.NewDirectPublisher(store)
	h := NewHandler(HandlerConfig{
		Users:   service.NewUserService(store, publisher),
		Films:   service.NewFilmService(store, publisher),
		Genres:  service.NewGenreService(store),
		Mpa:     service.NewMpaService(store),
		Store:   pinger,
		Backend: "memory",
	})
	if mw == nil {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
		mw = NewChiMiddleware(cfg)
	}
	return NewRouter(h, mw).SetupChi()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code, field string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decode[errorBody](t, rec)
	if body.Success {
		t.Error("success = true on error response")
	}
	if body.Error.Code != code {
		t.Errorf("code = %q, want %q", body.Error.Code, code)
	}
	if body.Error.RequestID == "" {
		t.Error("request_id missing from error response")
	}
	if field == "" {
		return
	}
	for _, v := range body.Error.Details.Violations {
		if v.FieldName == field {
			return
		}
	}
	t.Errorf("no violation for field %q in %+v", field, body.Error.Details.Violations)
}

const (
	userJSON = `{"email":"%s@example.com","login":"%s","name":"%s","birthday":"1990-05-01"}`
	filmJSON = `{"name":"%s","description":"d","releaseDate":"2000-01-01","duration":100,"mpa":{"id":1}}`
)

func createUser(t *testing.T, h http.Handler, login, name string) models.User {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users", fmt.Sprintf(userJSON, login, login, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[models.User](t, rec)
}

func createFilm(t *testing.T, h http.Handler, name string) models.Film {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/films", fmt.Sprintf(filmJSON, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create film: status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[models.Film](t, rec)
}

func TestUsers_CreateAndUpdate(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	user := createUser(t, h, "dolore", "")
	if user.ID != 1 {
		t.Errorf("id = %d, want 1", user.ID)
	}
	if user.Name != "dolore" {
		t.Errorf("blank name should default to login, got %q", user.Name)
	}

	rec := do(t, h, http.MethodPut, "/users",
		fmt.Sprintf(`{"id":%d,"email":"new@example.com","login":"dolore","name":"Nick","birthday":"1990-05-01"}`, user.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[models.User](t, rec); got.Email != "new@example.com" || got.Name != "Nick" {
		t.Errorf("updated user = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/users", "")
	if users := decode[[]models.User](t, rec); len(users) != 1 {
		t.Errorf("list len = %d, want 1", len(users))
	}
}

func TestUsers_Errors(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	createUser(t, h, "alice", "Alice")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
		field  string
	}{
		{"post with id", http.MethodPost, "/users", `{"id":5,"email":"a@b.com","login":"x","birthday":"1990-01-01"}`, 400, models.ErrCodeValidation, "id"},
		{"invalid email", http.MethodPost, "/users", `{"email":"nope","login":"x","birthday":"1990-01-01"}`, 400, models.ErrCodeValidation, "email"},
		{"login with space", http.MethodPost, "/users", `{"email":"a@b.com","login":"a b","birthday":"1990-01-01"}`, 400, models.ErrCodeValidation, "login"},
		{"future birthday", http.MethodPost, "/users", `{"email":"a@b.com","login":"x","birthday":"2999-01-01"}`, 400, models.ErrCodeValidation, "birthday"},
		{"malformed json", http.MethodPost, "/users", `{"email":`, 400, models.ErrCodeBadRequest, "body"},
		{"put without id", http.MethodPut, "/users", `{"email":"a@b.com","login":"x","birthday":"1990-01-01"}`, 400, models.ErrCodeValidation, "id"},
		{"put unknown id", http.MethodPut, "/users", `{"id":99,"email":"a@b.com","login":"x","birthday":"1990-01-01"}`, 404, models.ErrCodeNotFound, "id"},
		{"get unknown", http.MethodGet, "/users/99", "", 404, models.ErrCodeNotFound, "id"},
		{"non-numeric id", http.MethodGet, "/users/abc", "", 400, models.ErrCodeBadRequest, "id"},
		{"negative id", http.MethodGet, "/users/-1", "", 404, models.ErrCodeNotFound, "id"},
		{"zero id", http.MethodGet, "/users/0", "", 404, models.ErrCodeNotFound, "id"},
		{"negative friend id", http.MethodPut, "/users/1/friends/-1", "", 404, models.ErrCodeNotFound, "id"},
		{"negative common friend id", http.MethodGet, "/users/1/friends/common/-1", "", 404, models.ErrCodeNotFound, "id"},
		{"self friendship", http.MethodPut, "/users/1/friends/1", "", 400, models.ErrCodeBadRequest, "error"},
		{"unknown friend", http.MethodPut, "/users/1/friends/42", "", 404, models.ErrCodeNotFound, "id"},
		{"feed of unknown user", http.MethodGet, "/users/42/feed", "", 404, models.ErrCodeNotFound, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			expectError(t, rec, tt.status, tt.code, tt.field)
		})
	}
}

func TestFriends_OneDirectionalAndCommon(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	a := createUser(t, h, "a", "A")
	b := createUser(t, h, "b", "B")
	c := createUser(t, h, "c", "C")

	for _, path := range []string{
		fmt.Sprintf("/users/%d/friends/%d", a.ID, c.ID),
		fmt.Sprintf("/users/%d/friends/%d", b.ID, c.ID),
	} {
		rec := do(t, h, http.MethodPut, path, "")
		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Fatalf("PUT %s: status = %d, body %q", path, rec.Code, rec.Body.String())
		}
	}

	rec := do(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends", a.ID), "")
	if friends := decode[[]models.User](t, rec); len(friends) != 1 || friends[0].ID != c.ID {
		t.Errorf("friends of a = %+v", friends)
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends", c.ID), "")
	if friends := decode[[]models.User](t, rec); len(friends) != 0 {
		t.Errorf("friendship should be one-directional, c has %d friends", len(friends))
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/users/%d/friends/common/%d", a.ID, b.ID), "")
	if common := decode[[]models.User](t, rec); len(common) != 1 || common[0].ID != c.ID {
		t.Errorf("common friends = %+v", common)
	}

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", a.ID, c.ID), "")
	expectError(t, rec, http.StatusBadRequest, models.ErrCodeBadRequest, "error")

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", a.ID, c.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove friend: status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/users/%d/feed", a.ID), "")
	feed := decode[[]models.FeedEvent](t, rec)
	if len(feed) != 2 {
		t.Fatalf("feed len = %d, want 2: %+v", len(feed), feed)
	}
	if feed[0].Operation != models.OperationAdd || feed[1].Operation != models.OperationRemove {
		t.Errorf("feed operations = %s, %s", feed[0].Operation, feed[1].Operation)
	}
	for _, e := range feed {
		if e.EventType != models.EventTypeFriend || e.EntityID != c.ID {
			t.Errorf("unexpected feed event %+v", e)
		}
	}
}

func TestFilms_CreateEnrichesReferenceData(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/films",
		`{"name":"Heat","description":"","releaseDate":"1995-12-15","duration":170,"mpa":{"id":4},"genres":[{"id":4},{"id":6},{"id":4}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	film := decode[models.Film](t, rec)
	if film.Mpa == nil || film.Mpa.Name != "R" {
		t.Errorf("mpa = %+v, want R", film.Mpa)
	}
	if len(film.Genres) != 2 || film.Genres[0].ID != 4 || film.Genres[1].ID != 6 {
		t.Errorf("genres = %+v, want [4 6]", film.Genres)
	}
	if film.Genres[0].Name != "Thriller" {
		t.Errorf("genre name = %q", film.Genres[0].Name)
	}

	rec = do(t, h, http.MethodPost, "/films",
		`{"name":"NoRating","releaseDate":"2001-01-01","duration":90}`)
	if got := decode[models.Film](t, rec); got.Mpa == nil || got.Mpa.ID != models.DefaultMpaID {
		t.Errorf("missing rating should default to %d, got %+v", models.DefaultMpaID, got.Mpa)
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/films/%d", film.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get film: status = %d", rec.Code)
	}
}

func TestFilms_Errors(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
		field  string
	}{
		{"blank name", http.MethodPost, "/films", `{"name":"  ","releaseDate":"2000-01-01","duration":1}`, 400, models.ErrCodeValidation, "name"},
		{"long description", http.MethodPost, "/films", fmt.Sprintf(`{"name":"x","description":"%s","releaseDate":"2000-01-01","duration":1}`, strings.Repeat("a", 201)), 400, models.ErrCodeValidation, "description"},
		{"too early", http.MethodPost, "/films", `{"name":"x","releaseDate":"1895-12-27","duration":1}`, 400, models.ErrCodeValidation, "releaseDate"},
		{"zero duration", http.MethodPost, "/films", `{"name":"x","releaseDate":"2000-01-01","duration":0}`, 400, models.ErrCodeValidation, "duration"},
		{"unknown genre", http.MethodPost, "/films", `{"name":"x","releaseDate":"2000-01-01","duration":1,"genres":[{"id":99}]}`, 404, models.ErrCodeNotFound, "id"},
		{"unknown rating", http.MethodPost, "/films", `{"name":"x","releaseDate":"2000-01-01","duration":1,"mpa":{"id":99}}`, 404, models.ErrCodeNotFound, "id"},
		{"post with id", http.MethodPost, "/films", `{"id":3,"name":"x","releaseDate":"2000-01-01","duration":1}`, 400, models.ErrCodeValidation, "id"},
		{"put without id", http.MethodPut, "/films", `{"name":"x","releaseDate":"2000-01-01","duration":1}`, 400, models.ErrCodeValidation, "id"},
		{"put unknown", http.MethodPut, "/films", `{"id":9,"name":"x","releaseDate":"2000-01-01","duration":1}`, 404, models.ErrCodeNotFound, "id"},
		{"get unknown", http.MethodGet, "/films/9", "", 404, models.ErrCodeNotFound, "id"},
		{"non-numeric id", http.MethodGet, "/films/abc", "", 400, models.ErrCodeBadRequest, "id"},
		{"zero id", http.MethodGet, "/films/0", "", 404, models.ErrCodeNotFound, "id"},
		{"like by negative user", http.MethodPut, "/films/1/like/-1", "", 404, models.ErrCodeNotFound, "id"},
		{"negative genre id", http.MethodGet, "/genres/-1", "", 404, models.ErrCodeNotFound, "id"},
		{"zero count", http.MethodGet, "/films/popular?count=0", "", 400, models.ErrCodeBadRequest, "error"},
		{"non-numeric count", http.MethodGet, "/films/popular?count=ten", "", 400, models.ErrCodeBadRequest, "count"},
		{"like unknown film", http.MethodPut, "/films/9/like/1", "", 404, models.ErrCodeNotFound, "id"},
		{"empty body", http.MethodPost, "/films", "", 400, models.ErrCodeBadRequest, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			expectError(t, rec, tt.status, tt.code, tt.field)
		})
	}
}

func TestFilms_LikesAndPopular(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	u1 := createUser(t, h, "u1", "U1")
	u2 := createUser(t, h, "u2", "U2")
	f1 := createFilm(t, h, "First")
	f2 := createFilm(t, h, "Second")
	f3 := createFilm(t, h, "Third")

	like := func(film, user int64) *httptest.ResponseRecorder {
		return do(t, h, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", film, user), "")
	}
	for _, l := range [][2]int64{{f2.ID, u1.ID}, {f2.ID, u2.ID}, {f3.ID, u1.ID}} {
		if rec := like(l[0], l[1]); rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Fatalf("like %v: status = %d body %q", l, rec.Code, rec.Body.String())
		}
	}

	expectError(t, like(f2.ID, u1.ID), http.StatusBadRequest, models.ErrCodeBadRequest, "error")

	rec := do(t, h, http.MethodGet, "/films/popular", "")
	popular := decode[[]models.Film](t, rec)
	if len(popular) != 3 {
		t.Fatalf("popular len = %d, want 3", len(popular))
	}
	if popular[0].ID != f2.ID || popular[1].ID != f3.ID || popular[2].ID != f1.ID {
		t.Errorf("popular order = [%d %d %d], want [%d %d %d]",
			popular[0].ID, popular[1].ID, popular[2].ID, f2.ID, f3.ID, f1.ID)
	}

	rec = do(t, h, http.MethodGet, "/films/popular?count=1", "")
	if top := decode[[]models.Film](t, rec); len(top) != 1 || top[0].ID != f2.ID {
		t.Errorf("count=1 result = %+v", top)
	}

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/films/%d/like/%d", f2.ID, u1.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove like: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/films/%d/like/%d", f2.ID, u1.ID), "")
	expectError(t, rec, http.StatusBadRequest, models.ErrCodeBadRequest, "error")

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/users/%d/feed", u1.ID), "")
	feed := decode[[]models.FeedEvent](t, rec)
	if len(feed) != 3 {
		t.Fatalf("feed len = %d, want 3", len(feed))
	}
	if feed[2].EventType != models.EventTypeLike || feed[2].Operation != models.OperationRemove || feed[2].EntityID != f2.ID {
		t.Errorf("last feed event = %+v", feed[2])
	}
}

func TestReferenceEndpoints(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/genres", "")
	if genres := decode[[]models.Genre](t, rec); len(genres) != len(models.DefaultGenres()) {
		t.Errorf("genres len = %d", len(genres))
	}

	rec = do(t, h, http.MethodGet, "/genres/1", "")
	if g := decode[models.Genre](t, rec); g.Name != "Comedy" {
		t.Errorf("genre 1 = %+v", g)
	}

	rec = do(t, h, http.MethodGet, "/mpa", "")
	if ratings := decode[[]models.MpaRating](t, rec); len(ratings) != 5 || ratings[2].Name != "PG-13" {
		t.Errorf("ratings = %+v", ratings)
	}

	expectError(t, do(t, h, http.MethodGet, "/genres/99", ""), 404, models.ErrCodeNotFound, "id")
	expectError(t, do(t, h, http.MethodGet, "/mpa/99", ""), 404, models.ErrCodeNotFound, "id")
	expectError(t, do(t, h, http.MethodGet, "/mpa/x", ""), 400, models.ErrCodeBadRequest, "id")
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	h := newTestServerWith(store, store, nil)
	rec := do(t, h, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("live: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/health/ready", "")
	if got := decode[models.HealthResponse](t, rec); rec.Code != http.StatusOK || got.Status != "ready" || got.Storage != "memory" {
		t.Errorf("ready: status = %d, body %+v", rec.Code, got)
	}

	down := newTestServerWith(store, fakePinger{err: errors.New("connection refused")}, nil)
	rec = do(t, down, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with failed ping: status = %d", rec.Code)
	}
	if got := decode[models.HealthResponse](t, rec); got.Status != "not_ready" || got.Error == "" {
		t.Errorf("not ready body = %+v", got)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	expectError(t, do(t, h, http.MethodGet, "/nope", ""), http.StatusNotFound, models.ErrCodeNotFound, "")

	rec := do(t, h, http.MethodPatch, "/films", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH /films status = %d, want 405", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/genres", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "filmorate_api_requests_total") {
		t.Error("metrics output missing filmorate_api_requests_total")
	}
}

func TestRespondServiceError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", storage.NewNotFoundError(storage.EntityFilm, 9), 404, models.ErrCodeNotFound},
		{"wrapped like exists", fmt.Errorf("add like: %w", storage.ErrLikeExists), 400, models.ErrCodeBadRequest},
		{"invalid count", service.ErrInvalidCount, 400, models.ErrCodeBadRequest},
		{"unavailable", fmt.Errorf("list films: %w", storage.ErrUnavailable), 503, models.ErrCodeServiceUnavailable},
		{"unexpected", errors.New("disk on fire"), 500, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode[errorBody](t, rec)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if tt.status == 500 && strings.Contains(body.Error.Message, "disk") {
				t.Error("internal error message leaked to client")
			}
		})
	}
}

func TestRespondServiceError_NotFoundMessage(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	err := fmt.Errorf("add like: %w", storage.NewNotFoundError(storage.EntityFilm, 9))
	respondServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), err)

	body := decode[errorBody](t, rec)
	if strings.Contains(body.Error.Message, "add like") {
		t.Errorf("message should not carry wrapping context: %q", body.Error.Message)
	}
}
