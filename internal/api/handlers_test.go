// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/malwrapped/internal/collector"
	"github.com/tomtom215/malwrapped/internal/config"
	"github.com/tomtom215/malwrapped/internal/jikan"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/stats"
	"github.com/tomtom215/malwrapped/internal/store"
	"github.com/tomtom215/malwrapped/internal/themes"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

var testNow = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

// listSource serves one page per list. A token of "expired" is rejected.
type listSource struct {
	animeErr error
}

func (s *listSource) Me(_ context.Context, token string) (*models.User, error) {
	if token == "expired" {
		return nil, mal.ErrUnauthorized
	}
	return &models.User{ID: 9, Name: "haruhi"}, nil
}

func (s *listSource) AnimeListFetcher(_ string) collector.PageFunc[models.AnimeListItem] {
	return func(context.Context, int, int) (collector.Page[models.AnimeListItem], error) {
		if s.animeErr != nil {
			return collector.Page[models.AnimeListItem]{}, s.animeErr
		}
		mean, users, dur := 8.9, 50000, 1440
		return collector.Page[models.AnimeListItem]{Items: []models.AnimeListItem{{
			Node: &models.AnimeNode{
				ID: 1, Title: "Bocchi the Rock!",
				Genres: []models.NamedRef{{Name: "Music"}}, Studios: []models.NamedRef{{Name: "CloverWorks"}},
				Mean: &mean, NumListUsers: &users, AverageEpisodeDuration: &dur,
			},
			ListStatus: &models.AnimeListStatus{Status: "completed", Score: 10, FinishDate: "2025-07-01", NumEpisodesWatched: 12},
		}}}, nil
	}
}

func (s *listSource) MangaListFetcher(_ string) collector.PageFunc[models.MangaListItem] {
	return func(context.Context, int, int) (collector.Page[models.MangaListItem], error) {
		return collector.Page[models.MangaListItem]{}, nil
	}
}

type personSource struct {
	breaker string
	person  *models.Person
}

func (p *personSource) Person(_ context.Context, token string, id int) (*models.Person, error) {
	if token == "expired" {
		return nil, fmt.Errorf("failed to fetch person %d: %w", id, mal.ErrUnauthorized)
	}
	if p.person == nil {
		return nil, &mal.APIError{StatusCode: http.StatusNotFound, Endpoint: "people"}
	}
	return p.person, nil
}

func (p *personSource) BreakerState() string { return p.breaker }

type pictureSource struct{ pic *jikan.PersonPicture }

func (p pictureSource) PersonPicture(context.Context, int) (*jikan.PersonPicture, error) {
	if p.pic == nil {
		return nil, jikan.ErrNotFound
	}
	return p.pic, nil
}

type themeSource struct{ got []int }

func (t *themeSource) OpeningThemes(_ context.Context, ids []int) []themes.Theme {
	t.got = ids
	var out []themes.Theme
	for _, id := range ids {
		if id == 404 {
			continue
		}
		out = append(out, themes.Theme{MALID: id, ThemeSlug: "OP1", Filename: fmt.Sprintf("Show%d-OP1", id)})
	}
	return out
}

type harness struct {
	router  http.Handler
	persons *personSource
	themes  *themeSource
}

type harnessOpts struct {
	reports  store.ReportStore
	source   *listSource
	oauth    *mal.OAuth
	noThemes bool
	pictures PictureSource
}

func newHarness(t *testing.T, o harnessOpts) *harness {
	t.Helper()
	if o.source == nil {
		o.source = &listSource{}
	}
	cfg := &config.Config{
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitReqs: 1000, RateLimitWindow: time.Minute},
		Themes:   config.ThemesConfig{Enabled: true, MaxIDs: 3},
	}
	svc := wrapped.NewService(o.source, o.reports, wrapped.Config{Stats: stats.DefaultOptions(0)},
		wrapped.WithClock(func() time.Time { return testNow }))

	h := &harness{persons: &personSource{breaker: "closed"}, themes: &themeSource{}}
	deps := Dependencies{
		Config:   cfg,
		Reports:  svc,
		MAL:      h.persons,
		OAuth:    o.oauth,
		Pictures: o.pictures,
		Version:  "test",
	}
	if o.reports != nil {
		deps.StoreBackend = o.reports.Backend()
	}
	if !o.noThemes {
		deps.Themes = h.themes
	}
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true, CORSAllowedOrigins: []string{"*"}})
	h.router = NewRouter(NewHandler(deps), mw).SetupChi()
	return h
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (h *harness) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not an envelope: %v: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	rec, env := h.do(t, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var hs models.HealthStatus
	if err := json.Unmarshal(env.Data, &hs); err != nil {
		t.Fatal(err)
	}
	if hs.Status != "healthy" || hs.MALCircuit != "closed" || hs.StoreBackend != config.StoreBackendNone || hs.Version != "test" {
		t.Errorf("health = %+v", hs)
	}
	if rec.Header().Get("X-Request-ID") == "" || env.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id header %q vs metadata %q", rec.Header().Get("X-Request-ID"), env.Metadata.RequestID)
	}

	h.persons.breaker = "open"
	_, env = h.do(t, http.MethodGet, "/api/v1/health", "", "")
	_ = json.Unmarshal(env.Data, &hs)
	if hs.Status != "degraded" {
		t.Errorf("status with open circuit = %q, want degraded", hs.Status)
	}

	if rec, _ := h.do(t, http.MethodGet, "/api/v1/health/live", "", ""); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
}

func TestGenerateWrapped(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	rec, env := h.do(t, http.MethodPost, "/api/v1/wrapped/2025", "tok", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var report wrapped.Report
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatal(err)
	}
	if report.User.Name != "haruhi" || report.Anime.EntryCount != 1 || report.Anime.TotalWatchTimeMinutes != 288 {
		t.Errorf("report = %+v", report)
	}
	if report.Anime.SeasonalHighlight == nil || report.Anime.SeasonalHighlight.Label != "Summer 2025" {
		t.Errorf("SeasonalHighlight = %+v", report.Anime.SeasonalHighlight)
	}
	if env.Metadata.Partial {
		t.Error("metadata.partial set for a complete report")
	}
	if rec.Header().Get("ETag") == "" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rec.Header())
	}

	rec, env = h.do(t, http.MethodPost, "/api/v1/wrapped/2025", "tok", `{"top_n": 1, "include_unknown_popularity": true}`)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Errorf("with options: status = %d", rec.Code)
	}
}

func TestGenerateWrapped_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		token  string
		body   string
		source *listSource
		status int
		code   string
	}{
		{name: "missing token", path: "/api/v1/wrapped/2025", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "expired token", path: "/api/v1/wrapped/2025", token: "expired", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "future year", path: "/api/v1/wrapped/2030", token: "tok", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "non-numeric year", path: "/api/v1/wrapped/last", token: "tok", status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "malformed body", path: "/api/v1/wrapped/2025", token: "tok", body: `{"top_n":`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{name: "top_n too large", path: "/api/v1/wrapped/2025", token: "tok", body: `{"top_n": 99}`, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{
			name: "circuit open", path: "/api/v1/wrapped/2025", token: "tok",
			source: &listSource{animeErr: fmt.Errorf("%w: too many failures", mal.ErrCircuitOpen)},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, harnessOpts{source: tt.source})
			rec, env := h.do(t, http.MethodPost, tt.path, tt.token, tt.body)
			if tt.code == "" {
				if rec.Code != tt.status || !env.Metadata.Partial {
					t.Errorf("status = %d partial = %v, want %d partial", rec.Code, env.Metadata.Partial, tt.status)
				}
				return
			}
			wantError(t, rec, env, tt.status, tt.code)
		})
	}
}

func TestSharedWrapped(t *testing.T) {
	t.Parallel()

	reports, err := store.OpenBadger(store.BadgerConfig{InMemory: true, ReportTTL: time.Hour})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = reports.Close() })
	h := newHarness(t, harnessOpts{reports: reports})

	_, env := h.do(t, http.MethodPost, "/api/v1/wrapped/2025", "tok", "")
	var report wrapped.Report
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatal(err)
	}
	if report.ShareToken == "" {
		t.Fatal("no share token with a store configured")
	}

	rec, env := h.do(t, http.MethodGet, "/api/v1/wrapped/shared/"+report.ShareToken, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("shared status = %d", rec.Code)
	}
	var shared wrapped.Report
	if err := json.Unmarshal(env.Data, &shared); err != nil {
		t.Fatal(err)
	}
	if shared.ID != report.ID {
		t.Errorf("shared ID = %s, want %s", shared.ID, report.ID)
	}

	rec, env = h.do(t, http.MethodGet, "/api/v1/wrapped/shared/"+strings.Repeat("A", 43), "", "")
	wantError(t, rec, env, http.StatusNotFound, "NOT_FOUND")

	noStore := newHarness(t, harnessOpts{})
	rec, env = noStore.do(t, http.MethodGet, "/api/v1/wrapped/shared/"+report.ShareToken, "", "")
	wantError(t, rec, env, http.StatusNotFound, "SHARING_DISABLED")
}

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":3600,"access_token":"at","refresh_token":"rt"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	srv := newTokenServer(t)
	oauth := mal.NewOAuth(mal.OAuthConfig{ClientID: "cid", TokenURL: srv.URL})
	h := newHarness(t, harnessOpts{oauth: oauth})

	rec, env := h.do(t, http.MethodGet, "/api/v1/auth/authorize", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("authorize status = %d", rec.Code)
	}
	var auth AuthorizeResponse
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(auth.AuthorizationURL, "state="+auth.State) {
		t.Errorf("authorization URL %q lacks state %q", auth.AuthorizationURL, auth.State)
	}

	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/token", "", fmt.Sprintf(`{"code":"good","state":%q}`, auth.State))
	if rec.Code != http.StatusOK {
		t.Fatalf("token status = %d: %s", rec.Code, rec.Body.String())
	}
	var token models.TokenResponse
	if err := json.Unmarshal(env.Data, &token); err != nil {
		t.Fatal(err)
	}
	if token.AccessToken != "at" || token.RefreshToken != "rt" {
		t.Errorf("token = %+v", token)
	}

	// States are single use.
	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/token", "", fmt.Sprintf(`{"code":"good","state":%q}`, auth.State))
	wantError(t, rec, env, http.StatusBadRequest, "INVALID_STATE")

	_, env = h.do(t, http.MethodGet, "/api/v1/auth/authorize", "", "")
	_ = json.Unmarshal(env.Data, &auth)
	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/token", "", fmt.Sprintf(`{"code":"bad","state":%q}`, auth.State))
	wantError(t, rec, env, http.StatusBadRequest, "OAUTH_ERROR")

	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/token", "", `{"code":"x","state":"not-a-uuid"}`)
	wantError(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")

	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"rt"}`)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Errorf("refresh status = %d", rec.Code)
	}
	rec, env = h.do(t, http.MethodPost, "/api/v1/auth/refresh", "", "")
	wantError(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAuth_NotConfigured(t *testing.T) {
	t.Parallel()

	for _, oauth := range []*mal.OAuth{nil, mal.NewOAuth(mal.OAuthConfig{})} {
		h := newHarness(t, harnessOpts{oauth: oauth})
		rec, env := h.do(t, http.MethodGet, "/api/v1/auth/authorize", "", "")
		wantError(t, rec, env, http.StatusServiceUnavailable, "OAUTH_NOT_CONFIGURED")
	}
}

func TestPerson(t *testing.T) {
	t.Parallel()

	t.Run("mal picture", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, harnessOpts{pictures: pictureSource{pic: &jikan.PersonPicture{Picture: "https://jikan/p.jpg"}}})
		h.persons.person = &models.Person{ID: 1868, FirstName: "Hayao", LastName: "Miyazaki", MainPicture: &models.Picture{Medium: "https://mal/p.jpg"}}

		rec, env := h.do(t, http.MethodGet, "/api/v1/people/1868", "tok", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var p PersonResponse
		_ = json.Unmarshal(env.Data, &p)
		if p.Name != "Hayao Miyazaki" || p.Picture != "https://mal/p.jpg" || p.PictureSource != PictureSourceMAL {
			t.Errorf("person = %+v", p)
		}
	})

	t.Run("jikan fallback", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, harnessOpts{pictures: pictureSource{pic: &jikan.PersonPicture{Picture: "https://jikan/p.jpg", Name: "Miura, Kentarou"}}})
		h.persons.person = &models.Person{ID: 1880}

		_, env := h.do(t, http.MethodGet, "/api/v1/people/1880", "tok", "")
		var p PersonResponse
		_ = json.Unmarshal(env.Data, &p)
		if p.Picture != "https://jikan/p.jpg" || p.PictureSource != PictureSourceJikan || p.Name != "Miura, Kentarou" {
			t.Errorf("person = %+v", p)
		}
	})

	t.Run("jikan miss keeps person", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, harnessOpts{pictures: pictureSource{}})
		h.persons.person = &models.Person{ID: 5, FirstName: "A"}

		rec, env := h.do(t, http.MethodGet, "/api/v1/people/5", "tok", "")
		var p PersonResponse
		_ = json.Unmarshal(env.Data, &p)
		if rec.Code != http.StatusOK || p.Picture != "" || p.PictureSource != "" {
			t.Errorf("status %d person %+v", rec.Code, p)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, harnessOpts{})

		rec, env := h.do(t, http.MethodGet, "/api/v1/people/abc", "tok", "")
		wantError(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
		rec, env = h.do(t, http.MethodGet, "/api/v1/people/1", "", "")
		wantError(t, rec, env, http.StatusUnauthorized, "UNAUTHORIZED")
		rec, env = h.do(t, http.MethodGet, "/api/v1/people/1", "expired", "")
		wantError(t, rec, env, http.StatusUnauthorized, "UNAUTHORIZED")
		rec, env = h.do(t, http.MethodGet, "/api/v1/people/1", "tok", "")
		wantError(t, rec, env, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestThemes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, harnessOpts{})
	rec, env := h.do(t, http.MethodPost, "/api/v1/themes", "", `{"mal_ids":[5114, 404, 5114]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got []themes.Theme
	_ = json.Unmarshal(env.Data, &got)
	if len(got) != 1 || got[0].MALID != 5114 {
		t.Errorf("themes = %+v", got)
	}
	if len(h.themes.got) != 2 {
		t.Errorf("ids passed = %v, want duplicates removed", h.themes.got)
	}

	rec, env = h.do(t, http.MethodPost, "/api/v1/themes", "", `{"mal_ids":[404]}`)
	if rec.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Errorf("no-match data = %s, want []", env.Data)
	}

	rec, env = h.do(t, http.MethodPost, "/api/v1/themes", "", `{"mal_ids":[1,2,3,4]}`)
	wantError(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")
	rec, env = h.do(t, http.MethodPost, "/api/v1/themes", "", `{"mal_ids":[0]}`)
	wantError(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")

	disabled := newHarness(t, harnessOpts{noThemes: true})
	rec, env = disabled.do(t, http.MethodPost, "/api/v1/themes", "", `{"mal_ids":[1]}`)
	wantError(t, rec, env, http.StatusNotFound, "FEATURE_DISABLED")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOpts{})

	h.do(t, http.MethodGet, "/api/v1/health/live", "", "")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "malwrapped_api_requests_total") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{wrapped.ErrNoToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("wrap: %w", mal.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED"},
		{wrapped.ErrInvalidYear, http.StatusBadRequest, "VALIDATION_ERROR"},
		{store.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{jikan.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{mal.ErrCircuitOpen, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
		{&mal.APIError{StatusCode: 429, Endpoint: "me"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{&mal.APIError{StatusCode: 500, Endpoint: "me"}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{&mal.APIError{StatusCode: 401, Endpoint: "oauth_token"}, http.StatusBadRequest, "OAUTH_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code, _ := classifyError(tt.err)
		if status != tt.status || code != tt.code {
			t.Errorf("classifyError(%v) = %d %s, want %d %s", tt.err, status, code, tt.status, tt.code)
		}
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		if got := bearerToken(req); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute})
	handler := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusNoContent || second.Code != http.StatusTooManyRequests {
		t.Errorf("codes = %d, %d; want 204, 429", first.Code, second.Code)
	}
	if !strings.Contains(second.Body.String(), "RATE_LIMITED") {
		t.Errorf("limit body = %s", second.Body.String())
	}
}
