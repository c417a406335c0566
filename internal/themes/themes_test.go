// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package themes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, responses map[string]string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anime" {
			t.Errorf("path = %q, want /anime", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("filter[site]") != "MyAnimeList" || q.Get("include") != "animethemes.animethemeentries.videos" {
			t.Errorf("unexpected query %v", q)
		}
		body, ok := responses[q.Get("filter[external_id]")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, RequestsPerSecond: 1000})
}

func TestOpeningTheme_Selection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantSlug     string
		wantFilename string
		wantNil      bool
	}{
		{
			name: "OP1 with -OP1 video preferred",
			body: `{"anime":[{"name":"Frieren","slug":"frieren","animethemes":[
				{"type":"ED","slug":"ED1","animethemeentries":[{"videos":[{"filename":"Frieren-ED1"}]}]},
				{"type":"OP","slug":"OP2","animethemeentries":[{"videos":[{"filename":"Frieren-OP2"}]}]},
				{"type":"OP","slug":"OP1","animethemeentries":[{"videos":[{"filename":"Frieren-OP1v2"},{"filename":"Frieren-OP1-NCBD1080","basename":"Frieren-OP1-NCBD1080.webm"}]}]}]}]}`,
			wantSlug:     "OP1",
			wantFilename: "Frieren-OP1v2",
		},
		{
			name: "first video when none carries -OP1",
			body: `{"anime":[{"name":"X","slug":"x","animethemes":[
				{"type":"OP","slug":"OP1","animethemeentries":[{"videos":[]},{"videos":[{"filename":"X-Opening"},{"filename":"X-Other"}]}]}]}]}`,
			wantSlug:     "OP1",
			wantFilename: "X-Opening",
		},
		{
			name: "first OP when no OP1 slug",
			body: `{"anime":[{"name":"Y","slug":"y","animethemes":[
				{"type":"OP","slug":"OP3","animethemeentries":[{"videos":[{"filename":"Y-OP3"}]}]},
				{"type":"OP","slug":"OP4","animethemeentries":[{"videos":[{"filename":"Y-OP4"}]}]}]}]}`,
			wantSlug:     "OP3",
			wantFilename: "Y-OP3",
		},
		{
			name: "falls back to another OP with videos",
			body: `{"anime":[{"name":"Z","slug":"z","animethemes":[
				{"type":"OP","slug":"OP1","animethemeentries":[{"videos":[]}]},
				{"type":"OP","slug":"OP2","animethemeentries":[{"videos":[{"filename":"Z-OP2"}]}]}]}]}`,
			wantSlug:     "OP2",
			wantFilename: "Z-OP2",
		},
		{
			name:    "no OP themes",
			body:    `{"anime":[{"name":"E","slug":"e","animethemes":[{"type":"ED","slug":"ED1","animethemeentries":[{"videos":[{"filename":"E-ED1"}]}]}]}]}`,
			wantNil: true,
		},
		{
			name:    "anime not found",
			body:    `{"anime":[]}`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, map[string]string{"52991": tt.body})

			theme, err := client.OpeningTheme(context.Background(), 52991)
			if err != nil {
				t.Fatalf("OpeningTheme() error = %v", err)
			}
			if tt.wantNil {
				if theme != nil {
					t.Errorf("theme = %+v, want nil", theme)
				}
				return
			}
			if theme == nil {
				t.Fatal("theme = nil")
			}
			if theme.ThemeSlug != tt.wantSlug || theme.Filename != tt.wantFilename {
				t.Errorf("theme = %s/%s, want %s/%s", theme.ThemeSlug, theme.Filename, tt.wantSlug, tt.wantFilename)
			}
			if theme.MALID != 52991 || theme.ThemeType != "OP" {
				t.Errorf("theme = %+v", theme)
			}
			wantURL := client.baseURL + "/audio/" + tt.wantFilename + ".ogg"
			if theme.AudioURL != wantURL {
				t.Errorf("AudioURL = %q, want %q", theme.AudioURL, wantURL)
			}
		})
	}
}

func TestOpeningTheme_UpstreamError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, map[string]string{})
	if _, err := client.OpeningTheme(context.Background(), 1); err == nil {
		t.Error("OpeningTheme() succeeded on HTTP 500, want error")
	}
}

func TestOpeningThemes_SkipsFailures(t *testing.T) {
	t.Parallel()

	ok := `{"anime":[{"name":"A","slug":"a","animethemes":[{"type":"OP","slug":"OP1","animethemeentries":[{"videos":[{"filename":"A-OP1"}]}]}]}]}`
	client := newTestClient(t, map[string]string{
		"1": ok,
		"3": `{"anime":[]}`,
		"4": ok,
	})

	got := client.OpeningThemes(context.Background(), []int{1, 2, 3, 4})
	if len(got) != 2 {
		t.Fatalf("OpeningThemes() returned %d themes, want 2", len(got))
	}
	if got[0].MALID != 1 || got[1].MALID != 4 {
		t.Errorf("ids = %d, %d; want 1, 4", got[0].MALID, got[1].MALID)
	}
}

func TestOpeningThemes_CancelledContext(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, map[string]string{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := client.OpeningThemes(ctx, []int{1, 2}); len(got) != 0 {
		t.Errorf("OpeningThemes() = %v, want empty", got)
	}
}

func TestOpeningTheme_CachesResults(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("filter[external_id]") == "404" {
			_, _ = w.Write([]byte(`{"anime":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"anime":[{"name":"Frieren","slug":"frieren","animethemes":[
			{"type":"OP","slug":"OP1","animethemeentries":[{"videos":[{"filename":"Frieren-OP1"}]}]}]}]}`))
	}))
	defer server.Close()
	client := NewClient(Config{BaseURL: server.URL, RequestsPerSecond: 1000})

	for i := 0; i < 3; i++ {
		theme, err := client.OpeningTheme(context.Background(), 52991)
		if err != nil || theme == nil {
			t.Fatalf("OpeningTheme() = %v, %v", theme, err)
		}
		if theme, err := client.OpeningTheme(context.Background(), 404); err != nil || theme != nil {
			t.Fatalf("OpeningTheme(404) = %v, %v; want nil, nil", theme, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("upstream calls = %d, want 2 (hits and misses cached)", got)
	}
}
