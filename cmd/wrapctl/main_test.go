// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/models"
)

const animePage = `{
	"data": [
		{
			"node": {
				"id": 47917,
				"title": "Bocchi the Rock!",
				"genres": [{"id": 4, "name": "Comedy"}, {"id": 19, "name": "Music"}],
				"studios": [{"id": 1835, "name": "CloverWorks"}],
				"mean": 8.8,
				"num_list_users": 900000,
				"num_episodes": 12,
				"average_episode_duration": 1440
			},
			"list_status": {"status": "completed", "score": 9, "num_episodes_watched": 12, "finish_date": "2025-07-14"}
		},
		{"node": {"id": 0, "title": ""}}
	],
	"paging": {}
}`

const mangaPages = `[
	{"data": [{"node": {"id": 2, "title": "Berserk", "genres": [{"name": "Action"}]}, "list_status": {"status": "reading", "num_chapters_read": 10}}], "paging": {"next": "x"}},
	{"data": [{"node": {"id": 3, "title": "Yotsuba&!", "genres": [{"name": "Comedy"}]}, "list_status": {"status": "completed", "num_chapters_read": 20}}], "paging": {}}
]`

func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(computeCmd, exchangeCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodePages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single page", animePage, 1, false},
		{"page array", mangaPages, 2, false},
		{"empty array", "[]", 0, false},
		{"whitespace", "  \n", 0, true},
		{"garbage", "{not json", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pages, err := decodePages[models.AnimeListResponse]([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodePages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(pages) != tt.want {
				t.Errorf("pages = %d, want %d", len(pages), tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	anime := writeFile(t, "anime.json", animePage)
	manga := writeFile(t, "manga.json", mangaPages)

	out, err := execute(t, "compute", "--anime", anime, "--manga", manga, "--year", "2025", "--top-n", "3")
	if err != nil {
		t.Fatalf("compute error = %v", err)
	}

	var got computeResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not stats JSON: %v\n%s", err, out)
	}
	if got.Anime == nil || got.Manga == nil {
		t.Fatalf("result = %s, want both anime and manga", out)
	}

	a := got.Anime
	if a.TargetYear != 2025 {
		t.Errorf("anime TargetYear = %d, want 2025", a.TargetYear)
	}
	if a.EntryCount != 1 {
		t.Errorf("anime EntryCount = %d, want 1 (id 0 entry skipped)", a.EntryCount)
	}
	if len(a.TopStudios) != 1 || a.TopStudios[0].Label != "CloverWorks" {
		t.Errorf("anime TopStudios = %+v", a.TopStudios)
	}
	if a.SeasonalHighlight == nil || !strings.HasPrefix(a.SeasonalHighlight.Label, "Summer") {
		t.Errorf("anime SeasonalHighlight = %+v, want Summer", a.SeasonalHighlight)
	}
	if a.TotalWatchTimeMinutes != 12*24 {
		t.Errorf("anime TotalWatchTimeMinutes = %d, want %d", a.TotalWatchTimeMinutes, 12*24)
	}

	m := got.Manga
	if m.EntryCount != 2 {
		t.Errorf("manga EntryCount = %d, want 2", m.EntryCount)
	}
	for _, lc := range m.TopGenres {
		if lc.Label == "Music" {
			t.Errorf("manga TopGenres = %+v, contains an anime genre", m.TopGenres)
		}
	}
	if m.TotalUnitsConsumed != 30 {
		t.Errorf("manga TotalUnitsConsumed = %d, want 30", m.TotalUnitsConsumed)
	}
	for _, e := range m.TopRated {
		if e.ID == 47917 {
			t.Errorf("manga TopRated contains anime entry %+v", e)
		}
	}
}

func TestCompute_RepeatedIDAcrossPages(t *testing.T) {
	const pages = `[
		{"data": [{"node": {"id": 5, "title": "Monster", "genres": [{"name": "Drama"}]}, "list_status": {"status": "watching", "num_episodes_watched": 10}}], "paging": {"next": "x"}},
		{"data": [], "paging": {"next": "y"}},
		{"data": [{"node": {"id": 5, "title": "Monster", "genres": [{"name": "Drama"}]}, "list_status": {"status": "watching", "num_episodes_watched": 10}}], "paging": {}}
	]`
	anime := writeFile(t, "anime.json", pages)

	out, err := execute(t, "compute", "--anime", anime, "--year", "2025")
	if err != nil {
		t.Fatalf("compute error = %v", err)
	}

	var got computeResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not stats JSON: %v\n%s", err, out)
	}
	if got.Manga != nil {
		t.Errorf("Manga = %+v, want omitted", got.Manga)
	}
	a := got.Anime
	if a == nil {
		t.Fatalf("result = %s, want anime stats", out)
	}
	if a.EntryCount != 1 {
		t.Errorf("EntryCount = %d, want 1", a.EntryCount)
	}
	if len(a.TopGenres) != 1 || a.TopGenres[0].Label != "Drama" || a.TopGenres[0].Count != 1 {
		t.Errorf("TopGenres = %+v, want [Drama 1]", a.TopGenres)
	}
	if a.TotalWatchTimeMinutes != 240 {
		t.Errorf("TotalWatchTimeMinutes = %d, want 240", a.TotalWatchTimeMinutes)
	}
}

func TestCollectPages(t *testing.T) {
	t.Parallel()

	item := func(id int) models.MangaListItem {
		return models.MangaListItem{Node: &models.MangaNode{ID: id}}
	}
	pages := [][]models.MangaListItem{
		{item(1), item(2)},
		nil,
		{item(2), item(3), item(0)},
	}

	got, err := collectPages(context.Background(), "mangalist", pages)
	if err != nil {
		t.Fatalf("collectPages() error = %v", err)
	}
	var ids []int
	for _, it := range got {
		ids = append(ids, it.ID())
	}
	if want := []int{1, 2, 3, 0}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := collectPages(ctx, "mangalist", pages); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled collectPages() error = %v, want context.Canceled", err)
	}
}

func TestCompute_Stdin(t *testing.T) {
	resetFlags(computeCmd)
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(`{"data": [], "paging": {}}`))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"compute", "--anime", "-", "--year", "2024"})
	defer rootCmd.SetIn(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("compute error = %v", err)
	}

	var res computeResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not stats JSON: %v", err)
	}
	got := res.Anime
	if got == nil {
		t.Fatalf("result = %s, want anime stats", out.String())
	}
	if got.EntryCount != 0 || got.TopGenres == nil || got.HiddenGems == nil {
		t.Errorf("empty input stats = %+v, want zero counts and non-nil rankings", got)
	}
	if got.CommunityAgreementPercent != nil {
		t.Errorf("CommunityAgreementPercent = %v, want nil", *got.CommunityAgreementPercent)
	}
}

func TestCompute_Errors(t *testing.T) {
	bad := writeFile(t, "bad.json", "{")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no lists", []string{"compute"}, "at least one of --anime or --manga"},
		{"both stdin", []string{"compute", "--anime", "-", "--manga", "-"}, "only one list"},
		{"missing file", []string{"compute", "--anime", filepath.Join(t.TempDir(), "nope.json")}, "failed to read anime list"},
		{"malformed", []string{"compute", "--manga", bad}, "failed to read manga list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestAuthorizeURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAL_CLIENT_ID", "client-abc")
	t.Setenv("MAL_REDIRECT_URI", "http://localhost:8080/callback")

	out, err := execute(t, "oauth", "authorize-url")
	if err != nil {
		t.Fatalf("authorize-url error = %v", err)
	}

	lines := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		key, value, _ := strings.Cut(line, ":")
		lines[key] = strings.TrimSpace(value)
	}
	if !strings.Contains(lines["url"], "client_id=client-abc") {
		t.Errorf("url = %q, want client_id", lines["url"])
	}
	if !strings.Contains(lines["url"], "code_challenge="+lines["verifier"]) {
		t.Errorf("url %q does not carry the plain challenge %q", lines["url"], lines["verifier"])
	}
	if len(lines["verifier"]) < 43 {
		t.Errorf("verifier %q shorter than 43 characters", lines["verifier"])
	}
}

func TestAuthorizeURL_NotConfigured(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAL_CLIENT_ID", "")

	if _, err := execute(t, "oauth", "authorize-url"); err == nil {
		t.Fatal("expected error without MAL_CLIENT_ID")
	}
}

func TestExchange_ValidatesInput(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAL_CLIENT_ID", "")

	tests := []struct {
		name     string
		code     string
		verifier string
		want     string
	}{
		{"verifier too short", "abc", "short", "verifier must be 43-128 unreserved characters"},
		{"verifier bad characters", "abc", strings.Repeat("a", 42) + "!", "verifier must be 43-128 unreserved characters"},
		{"verifier too long", "abc", strings.Repeat("a", 129), "verifier must be 43-128 unreserved characters"},
		{"code too long", strings.Repeat("c", 1025), strings.Repeat("a", 43), "code must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "oauth", "exchange", "--code", tt.code, "--verifier", tt.verifier)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
			if errors.Is(err, mal.ErrOAuthNotConfigured) {
				t.Error("configuration was loaded before the input was rejected")
			}
		})
	}

	// A well-formed verifier gets past validation and stops at configuration.
	_, err := execute(t, "oauth", "exchange", "--code", "abc", "--verifier", strings.Repeat("a-_.~", 9))
	if !errors.Is(err, mal.ErrOAuthNotConfigured) {
		t.Errorf("error = %v, want ErrOAuthNotConfigured", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version output = %q, want %q", out, version)
	}
}
