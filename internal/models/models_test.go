// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestPictureURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pic  *Picture
		want string
	}{
		{"nil", nil, ""},
		{"empty", &Picture{}, ""},
		{"medium preferred", &Picture{Medium: "m", Large: "l"}, "m"},
		{"large fallback", &Picture{Large: "l"}, "l"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.pic.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListItemID(t *testing.T) {
	t.Parallel()

	if (AnimeListItem{}).ID() != 0 || (MangaListItem{}).ID() != 0 {
		t.Error("items without a node must report id 0")
	}
	if (AnimeListItem{Node: &AnimeNode{ID: 1}}).ID() != 1 {
		t.Error("AnimeListItem.ID() did not return node id")
	}
	if (MangaListItem{Node: &MangaNode{ID: 2}}).ID() != 2 {
		t.Error("MangaListItem.ID() did not return node id")
	}
}

func TestAnimeListResponse_OptionalFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"data": [
			{"node": {"id": 1, "title": "Known", "mean": 0, "num_list_users": 0}},
			{"node": {"id": 2, "title": "Unknown"}}
		],
		"paging": {"next": "https://api.myanimelist.net/v2/users/@me/animelist?offset=2"}
	}`

	var page AnimeListResponse
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(page.Data) != 2 || page.Paging.Next == "" {
		t.Fatalf("page = %+v", page)
	}
	known, unknown := page.Data[0].Node, page.Data[1].Node
	if known.Mean == nil || known.NumListUsers == nil {
		t.Error("explicit zero values must decode to non-nil pointers")
	}
	if unknown.Mean != nil || unknown.NumListUsers != nil {
		t.Error("absent fields must stay nil")
	}
}
