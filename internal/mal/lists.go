// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package mal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tomtom215/malwrapped/internal/collector"
	"github.com/tomtom215/malwrapped/internal/models"
)

// MaxListPageSize is the largest limit MAL accepts on list endpoints used here.
const MaxListPageSize = 100

const (
	animeListFields = "list_status{status,score,start_date,finish_date,num_episodes_watched}," +
		"genres{name},studios{name},start_season{year,season},mean,num_list_users," +
		"num_scoring_users,average_episode_duration,num_episodes,title,main_picture,id"

	mangaListFields = "list_status{status,score,finish_date,num_chapters_read}," +
		"genres{name},authors{first_name,last_name},mean,num_list_users,title,main_picture,id"
)

// AnimeListPage fetches one page of the token owner's anime list.
func (c *Client) AnimeListPage(ctx context.Context, token string, offset, limit int) (collector.Page[models.AnimeListItem], error) {
	var resp models.AnimeListResponse
	if err := c.getJSON(ctx, token, "animelist", "/users/@me/animelist", listQuery(animeListFields, offset, limit), &resp); err != nil {
		return collector.Page[models.AnimeListItem]{}, err
	}
	return collector.Page[models.AnimeListItem]{Items: resp.Data, HasNext: resp.Paging.Next != ""}, nil
}

// MangaListPage fetches one page of the token owner's manga list.
func (c *Client) MangaListPage(ctx context.Context, token string, offset, limit int) (collector.Page[models.MangaListItem], error) {
	var resp models.MangaListResponse
	if err := c.getJSON(ctx, token, "mangalist", "/users/@me/mangalist", listQuery(mangaListFields, offset, limit), &resp); err != nil {
		return collector.Page[models.MangaListItem]{}, err
	}
	return collector.Page[models.MangaListItem]{Items: resp.Data, HasNext: resp.Paging.Next != ""}, nil
}

// AnimeListFetcher binds token to AnimeListPage for collector.Collect.
func (c *Client) AnimeListFetcher(token string) collector.PageFunc[models.AnimeListItem] {
	return func(ctx context.Context, offset, limit int) (collector.Page[models.AnimeListItem], error) {
		return c.AnimeListPage(ctx, token, offset, limit)
	}
}

// MangaListFetcher binds token to MangaListPage for collector.Collect.
func (c *Client) MangaListFetcher(token string) collector.PageFunc[models.MangaListItem] {
	return func(ctx context.Context, offset, limit int) (collector.Page[models.MangaListItem], error) {
		return c.MangaListPage(ctx, token, offset, limit)
	}
}

func listQuery(fields string, offset, limit int) url.Values {
	if limit <= 0 || limit > MaxListPageSize {
		limit = MaxListPageSize
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{}
	q.Set("fields", fields)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("nsfw", "true")
	return q
}
