// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package mal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tomtom215/malwrapped/internal/models"
)

// Me fetches the token owner's profile with list statistics.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	q := url.Values{}
	q.Set("fields", "id,name,picture,joined_at,anime_statistics,manga_statistics")

	var user models.User
	if err := c.getJSON(ctx, token, "me", "/users/@me", q, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}

// Person fetches a person (author, voice actor, staff) by MAL id.
func (c *Client) Person(ctx context.Context, token string, id int) (*models.Person, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid person id %d", id)
	}
	q := url.Values{}
	q.Set("fields", "id,first_name,last_name,main_picture")

	var person models.Person
	if err := c.getJSON(ctx, token, "people", "/people/"+strconv.Itoa(id), q, &person); err != nil {
		return nil, fmt.Errorf("failed to fetch person %d: %w", id, err)
	}
	return &person, nil
}
