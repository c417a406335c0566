// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package services adapts MALWrapped components to suture.Service.
//
// Every service returns ctx.Err() on cancellation and a wrapped error on
// failure, which suture turns into a restart with backoff.
package services
