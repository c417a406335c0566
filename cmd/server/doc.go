// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
Package main is the entry point for the MALWrapped server.

MALWrapped turns a MyAnimeList user's anime and manga lists into a
"year in review" report: top genres and studios, watch time, hidden gems,
the busiest season and how closely the user's scores track the community.

# Application Architecture

Services run under a Suture v4 supervisor tree:

	RootSupervisor ("malwrapped")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── store-gc        (badger backend only)
	│   └── oauth-janitor   (when OAuth is configured)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: koanf with defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console
 3. Report store: badger, redis or none
 4. MAL client with retries and a circuit breaker, plus OAuth PKCE
 5. Optional enrichment clients: animethemes.moe and Jikan
 6. Report service
 7. Chi router and HTTP server
 8. Supervisor tree

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	MAL_CLIENT_ID=<client id>    # enables /api/v1/auth/*
	MAL_REDIRECT_URI=https://wrapped.example.com/callback

	STORE_BACKEND=badger         # badger, redis or none
	STORE_PATH=/data/reports
	REDIS_ADDR=localhost:6379

	THEMES_ENABLED=true
	JIKAN_ENABLED=true

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, open report streams are cancelled and the store is
closed.
*/
package main
