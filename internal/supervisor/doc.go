// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package supervisor runs MALWrapped's long-lived services under a suture
// supervisor tree.
//
// Tree layout:
//
//	malwrapped (root)
//	├── maintenance-layer
//	│   ├── store-gc        badger value log GC (badger backend only)
//	│   └── oauth-janitor   drops expired pending OAuth states
//	└── api-layer
//	    └── http-server
//
// A crash in maintenance restarts only that service; the API keeps serving.
// Supervisor events are logged through sutureslog into the zerolog-backed
// slog handler from the logging package.
package supervisor
