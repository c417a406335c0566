// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
service.go - Wrapped Report Generation

Generate runs the whole pipeline for one user and year:

	profile -> collect anime -> collect manga -> normalize -> compute -> save

Failure handling:
  - Profile failure is terminal: without it the token is unusable.
  - A list that fails mid-collection keeps the pages already fetched. The
    report is still produced and Collection records what went wrong.
  - An expired token or a cancelled context during collection is terminal.
  - A store failure is logged and the report is returned without a share
    token.
*/

//nolint:staticcheck // File documentation, not package doc
package wrapped

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/malwrapped/internal/collector"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/metrics"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/stats"
	"github.com/tomtom215/malwrapped/internal/store"
)

// MinYear is the earliest year a report can be requested for.
const MinYear = 1970

var (
	// ErrNoToken is returned when no MAL access token was supplied.
	ErrNoToken = errors.New("wrapped: access token required")

	// ErrInvalidYear is returned for years outside MinYear..current year.
	ErrInvalidYear = errors.New("wrapped: invalid year")

	// ErrSharingDisabled is returned by Get when no store is configured.
	ErrSharingDisabled = errors.New("wrapped: report sharing is disabled")
)

// ListSource is the upstream the service reads from. *mal.Client satisfies it.
type ListSource interface {
	Me(ctx context.Context, token string) (*models.User, error)
	AnimeListFetcher(token string) collector.PageFunc[models.AnimeListItem]
	MangaListFetcher(token string) collector.PageFunc[models.MangaListItem]
}

// Stages reported through GenerateRequest.Progress.
const (
	StageProfile = "profile"
	StageAnime   = "anime"
	StageManga   = "manga"
	StageCompute = "compute"
	StageSave    = "save"
)

// Progress is a generation progress event.
type Progress struct {
	Stage string `json:"stage"`
	Pages int    `json:"pages,omitempty"`
	Items int    `json:"items,omitempty"`
}

// GenerateRequest describes one report.
type GenerateRequest struct {
	Token string
	Year  int

	// Optional overrides of the configured stats options.
	TopN                     int
	IncludeUnknownPopularity *bool

	// Progress, when set, is called synchronously from Generate.
	Progress func(Progress)
}

// Config holds the service defaults.
type Config struct {
	Stats          stats.Options
	EpisodeMinutes float64
	ChapterMinutes float64
	PageSize       int
	MaxPages       int
}

// Service generates and serves wrapped reports.
type Service struct {
	source ListSource
	store  store.ReportStore
	cfg    Config
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for GeneratedAt and year validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. reports may be nil, which disables sharing.
func NewService(source ListSource, reports store.ReportStore, cfg Config, opts ...Option) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = mal.MaxListPageSize
	}
	s := &Service{
		source: source,
		store:  reports,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SharingEnabled reports whether generated reports are persisted.
func (s *Service) SharingEnabled() bool {
	return s.store != nil
}

// ValidateYear checks year against MinYear and the current year.
func (s *Service) ValidateYear(year int) error {
	if year < MinYear || year > s.now().Year() {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidYear, year, MinYear, s.now().Year())
	}
	return nil
}

// Generate builds a report for req.Year from the token owner's lists.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (report *Report, err error) {
	if req.Token == "" {
		return nil, ErrNoToken
	}
	if err := s.ValidateYear(req.Year); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		complete := report != nil && report.Complete()
		metrics.RecordWrappedGeneration(req.Year, time.Since(start), complete, err)
	}()

	progress := req.Progress
	if progress == nil {
		progress = func(Progress) {}
	}
	progress(Progress{Stage: StageProfile})
	user, err := s.source.Me(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	ctx = logging.ContextWithUser(ctx, user.Name)

	animeRes := collector.Collect(ctx, s.source.AnimeListFetcher(req.Token), s.collectOptions(StageAnime, progress)...)
	if err := terminal(animeRes.Err); err != nil {
		return nil, fmt.Errorf("failed to collect anime list: %w", err)
	}
	mangaRes := collector.Collect(ctx, s.source.MangaListFetcher(req.Token), s.collectOptions(StageManga, progress)...)
	if err := terminal(mangaRes.Err); err != nil {
		return nil, fmt.Errorf("failed to collect manga list: %w", err)
	}

	progress(Progress{Stage: StageCompute})
	normOpts := []stats.NormalizerOption{
		stats.WithEpisodeMinutes(s.cfg.EpisodeMinutes),
		stats.WithChapterMinutes(s.cfg.ChapterMinutes),
	}
	animeNorm := stats.NewNormalizer(normOpts...)
	animeEntries := animeNorm.NormalizeAnimeList(animeRes.Items)
	mangaNorm := stats.NewNormalizer(normOpts...)
	mangaEntries := mangaNorm.NormalizeMangaList(mangaRes.Items)
	metrics.RecordNormalizerSkipped(StageAnime, animeNorm.Skipped())
	metrics.RecordNormalizerSkipped(StageManga, mangaNorm.Skipped())

	opts := s.statsOptions(req)
	report = &Report{
		ID:           uuid.NewString(),
		Year:         req.Year,
		GeneratedAt:  s.now().UTC(),
		User:         summarizeUser(user),
		Anime:        stats.ComputeStats(animeEntries, opts),
		Manga:        stats.ComputeStats(mangaEntries, opts),
		AnimeSummary: stats.SummarizeList(animeEntries),
		MangaSummary: stats.SummarizeList(mangaEntries),
		Collection: Collection{
			Anime: listCollection(animeRes, animeNorm.Skipped()),
			Manga: listCollection(mangaRes, mangaNorm.Skipped()),
		},
	}

	if s.store != nil {
		progress(Progress{Stage: StageSave})
		s.save(ctx, report)
	}

	logging.Ctx(ctx).Info().
		Int("year", req.Year).
		Int("anime_entries", len(animeEntries)).
		Int("manga_entries", len(mangaEntries)).
		Bool("complete", report.Complete()).
		Bool("shared", report.ShareToken != "").
		Dur("duration", time.Since(start)).
		Msg("Wrapped report generated")

	return report, nil
}

// Get reads a shared report by token.
func (s *Service) Get(ctx context.Context, token string) (*Report, error) {
	if s.store == nil {
		return nil, ErrSharingDisabled
	}
	if !store.ValidToken(token) {
		metrics.RecordShareTokenAccess(false)
		return nil, store.ErrNotFound
	}

	payload, err := s.store.Get(ctx, token)
	if err != nil {
		metrics.RecordShareTokenAccess(false)
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	report.ShareToken = token
	metrics.RecordShareTokenAccess(true)
	return &report, nil
}

func (s *Service) save(ctx context.Context, report *Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to encode report for sharing")
		return
	}
	token, err := s.store.Save(ctx, payload)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", s.store.Backend()).Msg("Failed to persist report, returning it unshared")
		return
	}
	report.ShareToken = token
	metrics.RecordShareTokenCreated()
}

func (s *Service) collectOptions(list string, progress func(Progress)) []collector.Option {
	return []collector.Option{
		collector.WithName(list),
		collector.WithPageSize(s.cfg.PageSize),
		collector.WithMaxPages(s.cfg.MaxPages),
		collector.WithProgress(func(p collector.Progress) {
			progress(Progress{Stage: list, Pages: p.Pages, Items: p.Items})
		}),
	}
}

func (s *Service) statsOptions(req GenerateRequest) stats.Options {
	opts := s.cfg.Stats
	opts.TargetYear = req.Year
	if req.TopN > 0 {
		opts.TopN = req.TopN
	}
	if req.IncludeUnknownPopularity != nil {
		opts.IncludeUnknownPopularity = *req.IncludeUnknownPopularity
	}
	return opts
}

// terminal returns err when a partial list is not worth reporting on.
func terminal(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mal.ErrUnauthorized) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func listCollection[T any](res collector.Result[T], skipped int) ListCollection {
	lc := ListCollection{
		Complete:   res.Complete,
		Pages:      res.Pages,
		Items:      len(res.Items),
		Duplicates: res.Duplicates,
		Skipped:    skipped,
	}
	if res.Err != nil {
		lc.Error = res.Err.Error()
	}
	return lc
}
