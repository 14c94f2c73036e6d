// Package tracker reconciles the local video/channel store against the
// upstream platform. Each job is idempotent and safe to re-run if a tick
// overlaps a slow previous run.
package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sorekai/livetrack/internal/db"
	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/render"
	"github.com/sorekai/livetrack/internal/upstream"
)

// discoveryConcurrency bounds the parallel per-channel feed probes
const discoveryConcurrency = 4

// PageRefresher repopulates a page's cache entries after a state change.
// Satisfied by cache.PageCache.
type PageRefresher interface {
	Repopulate(ctx context.Context, kind render.PageKind) error
}

// Service runs the reconciliation jobs against the store and the upstream
// gateway.
type Service struct {
	repos   *db.Repositories
	gateway upstream.Gateway
	pages   PageRefresher
	// aliases is the statically configured alias -> channel id map used
	// to seed the store at startup.
	aliases map[string]string
}

// New creates a tracker service
func New(repos *db.Repositories, gateway upstream.Gateway, pages PageRefresher, aliases map[string]string) *Service {
	return &Service{
		repos:   repos,
		gateway: gateway,
		pages:   pages,
		aliases: aliases,
	}
}

// Bootstrap inserts every configured channel that is not yet stored, then
// eagerly populates both page caches. It must complete before the scheduled
// jobs start; a failure here is fatal to startup, since the jobs cannot
// operate over an unpopulated channel set.
func (s *Service) Bootstrap(ctx context.Context) error {
	stored, err := s.repos.Channels.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	known := make(map[string]struct{}, len(stored))
	for _, ch := range stored {
		known[ch.ID] = struct{}{}
	}

	aliases := make([]string, 0, len(s.aliases))
	for alias := range s.aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		channelID := s.aliases[alias]
		if _, ok := known[channelID]; ok {
			continue
		}

		channel, err := s.gateway.FetchChannel(ctx, channelID)
		if err != nil {
			return fmt.Errorf("bootstrap: failed to fetch channel %s: %w", channelID, err)
		}

		logger.Log.Info().
			Str("alias", alias).
			Str("channel_id", channel.ID).
			Str("name", channel.Name).
			Msg("Adding configured channel to store")

		if err := s.repos.Channels.Upsert(ctx, channel); err != nil {
			return fmt.Errorf("bootstrap: failed to store channel %s: %w", channelID, err)
		}
	}

	if err := s.pages.Repopulate(ctx, render.PageList); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := s.pages.Repopulate(ctx, render.PageRoot); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}

// CheckNewVideos probes every active channel's upload feed for candidate
// video ids and upserts the authoritative records for the union. Any probe
// or gateway failure fails the whole job; the next tick retries with no
// partial state applied beyond the final batch upsert.
func (s *Service) CheckNewVideos(ctx context.Context) error {
	channels, err := s.repos.Channels.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	var mu sync.Mutex
	union := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryConcurrency)
	for _, channel := range channels {
		g.Go(func() error {
			ids, err := s.gateway.DiscoverVideoIDs(gctx, channel.ID)
			if err != nil {
				return fmt.Errorf("probe failed for channel %s: %w", channel.ID, err)
			}

			logger.Log.Debug().
				Str("channel_id", channel.ID).
				Str("name", channel.Name).
				Int("count", len(ids)).
				Msg("Probed channel feed")

			mu.Lock()
			for _, id := range ids {
				union[id] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	if len(union) == 0 {
		logger.Log.Info().Msg("No candidate videos discovered")
		return nil
	}

	candidates := make([]string, 0, len(union))
	for id := range union {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)

	videos, err := s.gateway.FetchVideosByIDs(ctx, candidates)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if len(videos) == 0 {
		logger.Log.Info().Msg("No broadcast records among discovered videos")
		return nil
	}

	if err := s.repos.Videos.UpsertBatch(ctx, videos); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}

	logger.Log.Info().
		Int("candidates", len(candidates)).
		Int("upserted", len(videos)).
		Msg("Discovery upserted video records")
	return nil
}

// RefreshVideos re-fetches every video the store still considers un-ended
// and converges the store on the upstream answer: lifecycle progression is
// upserted, and ids the upstream stopped reporting are deleted as dangling.
// A gateway failure aborts the tick without touching the store; deletion is
// never a side effect of a failed call.
func (s *Service) RefreshVideos(ctx context.Context) error {
	stored, err := s.repos.Videos.ListUpcoming(ctx, nil)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if len(stored) == 0 {
		logger.Log.Info().Msg("No stored videos to refresh")
		return nil
	}

	requested := make([]string, 0, len(stored))
	for i := range stored {
		requested = append(requested, stored[i].ID)
	}

	returned, err := s.gateway.FetchVideosByIDs(ctx, requested)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	switch {
	case len(returned) == 0:
		// Every requested id is gone upstream
		logger.Log.Info().
			Int("count", len(requested)).
			Msg("All refreshed videos gone upstream, deleting")
		if err := s.repos.Videos.DeleteBatch(ctx, requested); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}

	case len(returned) == len(requested):
		logger.Log.Info().
			Int("count", len(returned)).
			Msg("Refreshing video records")
		if err := s.repos.Videos.UpsertBatch(ctx, returned); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}

	default:
		returnedIDs := make([]string, 0, len(returned))
		for i := range returned {
			returnedIDs = append(returnedIDs, returned[i].ID)
		}
		present, missing := partitionByReturned(requested, returnedIDs)

		logger.Log.Info().
			Int("present", len(present)).
			Int("dangling", len(missing)).
			Msg("Cleaning up dangling videos")

		if err := s.repos.Videos.UpsertBatch(ctx, returned); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		if err := s.repos.Videos.DeleteBatch(ctx, missing); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
	}

	if err := s.pages.Repopulate(ctx, render.PageRoot); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to repopulate video page after refresh")
	}
	return nil
}

// UpdateChannels refreshes the stored metadata of every active channel.
// One channel's gateway failure is logged and does not abort the others;
// a storage failure does, since the store itself is unhealthy.
func (s *Service) UpdateChannels(ctx context.Context) error {
	channels, err := s.repos.Channels.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("channel update: %w", err)
	}
	if len(channels) == 0 {
		logger.Log.Info().Msg("No channels to update")
		return nil
	}

	for _, channel := range channels {
		updated, err := s.gateway.FetchChannel(ctx, channel.ID)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("channel_id", channel.ID).
				Str("name", channel.Name).
				Msg("Failed to fetch channel metadata")
			continue
		}

		// The disabled flag is administered locally, never upstream
		updated.Disabled = channel.Disabled

		if err := s.repos.Channels.Upsert(ctx, updated); err != nil {
			return fmt.Errorf("channel update: %w", err)
		}

		logger.Log.Debug().
			Str("channel_id", updated.ID).
			Str("name", updated.Name).
			Msg("Updated channel metadata")
	}

	if err := s.pages.Repopulate(ctx, render.PageList); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to repopulate channel page after update")
	}
	return nil
}
