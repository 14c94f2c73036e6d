// Package cache memoizes rendered page content. Each (page kind, format)
// pair owns an independent selector-keyed map, so repopulating one page
// never blocks reads of another.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/models"
	"github.com/sorekai/livetrack/internal/render"
	"github.com/sorekai/livetrack/internal/telemetry"
)

// PageRenderer computes page content on a cache miss.
// Satisfied by render.Renderer.
type PageRenderer interface {
	RenderPage(ctx context.Context, kind render.PageKind, selector render.Selector, format render.Format) (string, error)
}

// ChannelSource enumerates the active channels that span the root page's
// selector space. Satisfied by db.ChannelRepository.
type ChannelSource interface {
	ListActive(ctx context.Context) ([]models.Channel, error)
}

// pageMap is one independently locked selector->content mapping.
type pageMap struct {
	mu      sync.Mutex
	entries map[render.Selector]string
}

func newPageMap() *pageMap {
	return &pageMap{entries: make(map[render.Selector]string)}
}

func (m *pageMap) get(selector render.Selector) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.entries[selector]
	return content, ok
}

func (m *pageMap) set(selector render.Selector, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[selector] = content
}

// replace swaps in a freshly computed entry set, dropping selectors that
// are no longer part of the page's selector space.
func (m *pageMap) replace(entries map[render.Selector]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
}

type cacheKey struct {
	kind   render.PageKind
	format render.Format
}

// PageCache is a read-through cache over the page renderer. Entries never
// expire on their own; Repopulate is the only path that replaces them.
type PageCache struct {
	renderer PageRenderer
	channels ChannelSource
	pages    map[cacheKey]*pageMap
}

// New creates a page cache with empty maps for every page kind and format
func New(renderer PageRenderer, channels ChannelSource) *PageCache {
	pages := make(map[cacheKey]*pageMap)
	for _, kind := range []render.PageKind{render.PageRoot, render.PageList} {
		for _, format := range []render.Format{render.FormatText, render.FormatJSON} {
			pages[cacheKey{kind: kind, format: format}] = newPageMap()
		}
	}
	return &PageCache{
		renderer: renderer,
		channels: channels,
		pages:    pages,
	}
}

// Render returns the cached content for (kind, selector, format), computing
// and storing it on a miss. A failed render is logged and an empty placeholder
// is returned without being cached, so the next request retries. Concurrent
// misses may both compute; the last write wins.
func (c *PageCache) Render(ctx context.Context, kind render.PageKind, selector render.Selector, format render.Format) string {
	page := c.pages[cacheKey{kind: kind, format: format}]
	if page == nil {
		logger.Log.Error().
			Str("page", string(kind)).
			Str("format", string(format)).
			Msg("Render requested for unknown page")
		return ""
	}

	if content, ok := page.get(selector); ok {
		telemetry.CountCacheLookup(string(kind), true)
		logger.Log.Debug().
			Str("page", string(kind)).
			Str("selector", string(selector)).
			Msg("Page cache hit")
		return content
	}

	telemetry.CountCacheLookup(string(kind), false)
	logger.Log.Debug().
		Str("page", string(kind)).
		Str("selector", string(selector)).
		Msg("Page cache miss")

	content, err := c.renderer.RenderPage(ctx, kind, selector, format)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("page", string(kind)).
			Str("selector", string(selector)).
			Msg("Page render failed, returning placeholder")
		return ""
	}

	page.set(selector, content)
	return content
}

// Repopulate eagerly recomputes every selector in the page's selector space,
// in both formats, and swaps the fresh content in. The first reader after a
// sync never pays the render cost or observes a transient miss.
func (c *PageCache) Repopulate(ctx context.Context, kind render.PageKind) error {
	selectors, err := c.selectorSpace(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to enumerate selectors for page %s: %w", kind, err)
	}

	for _, format := range []render.Format{render.FormatText, render.FormatJSON} {
		entries := make(map[render.Selector]string, len(selectors))
		for _, selector := range selectors {
			content, err := c.renderer.RenderPage(ctx, kind, selector, format)
			if err != nil {
				// Never cache a failed render; the selector falls back
				// to read-through on the next request.
				logger.Log.Error().
					Err(err).
					Str("page", string(kind)).
					Str("selector", string(selector)).
					Str("format", string(format)).
					Msg("Failed to render page during repopulation")
				continue
			}
			entries[selector] = content
		}
		c.pages[cacheKey{kind: kind, format: format}].replace(entries)
	}

	logger.Log.Debug().
		Str("page", string(kind)).
		Int("selectors", len(selectors)).
		Msg("Page cache repopulated")
	return nil
}

// selectorSpace returns every selector a page can be rendered for: each
// active channel plus the all-channels view for the root page, the single
// empty selector for the channel list.
func (c *PageCache) selectorSpace(ctx context.Context, kind render.PageKind) ([]render.Selector, error) {
	switch kind {
	case render.PageRoot:
		channels, err := c.channels.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		selectors := make([]render.Selector, 0, len(channels)+1)
		for _, ch := range channels {
			selectors = append(selectors, render.ChannelSelector(ch.ID))
		}
		selectors = append(selectors, render.SelectorAll)
		return selectors, nil
	case render.PageList:
		return []render.Selector{render.SelectorNone}, nil
	default:
		return nil, fmt.Errorf("unknown page kind: %s", kind)
	}
}
