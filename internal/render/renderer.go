package render

import (
	"context"
	"fmt"
	"sort"

	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/models"
)

// VideoSource provides the upcoming-video listing used by the root page.
// Satisfied by db.VideoRepository.
type VideoSource interface {
	ListUpcoming(ctx context.Context, channelID *string) ([]models.UpcomingVideo, error)
}

// ChannelSource provides the active channel listing used by the list page.
// Satisfied by db.ChannelRepository.
type ChannelSource interface {
	ListActive(ctx context.Context) ([]models.Channel, error)
}

// Renderer computes page content from store reads. Store failures degrade to
// empty listings after logging; a page render never surfaces a storage error
// to the client.
type Renderer struct {
	videos   VideoSource
	channels ChannelSource
	// aliases maps the short request alias to the upstream channel id
	aliases map[string]string
}

// New creates a page renderer
func New(videos VideoSource, channels ChannelSource, aliases map[string]string) *Renderer {
	return &Renderer{
		videos:   videos,
		channels: channels,
		aliases:  aliases,
	}
}

// RenderPage computes the content for a page in the requested format
func (r *Renderer) RenderPage(ctx context.Context, kind PageKind, selector Selector, format Format) (string, error) {
	switch kind {
	case PageRoot:
		return r.renderRoot(ctx, selector, format)
	case PageList:
		return r.renderList(ctx, format)
	default:
		return "", fmt.Errorf("unknown page kind: %s", kind)
	}
}

func (r *Renderer) renderRoot(ctx context.Context, selector Selector, format Format) (string, error) {
	if selector == SelectorInvalid {
		if format == FormatJSON {
			return marshalJSON(errorResponse{Error: "that channel is not tracked"})
		}
		return "that channel is not tracked", nil
	}

	videos, err := r.videos.ListUpcoming(ctx, selector.channelID())
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("selector", string(selector)).
			Msg("Failed to list upcoming videos, rendering empty page")
		videos = nil
	}

	if format == FormatJSON {
		return rootJSON(videos)
	}
	return rootText(videos), nil
}

func (r *Renderer) renderList(ctx context.Context, format Format) (string, error) {
	channels, err := r.channels.ListActive(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list channels, rendering empty page")
		channels = nil
	}

	rows := r.channelRows(channels)

	if format == FormatJSON {
		return listJSON(rows)
	}
	return listText(rows), nil
}

// channelRow pairs a stored channel with its configured alias
type channelRow struct {
	alias   string
	channel models.Channel
}

// channelRows resolves the configured aliases against the stored channels,
// sorted by alias for stable output. Aliases whose channel has not been
// stored yet are skipped.
func (r *Renderer) channelRows(channels []models.Channel) []channelRow {
	byID := make(map[string]models.Channel, len(channels))
	for _, ch := range channels {
		byID[ch.ID] = ch
	}

	aliases := make([]string, 0, len(r.aliases))
	for alias := range r.aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	rows := make([]channelRow, 0, len(aliases))
	for _, alias := range aliases {
		ch, ok := byID[r.aliases[alias]]
		if !ok {
			continue
		}
		rows = append(rows, channelRow{alias: alias, channel: ch})
	}
	return rows
}
