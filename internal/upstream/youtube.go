package upstream

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/sorekai/livetrack/internal/logger"
	"github.com/sorekai/livetrack/internal/models"
)

// videos.list accepts at most 50 ids per call
const maxIDsPerCall = 50

// YouTubeGateway implements Gateway against the YouTube Data API v3 with
// API-key authentication, plus the public per-channel upload feed for
// discovery probes.
type YouTubeGateway struct {
	svc     *yt.Service
	feedURL string
}

// NewYouTube creates a gateway backed by the YouTube Data API
func NewYouTube(ctx context.Context, apiKey string) (*YouTubeGateway, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeGateway{svc: svc, feedURL: defaultFeedURL}, nil
}

// FetchVideosByIDs returns the authoritative records for the given video ids.
// Ids the API no longer reports are absent from the result. Uploads that are
// not broadcasts (no live-streaming details) are skipped.
func (g *YouTubeGateway) FetchVideosByIDs(ctx context.Context, ids []string) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(ids))

	for start := 0; start < len(ids); start += maxIDsPerCall {
		end := min(start+maxIDsPerCall, len(ids))

		resp, err := g.svc.Videos.
			List([]string{"snippet", "liveStreamingDetails"}).
			Id(ids[start:end]...).
			MaxResults(maxIDsPerCall).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("videos.list failed: %w", err)
		}

		for _, item := range resp.Items {
			video, ok := mapVideo(item)
			if !ok {
				logger.Log.Debug().
					Str("video_id", item.Id).
					Msg("Skipping non-broadcast video")
				continue
			}
			videos = append(videos, video)
		}
	}

	return videos, nil
}

// FetchChannel returns the current metadata for a channel id
func (g *YouTubeGateway) FetchChannel(ctx context.Context, channelID string) (*models.Channel, error) {
	resp, err := g.svc.Channels.
		List([]string{"id", "snippet"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list failed: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := resp.Items[0]
	return &models.Channel{
		ID:   item.Id,
		Name: item.Snippet.Title,
	}, nil
}

// mapVideo converts an API item into a stored video record. Items without
// live-streaming details or a scheduled start time are not broadcasts and
// are reported as not mappable.
func mapVideo(item *yt.Video) (models.Video, bool) {
	details := item.LiveStreamingDetails
	if details == nil || details.ScheduledStartTime == "" {
		return models.Video{}, false
	}

	scheduled, err := time.Parse(time.RFC3339, details.ScheduledStartTime)
	if err != nil {
		return models.Video{}, false
	}

	video := models.Video{
		ID:            item.Id,
		ChannelID:     item.Snippet.ChannelId,
		Title:         item.Snippet.Title,
		ScheduledTime: scheduled.UTC(),
	}
	if started, err := time.Parse(time.RFC3339, details.ActualStartTime); err == nil && details.ActualStartTime != "" {
		utc := started.UTC()
		video.StartTime = &utc
	}
	if ended, err := time.Parse(time.RFC3339, details.ActualEndTime); err == nil && details.ActualEndTime != "" {
		utc := ended.UTC()
		video.EndTime = &utc
	}

	return video, true
}
