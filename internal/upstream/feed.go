package upstream

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

const defaultFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// DiscoverVideoIDs probes the channel's public upload feed and returns the
// video ids it lists. The feed is free to fetch, so this runs far more often
// than the typed-record API calls.
func (g *YouTubeGateway) DiscoverVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	parser := gofeed.NewParser()

	feed, err := parser.ParseURLWithContext(fmt.Sprintf(g.feedURL, channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upload feed for channel %s: %w", channelID, err)
	}

	ids := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if id := videoIDFromFeedItem(item); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// videoIDFromFeedItem extracts the video id from a feed entry, preferring
// the yt:videoId extension and falling back to the "yt:video:<id>" entry id.
func videoIDFromFeedItem(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]["videoId"]; ok && len(ext) > 0 && ext[0].Value != "" {
		return ext[0].Value
	}
	if id, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok {
		return id
	}
	return ""
}
