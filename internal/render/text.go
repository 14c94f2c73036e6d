package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sorekai/livetrack/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// rootText renders the upcoming-video page as colored plain text
func rootText(videos []models.UpcomingVideo) string {
	if len(videos) == 0 {
		return "no upcoming streams"
	}

	entries := make([]string, 0, len(videos))
	for i := range videos {
		entries = append(entries, formatVideo(&videos[i]))
	}
	return strings.Join(entries, "\n")
}

// listText renders the channel page as colored plain text
func listText(rows []channelRow) string {
	if len(rows) == 0 {
		return "no channels found"
	}

	entries := make([]string, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, fmt.Sprintf(
			"%s\n  name: %s\n  url:  %s\n  id:   %s",
			row.alias,
			row.channel.Name,
			lightBlue(row.channel.URL()),
			row.channel.ID,
		))
	}
	return strings.Join(entries, "\n")
}

func formatVideo(video *models.UpcomingVideo) string {
	var status string
	switch video.Status() {
	case models.StatusEnded:
		status = brightPurple("[ended]")
	case models.StatusLive:
		status = brightRed("[live]")
	default:
		status = brightYellow("[upcoming]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", status, green(video.Title))
	if video.ChannelName != "" {
		fmt.Fprintf(&b, "channel:   %s\n", video.ChannelName)
	}
	fmt.Fprintf(&b, "url:       %s\n", lightBlue(video.URL()))

	if video.StartTime != nil {
		fmt.Fprintf(&b, "started:   %s\n", humanizeTime(*video.StartTime))
	} else {
		fmt.Fprintf(&b, "scheduled: %s\n", humanizeTime(video.ScheduledTime))
	}

	return b.String()
}

// humanizeTime renders an absolute UTC timestamp with a relative suffix,
// e.g. "2026-09-01 12:00:00 UTC (2 hours from now)".
func humanizeTime(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("%s UTC (%s)", utc.Format(timestampLayout), humanize.Time(utc))
}
