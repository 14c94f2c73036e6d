package render

import (
	"encoding/json"
	"fmt"

	"github.com/sorekai/livetrack/internal/models"
)

// JSON response DTOs

type videoChannelJSON struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type videoJSON struct {
	Status  string           `json:"status"`
	Title   string           `json:"title"`
	URL     string           `json:"url"`
	ID      string           `json:"id"`
	Channel videoChannelJSON `json:"channel"`
}

type rootResponse struct {
	Videos []videoJSON `json:"videos"`
}

type channelJSON struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type listResponse struct {
	Channels []channelJSON `json:"channels"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// rootJSON renders the upcoming-video page as JSON
func rootJSON(videos []models.UpcomingVideo) (string, error) {
	resp := rootResponse{Videos: make([]videoJSON, 0, len(videos))}
	for i := range videos {
		video := &videos[i]
		resp.Videos = append(resp.Videos, videoJSON{
			Status: string(video.Status()),
			Title:  video.Title,
			URL:    video.URL(),
			ID:     video.ID,
			Channel: videoChannelJSON{
				Name: video.ChannelName,
				ID:   video.ChannelID,
			},
		})
	}
	return marshalJSON(resp)
}

// listJSON renders the channel page as JSON
func listJSON(rows []channelRow) (string, error) {
	resp := listResponse{Channels: make([]channelJSON, 0, len(rows))}
	for _, row := range rows {
		resp.Channels = append(resp.Channels, channelJSON{
			ID:    row.channel.ID,
			Alias: row.alias,
			Name:  row.channel.Name,
			URL:   row.channel.URL(),
		})
	}
	return marshalJSON(resp)
}

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal page content: %w", err)
	}
	return string(data), nil
}
