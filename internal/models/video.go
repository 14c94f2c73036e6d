package models

import "time"

// VideoStatus is the derived lifecycle state of a video.
type VideoStatus string

const (
	StatusUpcoming VideoStatus = "upcoming"
	StatusLive     VideoStatus = "live"
	StatusEnded    VideoStatus = "ended"
)

// Video represents a tracked broadcast belonging to a channel.
// Lifecycle state is never stored; it is derived from the start/end timestamps.
type Video struct {
	ID            string     `json:"id" gorm:"type:text;primaryKey;column:id"`
	ChannelID     string     `json:"channel_id" gorm:"type:text;not null;column:channel_id"`
	Title         string     `json:"title" gorm:"type:text;not null;column:title"`
	ScheduledTime time.Time  `json:"scheduled_time" gorm:"type:datetime;not null;column:scheduled_time"`
	StartTime     *time.Time `json:"start_time,omitempty" gorm:"type:datetime;column:start_time"`
	EndTime       *time.Time `json:"end_time,omitempty" gorm:"type:datetime;column:end_time"`
}

// TableName overrides the default gorm pluralization
func (Video) TableName() string {
	return "videos"
}

// Status derives the lifecycle state: upcoming until the broadcast starts,
// live until it ends, ended afterwards.
func (v *Video) Status() VideoStatus {
	if v.EndTime != nil {
		return StatusEnded
	}
	if v.StartTime != nil {
		return StatusLive
	}
	return StatusUpcoming
}

// URL returns the public watch URL
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// UpcomingVideo is a video row joined with the owning channel's display name,
// as returned by the upcoming-video listing query.
type UpcomingVideo struct {
	Video
	ChannelName string `json:"channel_name" gorm:"column:channel_name"`
}
