// Package models defines the persisted entities for tracked channels and videos.
package models

// Channel represents an upstream channel being tracked.
// The ID is the stable upstream channel identifier, not a locally generated key.
type Channel struct {
	ID       string `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name     string `json:"name" gorm:"type:text;not null;column:name"`
	Disabled bool   `json:"disabled" gorm:"type:integer;not null;default:0;column:disabled"`
}

// TableName overrides the default gorm pluralization
func (Channel) TableName() string {
	return "channels"
}

// URL returns the public channel page URL
func (c *Channel) URL() string {
	return "https://www.youtube.com/channel/" + c.ID
}
