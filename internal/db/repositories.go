package db

// Repositories provides access to all database repositories
type Repositories struct {
	Channels *ChannelRepository
	Videos   *VideoRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Channels: NewChannelRepository(db),
		Videos:   NewVideoRepository(db),
	}
}
