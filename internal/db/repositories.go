package db

// Repositories provides access to all database repositories
type Repositories struct {
	Channels      *ChannelRepository
	Collections   *CollectionRepository
	MediaItems    *MediaItemRepository
	PlaylistItems *PlaylistItemRepository
	ImportRuns    *ImportRunRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Channels:      NewChannelRepository(db),
		Collections:   NewCollectionRepository(db),
		MediaItems:    NewMediaItemRepository(db),
		PlaylistItems: NewPlaylistItemRepository(db),
		ImportRuns:    NewImportRunRepository(db),
	}
}
