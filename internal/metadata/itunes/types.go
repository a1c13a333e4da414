// Package itunes searches the Apple iTunes catalog for songs, albums and artists.
package itunes

// Entity selects what kind of music item to search for.
type Entity string

const (
	EntitySong   Entity = "song"
	EntityAlbum  Entity = "album"
	EntityArtist Entity = "musicArtist"
)

// titleField is the response field holding the display title for an entity.
func (e Entity) titleField() string {
	switch e {
	case EntityAlbum:
		return "collectionName"
	case EntityArtist:
		return "artistName"
	default:
		return "trackName"
	}
}
