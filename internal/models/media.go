package models

import "fmt"

// MediaType is the Plex operation-type code used on list and metadata edit requests.
type MediaType int

const (
	TypeMovie  MediaType = 1
	TypeShow   MediaType = 2
	TypeArtist MediaType = 8
	TypeAlbum  MediaType = 9
	TypeTrack  MediaType = 10
	TypePhoto  MediaType = 99
)

// ParseMediaType maps a section's declared type string to its operation-type code.
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "movie":
		return TypeMovie, nil
	case "show":
		return TypeShow, nil
	case "artist":
		return TypeArtist, nil
	case "album":
		return TypeAlbum, nil
	case "track":
		return TypeTrack, nil
	case "photo":
		return TypePhoto, nil
	default:
		return 0, fmt.Errorf("unknown section type %q", s)
	}
}

func (t MediaType) String() string {
	switch t {
	case TypeMovie:
		return "movie"
	case TypeShow:
		return "show"
	case TypeArtist:
		return "artist"
	case TypeAlbum:
		return "album"
	case TypeTrack:
		return "track"
	case TypePhoto:
		return "photo"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Facet is one of the three independent classification fields on a media item.
type Facet string

const (
	FacetGenre Facet = "genre"
	FacetStyle Facet = "style"
	FacetMood  Facet = "mood"
)

// Section represents one Plex library section.
type Section struct {
	Key   string
	Type  MediaType
	Title string
}

// Item represents one media item's metadata as fetched from the server.
//
// Items are transient: fetched fresh per mutation decision and discarded.
// Nothing is cached between calls, so external edits to tags are respected.
type Item struct {
	RatingKey string
	Title     string
	TitleSort string
	Genres    []string
	Styles    []string
	Moods     []string
}

// Tags returns the item's current tag values for the given facet.
func (i *Item) Tags(f Facet) []string {
	switch f {
	case FacetGenre:
		return i.Genres
	case FacetStyle:
		return i.Styles
	case FacetMood:
		return i.Moods
	default:
		return nil
	}
}

// Collection is a restricted item with title and sort title only, no tag facets.
type Collection struct {
	RatingKey string
	Title     string
	TitleSort string
}
