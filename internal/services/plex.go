// Plex Media Server API client
//
// Typed accessors over the subset of the Plex HTTP API the localizer needs:
// section listing, item key listing, metadata reads, and sort-title / facet
// tag edits. Every request carries the X-Plex-Token header and asks for JSON.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"plexloc/internal/models"
	"plexloc/internal/shared"
)

type plexTag struct {
	Tag string `json:"tag"`
}

type plexMetadata struct {
	RatingKey string    `json:"ratingKey"`
	Title     string    `json:"title"`
	TitleSort string    `json:"titleSort"`
	Genre     []plexTag `json:"Genre"`
	Style     []plexTag `json:"Style"`
	Mood      []plexTag `json:"Mood"`
}

type plexDirectory struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

type plexContainer struct {
	FriendlyName string          `json:"friendlyName"`
	Directory    []plexDirectory `json:"Directory"`
	Metadata     []plexMetadata  `json:"Metadata"`
}

type plexResponse struct {
	MediaContainer plexContainer `json:"MediaContainer"`
}

// PlexService implements the remote library client against a Plex Media Server.
//
// The client holds no mutable state beyond the shared session (host, token,
// HTTP client), so a single instance is safe to use from concurrent workers.
type PlexService struct {
	host       string
	token      string
	httpClient *http.Client
}

// NewPlexService creates a Plex client for the given host and auth token.
func NewPlexService(host, token string, client *http.Client) *PlexService {
	if client == nil {
		client = http.DefaultClient
	}

	return &PlexService{
		host:       strings.TrimRight(host, "/"),
		token:      token,
		httpClient: client,
	}
}

// Name returns the service name.
func (s *PlexService) Name() string {
	return "Plex"
}

// get performs an authenticated GET and decodes the MediaContainer envelope.
func (s *PlexService) get(ctx context.Context, endpoint string) (*plexContainer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.host+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	var body plexResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", shared.ErrConnectivity, err)
	}

	return &body.MediaContainer, nil
}

// put performs an authenticated PUT with query parameters. Plex metadata
// edits return nothing the caller relies on, so only the status is checked.
func (s *PlexService) put(ctx context.Context, endpoint string, params url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.host+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: PUT %s: status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	return nil
}

// Identity fetches the server's friendly name, doubling as a connectivity and
// credential check at startup.
func (s *PlexService) Identity(ctx context.Context) (string, error) {
	container, err := s.get(ctx, "/")
	if err != nil {
		return "", err
	}
	if container.FriendlyName == "" {
		return "", fmt.Errorf("%w: server identity missing friendlyName", shared.ErrConnectivity)
	}
	return container.FriendlyName, nil
}

// Sections lists all library sections in server order.
func (s *PlexService) Sections(ctx context.Context) ([]models.Section, error) {
	container, err := s.get(ctx, "/library/sections/")
	if err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(container.Directory))
	for _, dir := range container.Directory {
		mediaType, err := models.ParseMediaType(dir.Type)
		if err != nil {
			// Sections of types this tool does not handle (e.g. clips) are
			// skipped rather than failing the whole pass.
			continue
		}
		sections = append(sections, models.Section{
			Key:   dir.Key,
			Type:  mediaType,
			Title: dir.Title,
		})
	}

	return sections, nil
}

// ItemKeys lists the rating keys of all items of the given type in a section.
// A section with zero items of that type yields an empty slice, not an error.
func (s *PlexService) ItemKeys(ctx context.Context, sectionKey string, mediaType models.MediaType) ([]string, error) {
	endpoint := fmt.Sprintf("/library/sections/%s/all?type=%d", sectionKey, int(mediaType))

	container, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(container.Metadata))
	for _, meta := range container.Metadata {
		keys = append(keys, meta.RatingKey)
	}

	return keys, nil
}

// Item fetches one item's metadata. The first element of the returned
// metadata collection is authoritative.
func (s *PlexService) Item(ctx context.Context, ratingKey string) (*models.Item, error) {
	container, err := s.get(ctx, "/library/metadata/"+ratingKey)
	if err != nil {
		return nil, err
	}
	if len(container.Metadata) == 0 {
		return nil, fmt.Errorf("%w: rating key %s", shared.ErrItemNotFound, ratingKey)
	}

	meta := container.Metadata[0]
	return &models.Item{
		RatingKey: meta.RatingKey,
		Title:     meta.Title,
		TitleSort: meta.TitleSort,
		Genres:    tagValues(meta.Genre),
		Styles:    tagValues(meta.Style),
		Moods:     tagValues(meta.Mood),
	}, nil
}

// Collections lists the collection entries of a section.
func (s *PlexService) Collections(ctx context.Context, sectionKey string) ([]models.Collection, error) {
	container, err := s.get(ctx, fmt.Sprintf("/library/sections/%s/collections", sectionKey))
	if err != nil {
		return nil, err
	}

	collections := make([]models.Collection, 0, len(container.Metadata))
	for _, meta := range container.Metadata {
		collections = append(collections, models.Collection{
			RatingKey: meta.RatingKey,
			Title:     meta.Title,
			TitleSort: meta.TitleSort,
		})
	}

	return collections, nil
}

// SetSortTitle writes an item's sort title, optionally locking the field so
// metadata agents stop overwriting it.
func (s *PlexService) SetSortTitle(ctx context.Context, ratingKey string, mediaType models.MediaType, value string, locked bool) error {
	params := url.Values{}
	params.Set("type", strconv.Itoa(int(mediaType)))
	params.Set("id", ratingKey)
	params.Set("includeExternalMedia", "1")
	params.Set("titleSort.value", value)
	params.Set("titleSort.locked", lockFlag(locked))

	return s.put(ctx, "/library/metadata/"+ratingKey, params)
}

// SetFacetTag replaces oldTag with newTag in one facet of an item.
//
// The facet's current tag list is re-read, oldTag removed, newTag appended,
// and the whole list resubmitted with the facet locked. The read-modify-write
// is not transactional: a concurrent external edit to the same facet between
// read and write is overwritten. Accepted race, see the package docs.
func (s *PlexService) SetFacetTag(ctx context.Context, ratingKey string, mediaType models.MediaType, facet models.Facet, oldTag, newTag string) error {
	item, err := s.Item(ctx, ratingKey)
	if err != nil {
		return err
	}

	tags := make([]string, 0, len(item.Tags(facet)))
	for _, tag := range item.Tags(facet) {
		if tag != oldTag {
			tags = append(tags, tag)
		}
	}
	tags = append(tags, newTag)

	params := url.Values{}
	params.Set("type", strconv.Itoa(int(mediaType)))
	params.Set("id", ratingKey)
	params.Set(string(facet)+".locked", "1")
	for i, tag := range tags {
		params.Set(fmt.Sprintf("%s[%d].tag.tag", facet, i), tag)
	}

	return s.put(ctx, "/library/metadata/"+ratingKey, params)
}

func tagValues(tags []plexTag) []string {
	if len(tags) == 0 {
		return nil
	}
	values := make([]string, 0, len(tags))
	for _, t := range tags {
		values = append(values, t.Tag)
	}
	return values
}

func lockFlag(locked bool) string {
	if locked {
		return "1"
	}
	return "0"
}
