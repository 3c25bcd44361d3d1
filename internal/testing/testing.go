// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"plexloc/internal/models"
)

// SortWrite records one sort-title mutation issued against [FakeLibrary].
type SortWrite struct {
	RatingKey string
	Type      models.MediaType
	Value     string
	Locked    bool
}

// TagWrite records one facet mutation issued against [FakeLibrary],
// including the full resubmitted tag list.
type TagWrite struct {
	RatingKey string
	Type      models.MediaType
	Facet     models.Facet
	OldTag    string
	NewTag    string
	Tags      []string
}

// FakeLibrary is an in-memory test double for the remote library client.
//
// Mutations are applied to the in-memory items, so reprocessing observes the
// server state a real run would leave behind. All methods are safe for
// concurrent use by batch workers.
type FakeLibrary struct {
	mu sync.Mutex

	SectionList    []models.Section
	Items          map[string]*models.Item
	KeysBySection  map[string]map[models.MediaType][]string
	CollectionList map[string][]models.Collection

	SortWrites  []SortWrite
	TagWrites   []TagWrite
	ItemFetches int
	KeyRequests int

	SectionsErr error
	ItemErrs    map[string]error
}

// NewFakeLibrary creates an empty FakeLibrary.
func NewFakeLibrary() *FakeLibrary {
	return &FakeLibrary{
		Items:          make(map[string]*models.Item),
		KeysBySection:  make(map[string]map[models.MediaType][]string),
		CollectionList: make(map[string][]models.Collection),
		ItemErrs:       make(map[string]error),
	}
}

// AddSection registers a section and the item keys it lists per media type.
func (f *FakeLibrary) AddSection(section models.Section, keysByType map[models.MediaType][]string) {
	f.SectionList = append(f.SectionList, section)
	if keysByType == nil {
		keysByType = make(map[models.MediaType][]string)
	}
	f.KeysBySection[section.Key] = keysByType
}

// AddItem registers an item fetchable by rating key.
func (f *FakeLibrary) AddItem(item *models.Item) {
	f.Items[item.RatingKey] = item
}

func (f *FakeLibrary) Sections(ctx context.Context) ([]models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SectionsErr != nil {
		return nil, f.SectionsErr
	}
	return f.SectionList, nil
}

func (f *FakeLibrary) ItemKeys(ctx context.Context, sectionKey string, mediaType models.MediaType) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.KeyRequests++
	keysByType, ok := f.KeysBySection[sectionKey]
	if !ok {
		return []string{}, nil
	}
	return keysByType[mediaType], nil
}

func (f *FakeLibrary) Item(ctx context.Context, ratingKey string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ItemFetches++
	if err := f.ItemErrs[ratingKey]; err != nil {
		return nil, err
	}
	item, ok := f.Items[ratingKey]
	if !ok {
		return nil, errors.New("item not found: " + ratingKey)
	}
	copied := *item
	copied.Genres = append([]string(nil), item.Genres...)
	copied.Styles = append([]string(nil), item.Styles...)
	copied.Moods = append([]string(nil), item.Moods...)
	return &copied, nil
}

func (f *FakeLibrary) Collections(ctx context.Context, sectionKey string) ([]models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CollectionList[sectionKey], nil
}

func (f *FakeLibrary) SetSortTitle(ctx context.Context, ratingKey string, mediaType models.MediaType, value string, locked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SortWrites = append(f.SortWrites, SortWrite{
		RatingKey: ratingKey,
		Type:      mediaType,
		Value:     value,
		Locked:    locked,
	})
	if item, ok := f.Items[ratingKey]; ok {
		item.TitleSort = value
	}
	for sectionKey, collections := range f.CollectionList {
		for i := range collections {
			if collections[i].RatingKey == ratingKey {
				f.CollectionList[sectionKey][i].TitleSort = value
			}
		}
	}
	return nil
}

func (f *FakeLibrary) SetFacetTag(ctx context.Context, ratingKey string, mediaType models.MediaType, facet models.Facet, oldTag, newTag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.Items[ratingKey]
	if !ok {
		return errors.New("item not found: " + ratingKey)
	}

	tags := make([]string, 0, len(item.Tags(facet)))
	for _, tag := range item.Tags(facet) {
		if tag != oldTag {
			tags = append(tags, tag)
		}
	}
	tags = append(tags, newTag)

	switch facet {
	case models.FacetGenre:
		item.Genres = tags
	case models.FacetStyle:
		item.Styles = tags
	case models.FacetMood:
		item.Moods = tags
	}

	f.TagWrites = append(f.TagWrites, TagWrite{
		RatingKey: ratingKey,
		Type:      mediaType,
		Facet:     facet,
		OldTag:    oldTag,
		NewTag:    newTag,
		Tags:      tags,
	})
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
