package tasks

import (
	"context"

	"plexloc/internal/locale"
	"plexloc/internal/models"
)

// facetRoute pairs the tag list a translation is read from with the facet
// setter the write goes through.
type facetRoute struct {
	source models.Facet
	target models.Facet
}

// facetPlan returns the facet routes applied to one media kind.
//
// Movie and show items route mood translations through the style setter.
// That routing is carried over from the established behavior of this tool;
// changing it would rewrite moods into a different facet than existing
// libraries have. Tracks inherit genre and style from their album, so only
// mood is touched.
func facetPlan(mediaType models.MediaType) []facetRoute {
	switch mediaType {
	case models.TypeMovie, models.TypeShow:
		return []facetRoute{
			{source: models.FacetGenre, target: models.FacetGenre},
			{source: models.FacetStyle, target: models.FacetStyle},
			{source: models.FacetMood, target: models.FacetStyle},
		}
	case models.TypeArtist, models.TypeAlbum:
		return []facetRoute{
			{source: models.FacetGenre, target: models.FacetGenre},
			{source: models.FacetStyle, target: models.FacetStyle},
			{source: models.FacetMood, target: models.FacetMood},
		}
	case models.TypeTrack:
		return []facetRoute{
			{source: models.FacetMood, target: models.FacetMood},
		}
	default:
		return nil
	}
}

// needsSortKey implements the sort-title rewrite gate: the display title is
// not already localized, and the current sort value still needs conversion
// (empty or itself containing ideographs). A sort title a human already set
// in Latin script is never clobbered.
func needsSortKey(title, titleSort string) bool {
	return !locale.IsLocalized(title) && (locale.HasCJK(titleSort) || titleSort == "")
}

// processItem applies the localization rules to one media item: fetch fresh
// metadata, rewrite the sort title if needed, translate each applicable facet
// tag with one read-modify-write per match. Failures are logged with item
// context and never abort sibling items; there is no rollback on partial
// failure, the next scheduled run re-evaluates the item.
func (e *Engine) processItem(ctx context.Context, st *runState, mediaType models.MediaType, ratingKey string) {
	if err := e.wait(ctx); err != nil {
		return
	}

	item, err := e.library.Item(ctx, ratingKey)
	if err != nil {
		e.logger.Error("failed to fetch item", "ratingKey", ratingKey, "error", err)
		st.addError()
		return
	}

	if needsSortKey(item.Title, item.TitleSort) {
		sortKey := locale.SortKey(item.Title)
		if err := e.wait(ctx); err != nil {
			return
		}
		if err := e.library.SetSortTitle(ctx, ratingKey, mediaType, sortKey, true); err != nil {
			e.logger.Error("failed to write sort title", "title", item.Title, "ratingKey", ratingKey, "error", err)
			st.addError()
		} else {
			e.logger.Info("sort title", "title", item.Title, "sort", sortKey)
			st.addChange(ChangeRecord{
				RatingKey: ratingKey,
				Title:     item.Title,
				Field:     "titleSort",
				Before:    item.TitleSort,
				After:     sortKey,
			}, true)
		}
	}

	for _, route := range facetPlan(mediaType) {
		for _, tag := range item.Tags(route.source) {
			translated, ok := locale.TranslateTag(tag)
			if !ok {
				continue
			}
			if err := e.wait(ctx); err != nil {
				return
			}
			if err := e.library.SetFacetTag(ctx, ratingKey, mediaType, route.target, tag, translated); err != nil {
				e.logger.Error("failed to write tag", "title", item.Title, "facet", route.target, "tag", tag, "error", err)
				st.addError()
				continue
			}
			e.logger.Info("tag", "title", item.Title, "from", tag, "to", translated)
			st.addChange(ChangeRecord{
				RatingKey: ratingKey,
				Title:     item.Title,
				Field:     string(route.target),
				Before:    tag,
				After:     translated,
			}, false)
		}
	}
}

// processCollection applies the sort-title rule to one collection entry.
// Collections carry no tag facets.
func (e *Engine) processCollection(ctx context.Context, st *runState, mediaType models.MediaType, collection models.Collection) {
	if !needsSortKey(collection.Title, collection.TitleSort) {
		return
	}

	sortKey := locale.SortKey(collection.Title)
	if err := e.wait(ctx); err != nil {
		return
	}
	if err := e.library.SetSortTitle(ctx, collection.RatingKey, mediaType, sortKey, true); err != nil {
		e.logger.Error("failed to write collection sort title", "title", collection.Title, "ratingKey", collection.RatingKey, "error", err)
		st.addError()
		return
	}

	e.logger.Info("collection sort title", "title", collection.Title, "sort", sortKey)
	st.addChange(ChangeRecord{
		RatingKey: collection.RatingKey,
		Title:     collection.Title,
		Field:     "titleSort",
		Before:    collection.TitleSort,
		After:     sortKey,
	}, true)
}
