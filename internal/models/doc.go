// Package models defines domain entities for the Plex localization service.
//
// The package contains two categories of types:
//
// 1. Transient library entities, reconstructed every pass from the Plex server:
//   - [Section] : One library section with its operation-type code
//   - [Item] : Media item metadata (title, sort title, genre/style/mood facets)
//   - [Collection] : Restricted item with title and sort title only
//
// 2. Persistent bookkeeping:
//   - [Run] : Outcome record of one full localization pass
//
// Persistent entities implement the [Model] interface providing ID generation,
// timestamps and validation. The [Repository] interface defines standard CRUD
// operations for database access.
package models
