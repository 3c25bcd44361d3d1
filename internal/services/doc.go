// Package services implements the HTTP client for the Plex Media Server API.
//
// # Session
//
// [PlexService] shares one host/token/http.Client session across all callers.
// The session is read-only after construction, so batch workers use a single
// instance concurrently without client-side locks.
//
// # Consistency
//
// Facet tag edits ([PlexService.SetFacetTag]) are read-modify-write over the
// facet's full tag list with no transactional guarantee from the server: an
// external edit landing between the read and the write is overwritten. The
// Plex edit endpoint exposes no ETag or version token, so this is a known,
// accepted consistency gap rather than something the client papers over.
// Genre/style/mood lists rarely change concurrently from two actors.
//
// # Error Handling
//
// Failures wrap typed errors from the shared package:
//   - [shared.ErrConnectivity] : unreachable endpoint or malformed payload
//   - [shared.ErrAPIRequest] : non-2xx status from the server
//   - [shared.ErrItemNotFound] : metadata lookup returned no elements
package services
