// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Source Identifiers - these keys manage the selection of search providers.
const (
	DefaultSources = "sources.default"
)

// Downloads - where finished audio files land and how they are named.
const (
	DownloadsPath      = "downloads.path"
	DownloadsExtension = "downloads.extension"
)

// Network - timeouts and transport behaviour for search and media requests.
const (
	NetworkSearchTimeout  = "network.search_timeout"
	NetworkFetchTimeout   = "network.fetch_timeout"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// History Tracking - these keys configure the persistence of download outcomes.
const (
	HistorySave = "history.save"
)

// Search Interaction - these keys define the UX parameters for title suggestions.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Spotify - credentials and limits for playlist import.
const (
	SpotifyClientID     = "spotify.client_id"
	SpotifyClientSecret = "spotify.client_secret"
	SpotifyRedirectURI  = "spotify.redirect_uri"
	SpotifyTrackLimit   = "spotify.track_limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal output.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliProgress     = "cli.progress"
)
