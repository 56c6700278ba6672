// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Behavior - these keys govern where and how media files are fetched and stored.
const (
	DownloadPath    = "download.path"
	DownloadWorkers = "download.workers"
)

// History Tracking - these keys configure the persistence of completed download records.
const (
	HistorySaveOnDownload = "history.save_on_download"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Diagnostics - these keys control the structured logging subsystem.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Command Line Interface - these keys define the CLI presentation behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
