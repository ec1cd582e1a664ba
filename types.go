package models

import "time"

// Config configures the models module.
type Config struct {
	// AppName determines the platform-default storage directory name and the
	// environment variable prefix. Example: "forma" → FORMA_MODELS_DIR.
	AppName string

	// AssetsDir is the directory model files are written to.
	// If empty, a platform-appropriate default is used.
	// Can also be set via environment variable: <APPNAME>_MODELS_DIR
	AssetsDir string
}

// Model describes a single artifact in the compiled-in catalog.
type Model struct {
	// Name is the catalog name, e.g. "pose-landmark-lite".
	Name string `json:"name"`

	// FileName is the destination file name within the assets directory.
	FileName string `json:"file_name"`

	// Format is the artifact format, e.g. "tflite" or "task".
	Format string `json:"format"`

	// URL is the fixed source URL the artifact is fetched from.
	URL string `json:"url"`
}

// InstalledModel contains information about a locally fetched model file.
type InstalledModel struct {
	Model

	// Size is the file size in bytes, read back from the filesystem.
	Size int64 `json:"size"`

	// ModTime is the file's last modification time.
	ModTime time.Time `json:"mod_time"`

	// Path is the absolute path to the model file.
	Path string `json:"path"`
}

// FetchProgress reports transfer progress during a fetch operation.
type FetchProgress struct {
	// BytesCompleted is the number of bytes transferred so far.
	BytesCompleted int64

	// BytesTotal is the total expected size in bytes, or 0 when the server
	// did not supply a content length.
	BytesTotal int64
}

// Percent returns the completion percentage, capped at 100.
// Returns 0 when the total size is unknown.
func (p FetchProgress) Percent() float64 {
	if p.BytesTotal <= 0 {
		return 0
	}
	pct := float64(p.BytesCompleted) / float64(p.BytesTotal) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
