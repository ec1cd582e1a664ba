// Package models fetches the MediaPipe pose model artifacts used by the
// Forma app into a local assets directory.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Manager interface - Applications can use
//     NewManager to create a Manager that provides methods for fetching,
//     listing, and removing model files.
//
//  2. Standalone CLI via NewCommand - the forma-models binary wraps the
//     complete command tree, providing commands like "forma-models fetch",
//     "forma-models list", etc.
//
// # Catalog
//
// The set of known model artifacts is compiled in (see Catalog). Models are
// addressed by catalog name; source URLs are never configured at runtime.
//
// # Thread Safety
//
// The Manager interface is safe for concurrent use. Fetches of the same
// model from separate processes are serialized with an advisory file lock.
//
// # Storage
//
// Model files land in a single assets directory, resolved in priority order
// from the <APPNAME>_MODELS_DIR environment variable, Config.AssetsDir, or a
// platform-appropriate default:
//   - Linux: $XDG_DATA_HOME/<app>/models/ or ~/.local/share/<app>/models/
//   - macOS: ~/Library/Application Support/<app>/models/
//   - Windows: %APPDATA%\<app>\models\
package models
