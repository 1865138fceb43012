package source

import (
	"time"

	"kbli-registry/feature/classification/models"
)

// Origins a batch can be read from.
const (
	OriginFile   = "file"
	OriginBucket = "bucket"
)

// Config locates the raw row batches of both sources.
type Config struct {
	// PortalPath is a file path or, for the bucket origin, an object name.
	PortalPath string `mapstructure:"portal_path" default:"data/portal.csv"`
	// RegulationPath is a file path or, for the bucket origin, an object name.
	RegulationPath string `mapstructure:"regulation_path" default:"data/regulation.csv"`
	// Origin is either "file" or "bucket".
	Origin string `mapstructure:"origin" default:"file"`
	// WatchDir enables the inbox watcher when set.
	WatchDir string `mapstructure:"watch_dir" default:""`
	// WatchPatterns are doublestar patterns relative to WatchDir.
	WatchPatterns []string `mapstructure:"watch_patterns" default:"**/*.csv,**/*.json"`
	// Debounce is how long the watcher waits for writes to settle.
	Debounce time.Duration `mapstructure:"debounce" default:"2s"`
}

// Path returns the configured batch location for a source.
func (c Config) Path(id models.SourceID) string {
	if id == models.SourceRegulation {
		return c.RegulationPath
	}
	return c.PortalPath
}
