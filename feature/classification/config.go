package classification

// Config holds configuration for the registry feature.
type Config struct {
	// Enabled toggles the registry routes.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// PolicyPath is an optional YAML file overriding field precedence.
	PolicyPath string `mapstructure:"policy_path" default:""`
	// MaxPageSize caps an explicit query limit. Queries without a limit return
	// every match.
	MaxPageSize int `mapstructure:"max_page_size" default:"500"`
	// RefreshOnStart runs a reconciliation pass when the server starts.
	RefreshOnStart bool `mapstructure:"refresh_on_start" default:"true"`
	// ArchiveEnabled persists every snapshot to the database when one is connected.
	ArchiveEnabled bool `mapstructure:"archive_enabled" default:"true"`
	// ExportPrefix is the bucket prefix exports are published under.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports"`
}
