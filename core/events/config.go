package events

// Config holds the NATS connection settings for registry events.
type Config struct {
	// URL is the NATS server URL. Publishing is disabled when empty.
	URL string `mapstructure:"url" default:""`
	// Subject is the subject snapshot events are published on.
	Subject string `mapstructure:"subject" default:"kbli.registry.snapshot"`
	// ClientName identifies this process to the NATS server.
	ClientName string `mapstructure:"client_name" default:"kbli-registry"`
	// TimeoutSeconds bounds the initial connection attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}

// Enabled reports whether a NATS URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
