// Package config provides configuration management for the KBLI registry.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults live in the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, timeouts)
//   - Storage: S3/MinIO credentials and the bucket for source batches and exports
//   - Sources: where the portal and regulation batches are read from, inbox watching
//   - Registry: precedence policy, paging, archive and export settings
//   - Events: NATS connection for snapshot events
//   - Database: MySQL or SQLite connection for the snapshot archive
//   - Log: Logging level and format
//
// Every key can be overridden through the environment by upper-casing it and
// replacing dots with underscores, e.g. SOURCES_PORTAL_PATH or REGISTRY_MAX_PAGE_SIZE.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
