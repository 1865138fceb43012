// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections from the application's
// configuration. The registry uses the database only for its snapshot archive, so
// the connection is optional: callers log a warning and continue without it.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the health feature verify that the archive
// table carries the columns the archive model expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Optional database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "registry_snapshots", []string{"id", "digest"})
package database
