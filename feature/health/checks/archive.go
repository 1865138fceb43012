package checks

import (
	"fmt"

	"kbli-registry/core/database"
	"kbli-registry/feature/classification/archive"

	"gorm.io/gorm"
)

// ArchiveReport describes the archive table of the connected database.
type ArchiveReport struct {
	Table          string   `json:"table"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckArchive verifies that the archive table carries every column the
// archive model writes.
func CheckArchive(db *gorm.DB) (*ArchiveReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	missing, err := database.MissingColumns(db, archive.TableName, archive.Columns)
	if err != nil {
		return nil, err
	}

	report := &ArchiveReport{
		Table:          archive.TableName,
		MissingColumns: []string{},
		Status:         "ok",
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		report.Status = "error"
	}
	return report, nil
}
