// Package utils provides common utility functions for the registry.
// It includes type conversion helpers used when raw source cells arrive as
// loosely typed JSON or CSV values.
package utils
