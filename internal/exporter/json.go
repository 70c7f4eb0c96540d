package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"storecli/internal/config"
	"storecli/internal/report"
)

// WriteJSON writes the full report as indented JSON. Undefined ratios are
// written as null.
func WriteJSON(path string, r *report.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), config.FilePermissions); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
