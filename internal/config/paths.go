package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the output paths of a report run
type Paths struct {
	OutputDir    string
	CSVDir       string
	WorkbookFile string
	JSONFile     string
	LogsDir      string
}

// NewPaths resolves report paths from the configuration. Relative paths are
// resolved against the current working directory.
func NewPaths(cfg *Config) (*Paths, error) {
	outputDir, err := filepath.Abs(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir %s: %w", cfg.Output.Dir, err)
	}

	return &Paths{
		OutputDir:    outputDir,
		CSVDir:       filepath.Join(outputDir, CSVSubdir),
		WorkbookFile: filepath.Join(outputDir, WorkbookFile),
		JSONFile:     filepath.Join(outputDir, JSONFile),
		LogsDir:      filepath.Dir(cfg.Logging.FilePath),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.OutputDir,
		p.CSVDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetCSVPath returns the path of a table CSV file
func (p *Paths) GetCSVPath(table string) string {
	return filepath.Join(p.CSVDir, table+".csv")
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Debug("Resolved report paths",
		slog.String("output_dir", p.OutputDir),
		slog.String("csv_dir", p.CSVDir),
		slog.String("workbook", p.WorkbookFile),
		slog.String("json", p.JSONFile))
}
