package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"storecli/internal/config"
	apperrors "storecli/internal/errors"
	"storecli/internal/report"
)

// Exporter writes a report in every enabled output format
type Exporter struct {
	paths   *config.Paths
	formats []string
	logger  *slog.Logger
}

// NewExporter creates an exporter for the given formats (csv, json, xlsx)
func NewExporter(paths *config.Paths, formats []string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		paths:   paths,
		formats: formats,
		logger:  logger.With(slog.String("component", "exporter")),
	}
}

// Export writes r and returns the paths of the files written
func (e *Exporter) Export(ctx context.Context, r *report.Report) ([]string, error) {
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("prepare output directories", err)
	}

	tables := Tables(r)
	var written []string

	for _, format := range e.formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		switch format {
		case config.OutputCSV:
			w := NewCSVWriter(e.paths)
			for _, t := range tables {
				path, err := w.WriteTable(t)
				if err != nil {
					return written, apperrors.NewStorageError("export csv tables", err)
				}
				written = append(written, path)
			}
		case config.OutputJSON:
			if err := WriteJSON(e.paths.JSONFile, r); err != nil {
				return written, apperrors.NewStorageError("export json report", err)
			}
			written = append(written, e.paths.JSONFile)
		case config.OutputXLSX:
			if err := NewWorkbookWriter(e.paths.WorkbookFile).Write(tables); err != nil {
				return written, apperrors.NewStorageError("export workbook", err)
			}
			written = append(written, e.paths.WorkbookFile)
		default:
			return written, apperrors.NewConfigError(fmt.Sprintf("unknown output format %q", format), nil)
		}

		e.logger.InfoContext(ctx, "report exported",
			slog.String("format", format),
			slog.String("output_dir", e.paths.OutputDir))
	}

	return written, nil
}
