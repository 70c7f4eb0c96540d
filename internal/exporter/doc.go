// Package exporter writes report results to disk.
//
// A report is first flattened into named tables (see Tables). The tables are
// then written by format:
//
// CSVWriter: one UTF-8 CSV per table under the table directory, with a BOM
// for Excel compatibility.
//
// WorkbookWriter: a single XLSX workbook with one sheet per table.
//
// WriteJSON: the whole report as one JSON document, undefined ratios as null.
//
// Example usage:
//
//	exp := exporter.NewExporter(paths, cfg.Output.Formats, logger)
//	files, err := exp.Export(ctx, rep)
package exporter
