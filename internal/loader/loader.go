package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"storecli/internal/config"
	apperrors "storecli/internal/errors"
	"storecli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// dateFields are converted from Excel serial numbers when read from a workbook
var dateFields = map[string]bool{
	domain.FieldOrderDate: true,
	domain.FieldShipDate:  true,
}

// Loader reads order-line source files into raw records
type Loader struct {
	cfg    config.InputConfig
	logger *slog.Logger
}

// NewLoader creates a loader for the given input settings
func NewLoader(cfg config.InputConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = config.DefaultDateLayout
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load reads every row of the file at path. The format is taken from the
// configuration, or from the file extension when set to auto.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, error) {
	format, err := DetectFormat(path, l.cfg.Format)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "loading order lines",
		slog.String("path", path),
		slog.String("format", format),
		slog.String("encoding", l.cfg.Encoding))

	var records []domain.RawRecord
	switch format {
	case config.FormatCSV:
		records, err = l.loadCSV(path)
	case config.FormatXLSX:
		records, err = l.loadWorkbook(path)
	}
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "order lines loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

// DetectFormat resolves the input format of path
func DetectFormat(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case config.FormatCSV:
		return config.FormatCSV, nil
	case config.FormatXLSX:
		return config.FormatXLSX, nil
	case config.FormatAuto, "":
	default:
		return "", apperrors.NewParsingError(fmt.Sprintf("unsupported input format %q", format), nil)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return config.FormatCSV, nil
	case ".xlsx", ".xlsm":
		return config.FormatXLSX, nil
	default:
		return "", apperrors.NewParsingError(
			fmt.Sprintf("cannot detect input format of %s", filepath.Base(path)), nil)
	}
}

func (l *Loader) loadCSV(path string) ([]domain.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	return ReadCSV(file, l.cfg.Encoding)
}

// ReadCSV parses CSV content with a header row. Latin-1 input is decoded to
// UTF-8 and a leading UTF-8 byte order mark is skipped. A data row with broken
// quoting is returned as a malformed record and reading continues.
func ReadCSV(r io.Reader, encoding string) ([]domain.RawRecord, error) {
	if strings.EqualFold(encoding, config.EncodingLatin1) {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == string(utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, apperrors.NewParsingError("failed to skip byte order mark", err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}

	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, apperrors.NewParsingError("failed to read csv row", err)
			}
			records = append(records, domain.RawRecord{Line: perr.StartLine, Malformed: perr.Err.Error()})
			continue
		}

		line, _ := reader.FieldPos(0)
		if record, ok := buildRecord(columns, row, line); ok {
			records = append(records, record)
		}
	}

	return records, nil
}

func (l *Loader) loadWorkbook(path string) ([]domain.RawRecord, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	return ReadWorkbook(f, l.cfg.Sheet, l.cfg.DateLayout)
}

// ReadWorkbook reads a sheet whose first row is the header. An empty sheet
// name selects the first sheet. Date columns holding Excel serial numbers are
// rendered with dateLayout so the cleaner sees one date format.
func ReadWorkbook(f *excelize.File, sheet, dateLayout string) ([]domain.RawRecord, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet", err).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns, err := normalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	for i, row := range rows[1:] {
		record, ok := buildRecord(columns, row, i+2)
		if !ok {
			continue
		}
		for field := range dateFields {
			if v, present := record.Fields[field]; present {
				record.Fields[field] = excelDate(v, dateLayout)
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// excelDate converts an Excel serial date to text. Values that are not
// serial numbers are returned unchanged.
func excelDate(value, layout string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(layout)
}

// NormalizeHeader maps a source column title to its canonical field name:
// lower-case, with spaces and hyphens replaced by underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, string(utf8BOM))
	h = strings.ToLower(strings.TrimSpace(h))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range h {
		if r == ' ' || r == '-' || r == '_' || r == '\t' {
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
			}
			lastUnderscore = true
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}
	return strings.TrimSuffix(b.String(), "_")
}

// normalizeHeader returns the canonical name per column; blank titles map to ""
// and are ignored. Two titles with the same canonical name are rejected.
func normalizeHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))

	for i, title := range header {
		name := NormalizeHeader(title)
		if name == "" {
			continue
		}
		if prev, dup := seen[name]; dup {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("duplicate column %q (columns %d and %d)", name, prev+1, i+1), nil).
				WithContext("field", name)
		}
		seen[name] = i
		columns[i] = name
	}

	return columns, nil
}

// buildRecord maps one row onto the header. Cells past the end of a short row
// are absent from the record. Rows with no content are skipped.
func buildRecord(columns, row []string, line int) (domain.RawRecord, bool) {
	fields := make(map[string]string, len(columns))
	hasData := false

	for i, value := range row {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		fields[columns[i]] = value
		if strings.TrimSpace(value) != "" {
			hasData = true
		}
	}

	if !hasData {
		return domain.RawRecord{}, false
	}
	return domain.RawRecord{Line: line, Fields: fields}, true
}
