package config

import "storecli/pkg/contracts"

// Application constants
const (
	AppName    = "storecli"
	AppVersion = contracts.Version
)

// Input formats
const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Input encodings
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Output formats
const (
	OutputCSV  = "csv"
	OutputJSON = "json"
	OutputXLSX = "xlsx"
)

// DefaultDateLayout parses day/month/year with one- or two-digit day and month.
const DefaultDateLayout = "2/1/2006"

// Report file names inside the output directory
const (
	CSVSubdir    = "tables"
	WorkbookFile = "store_report.xlsx"
	JSONFile     = "store_report.json"
)

// File permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)
