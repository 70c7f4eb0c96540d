// Package loader reads order-line source files into raw records.
//
// CSV files may be UTF-8 (with or without a byte order mark) or Latin-1.
// XLSX workbooks are read through excelize; date cells stored as Excel serial
// numbers are rendered in the configured date layout before cleaning.
//
// Column titles are normalized to canonical field names, so "Order Date",
// "order-date" and "ORDER_DATE" all become order_date. Two columns that
// normalize to the same name make the file ambiguous and fail the load.
//
// Example usage:
//
//	l := loader.NewLoader(cfg.Input, logger)
//	records, err := l.Load(ctx, "data/superstore.csv")
package loader
