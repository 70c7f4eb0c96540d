// Package shared holds helpers used by more than one storecli package.
//
// The testutil subpackage captures slog output so tests can assert on what a
// pipeline stage logged:
//
//	logger, logs := testutil.NewTestLogger(t)
//	cleaner := cleaning.NewCleaner(layout, 10, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "cleaning complete")
//	testutil.AssertLogAttr(t, logs, "rejected", int64(2))
//
// Attribute values are stored as slog resolves them, so integers come back as
// int64.
package shared
