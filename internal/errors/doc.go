// Package errors defines the typed application error used across storecli.
//
// Every failure that crosses a package boundary is either a wrapped error
// (fmt.Errorf with %w) or an *AppError carrying an ErrorType:
//
//	MALFORMED_RECORD  a source row was rejected by the cleaner (recovered locally)
//	PARSING           the input file could not be read or decoded
//	VALIDATION        a value failed a structural check
//	STORAGE           a report file could not be written
//	CONFIG            the configuration is unusable
//	UNDEFINED_RATIO   a ratio needs a non-empty reference set that is empty
//
// Use IsType or GetType to branch on the type without caring how deep the
// AppError sits in the chain.
package errors
