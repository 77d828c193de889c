// Package symbol describes single functions, methods and named types.
//
// An Extractor indexes the syntax of one loaded package so that doc comments
// and written type expressions can be found for each checked object. Checked
// types win; written expressions are only resolved for slots whose checked
// type is invalid.
package symbol
