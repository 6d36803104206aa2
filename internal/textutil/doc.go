// Package textutil provides the text helpers used for participant card
// recognition and filesystem-safe naming.
//
// The primary use cases are:
//   - Splitting OCR output into alphabetic and numeric runs
//   - Case-insensitive Levenshtein distance for fuzzy keyword matching
//   - Sanitizing path-derived tokens for lock file names
package textutil
