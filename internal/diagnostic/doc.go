// Package diagnostic collects the failures absorbed during extraction.
//
// Extraction degrades instead of failing: a sub-package that cannot be loaded
// is left out, a slot whose type cannot be resolved becomes any. Each such
// decision is recorded here so the CLI can log it.
package diagnostic
