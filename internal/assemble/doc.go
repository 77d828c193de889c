// Package assemble builds the schema of a whole package: the main package,
// its immediate sub-packages, the package version and the annotation
// coverage of every function and method.
//
// Only the main import can fail an extraction. Sub-packages are attempted one
// at a time through load.Isolate, and any that cannot be loaded are left out
// and reported as diagnostics.
package assemble
