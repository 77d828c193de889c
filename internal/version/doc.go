// Package version discovers the version of an extracted package.
//
// A package may declare its own version as an exported string constant named
// Version. Otherwise the version is looked up in module metadata: the module
// go/packages resolved the package to, then the require and replace
// directives of the go.mod found at or above the search path.
package version
