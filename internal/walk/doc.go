// Package walk produces the descriptor of one package: its exported
// functions, named types and constants.
//
// An object is part of a package's surface when the package declares it, or
// when its name is listed in an export directive:
//
//	//typeschema:export Reader Writer
//
// Export directives exist for aliases of types declared elsewhere, which are
// otherwise treated as imports.
package walk
