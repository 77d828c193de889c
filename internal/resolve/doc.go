// Package resolve converts Go types into schema.TypeDescriptor values.
//
// Three entry points share one rule set:
//   - Resolve: checked go/types types
//   - ResolveExpr: written type expressions from the AST
//   - ResolveText: type expressions held as text, such as the written type
//     of a slot whose checked type is invalid
//
// Every function is total: anything that cannot be classified becomes any.
package resolve
