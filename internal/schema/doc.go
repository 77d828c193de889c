// Package schema defines the descriptor tree produced by an extraction pass.
//
// Key types:
//   - TypeDescriptor: recursive, tagged description of one type (kind + payload)
//   - FunctionDescriptor, ClassDescriptor, PropertyDescriptor, ConstantDescriptor
//   - ModuleDescriptor: every public symbol of one package
//   - PackageSchema: the root artifact handed to the caller for serialization
//
// Descriptors are plain values. They are built once and never mutated.
package schema
