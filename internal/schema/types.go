package schema

// ParameterDescriptor describes one parameter of a function or method.
type ParameterDescriptor struct {
	Name     string         `json:"name"`
	Type     TypeDescriptor `json:"type"`
	Optional bool           `json:"optional"`
	Default  *string        `json:"default,omitempty"`
}

// FunctionDescriptor describes a function, method or constructor.
// The receiver of a method is never part of Params.
type FunctionDescriptor struct {
	Name       string                `json:"name"`
	Params     []ParameterDescriptor `json:"params"`
	ReturnType TypeDescriptor        `json:"returnType"`
	Docstring  string                `json:"docstring,omitempty"`
	IsAsync    bool                  `json:"isAsync"`
	IsMethod   bool                  `json:"isMethod"`
}

// PropertyDescriptor describes a data attribute of a class.
type PropertyDescriptor struct {
	Name      string         `json:"name"`
	Type      TypeDescriptor `json:"type"`
	Readonly  bool           `json:"readonly"`
	Docstring string         `json:"docstring,omitempty"`
}

// ClassDescriptor describes a named type.
type ClassDescriptor struct {
	Name        string               `json:"name"`
	Constructor *FunctionDescriptor  `json:"constructor,omitempty"`
	Methods     []FunctionDescriptor `json:"methods"`
	Properties  []PropertyDescriptor `json:"properties"`
	Docstring   string               `json:"docstring,omitempty"`
	Bases       []string             `json:"bases"`
}

// ConstantDescriptor describes a package-level constant or variable.
// Value is nil when the representation was withheld.
type ConstantDescriptor struct {
	Name  string         `json:"name"`
	Type  TypeDescriptor `json:"type"`
	Value *string        `json:"value,omitempty"`
}

// ModuleDescriptor describes every public symbol of one package.
type ModuleDescriptor struct {
	Name      string               `json:"name"`
	Path      string               `json:"path"`
	Functions []FunctionDescriptor `json:"functions"`
	Classes   []ClassDescriptor    `json:"classes"`
	Constants []ConstantDescriptor `json:"constants"`
	Docstring string               `json:"docstring,omitempty"`
}

// HasAPI reports whether the module contributes at least one function or class.
func (m *ModuleDescriptor) HasAPI() bool {
	return len(m.Functions) > 0 || len(m.Classes) > 0
}

// PackageSchema is the result of one extraction pass. Modules[0] is the main package.
type PackageSchema struct {
	Package                string             `json:"package"`
	Version                string             `json:"version"`
	Modules                []ModuleDescriptor `json:"modules"`
	ExtractedAt            string             `json:"extractedAt"`
	MissingAnnotations     []string           `json:"missingAnnotations"`
	TypeAnnotationCoverage float64            `json:"typeAnnotationCoverage"`
}

// Failure is written in place of a PackageSchema when the package cannot be loaded.
type Failure struct {
	Error string `json:"error"`
}
