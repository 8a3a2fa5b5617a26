// Package syntax is the declaration model the route extractor queries.
//
// A Model holds the classes of a source tree together with their methods
// and annotations. Annotation arguments are kept as Values, a closed variant
// of the argument shapes the extractor distinguishes. Models are built from
// source by the native parser (ParseFile) or by the tree-sitter backend in
// package treesitter; both produce identical models for the same input.
package syntax

import (
	"fmt"
	"strings"
)

type Position struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindRecord     ClassKind = "record"
	ClassKindAnnotation ClassKind = "annotation"
)

// IsConcrete reports whether classes of this kind can be instantiated, and
// therefore registered as request handlers.
func (k ClassKind) IsConcrete() bool {
	return k == ClassKindClass || k == ClassKindEnum || k == ClassKindRecord
}

// Declaration is a class or a method.
type Declaration interface {
	// Path identifies the declaration in diagnostics.
	Path() string
	AnnotationList() []*Annotation
}

type Class struct {
	// Name is the qualified name; nested classes are joined with '$'.
	Name        string
	SimpleName  string
	Package     string
	Kind        ClassKind
	Annotations []*Annotation
	Methods     []*Method
	Pos         Position
}

func (c *Class) Path() string                  { return c.Name }
func (c *Class) AnnotationList() []*Annotation { return c.Annotations }

type Method struct {
	Name string
	// ParameterTypes are erased type names, qualified where the import
	// list allows it.
	ParameterTypes []string
	Annotations    []*Annotation
	Owner          *Class
	Pos            Position
}

// Signature renders the method as name(Type1,Type2).
func (m *Method) Signature() string {
	return m.Name + "(" + strings.Join(m.ParameterTypes, ",") + ")"
}

func (m *Method) Path() string {
	if m.Owner == nil {
		return "#" + m.Signature()
	}
	return m.Owner.Name + "#" + m.Signature()
}

func (m *Method) AnnotationList() []*Annotation { return m.Annotations }

type Argument struct {
	Name  string
	Value Value
}

type Annotation struct {
	// Name is the annotation name as written, possibly qualified.
	Name string
	// Type is the qualified type name, resolved through the imports.
	Type      string
	Arguments []Argument
	Owner     Declaration
	Pos       Position
}

// SimpleName is the last segment of the annotation name.
func (a *Annotation) SimpleName() string {
	if i := strings.LastIndexByte(a.Name, '.'); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// Argument returns the named argument or an absent Value. A single unnamed
// argument is stored under "value".
func (a *Annotation) Argument(name string) Value {
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg.Value
		}
	}
	return Absent()
}

// Is reports whether the annotation's simple name is one of names.
func (a *Annotation) Is(names ...string) bool {
	simple := a.SimpleName()
	for _, name := range names {
		if simple == name {
			return true
		}
	}
	return false
}

// Model is the query facade over every class of a source tree.
type Model struct {
	classes []*Class
}

func NewModel(classes ...*Class) *Model {
	m := &Model{}
	m.Add(classes...)
	return m
}

func (m *Model) Add(classes ...*Class) {
	m.classes = append(m.classes, classes...)
}

// Classes returns every class, interface, enum, record and annotation type
// in insertion order.
func (m *Model) Classes() []*Class {
	return m.classes
}

// ClassesWithAnyAnnotation returns the concrete classes that carry at least
// one of the named annotations. Interfaces and annotation types never
// qualify.
func (m *Model) ClassesWithAnyAnnotation(names ...string) []*Class {
	var result []*Class
	for _, c := range m.classes {
		if !c.Kind.IsConcrete() {
			continue
		}
		if hasAnyAnnotation(c.Annotations, names) {
			result = append(result, c)
		}
	}
	return result
}

// ClassAnnotation returns the first annotation of c with the given simple
// name, or nil.
func (m *Model) ClassAnnotation(c *Class, name string) *Annotation {
	for _, a := range c.Annotations {
		if a.Is(name) {
			return a
		}
	}
	return nil
}

// MethodsWithAnyAnnotation returns the methods declared directly on c that
// carry at least one of the named annotations, in declaration order.
func (m *Model) MethodsWithAnyAnnotation(c *Class, names ...string) []*Method {
	var result []*Method
	for _, method := range c.Methods {
		if hasAnyAnnotation(method.Annotations, names) {
			result = append(result, method)
		}
	}
	return result
}

func (m *Model) AnnotationsOf(d Declaration) []*Annotation {
	return d.AnnotationList()
}

func (m *Model) Argument(a *Annotation, name string) Value {
	return a.Argument(name)
}

// OwnerPath identifies an annotation by its owner and type, as in
// com.example.ItemController#list()@org.springframework.web.bind.annotation.GetMapping.
func (m *Model) OwnerPath(a *Annotation) string {
	return OwnerPath(a)
}

func OwnerPath(a *Annotation) string {
	owner := ""
	if a.Owner != nil {
		owner = a.Owner.Path()
	}
	return owner + "@" + a.Type
}

func hasAnyAnnotation(annotations []*Annotation, names []string) bool {
	for _, a := range annotations {
		if a.Is(names...) {
			return true
		}
	}
	return false
}
