package syntax

import (
	"bytes"
	"strings"

	"github.com/dhamidi/springguard/java/parser"
)

// File is the declaration model of one compilation unit.
type File struct {
	Path    string
	Package string
	Imports []Import
	// Classes lists every type declared in the file, outer types before
	// the types nested in them.
	Classes []*Class
	Errors  []SyntaxError
}

type SyntaxError struct {
	Pos     Position
	Message string
}

// ParseFile parses Java source with the native parser.
func ParseFile(path string, src []byte) (*File, error) {
	p := parser.ParseCompilationUnit(bytes.NewReader(src), parser.WithFile(path))
	cu, err := p.Finish()
	if err != nil {
		return nil, err
	}
	return FromCompilationUnit(path, cu, src), nil
}

// FromCompilationUnit builds the declaration model of a parsed file. src
// must be the input the tree was parsed from.
func FromCompilationUnit(path string, cu *parser.Node, src []byte) *File {
	b := &builder{path: path, src: src}
	f := &File{Path: path}

	if pkg := cu.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		f.Package = pkg.FirstChildOfKind(parser.KindQualifiedName).QualifiedName()
	}
	f.Imports = importsFromCompilationUnit(cu)
	b.resolver = NewResolver(f.Package, f.Imports)

	for _, child := range cu.Children {
		if child.Kind.IsTypeDecl() {
			b.registerNested(child, qualify(f.Package, ""))
		}
	}
	for _, child := range cu.Children {
		if child.Kind.IsTypeDecl() {
			f.Classes = append(f.Classes, b.classesFromDecl(child, f.Package, "")...)
		}
	}

	for _, errNode := range cu.Errors() {
		f.Errors = append(f.Errors, SyntaxError{
			Pos:     b.pos(errNode.Span.Start),
			Message: errNode.Error.Message,
		})
	}
	return f
}

func importsFromCompilationUnit(cu *parser.Node) []Import {
	var imports []Import
	for _, decl := range cu.ChildrenOfKind(parser.KindImportDecl) {
		imp := Import{}
		for _, child := range decl.Children {
			switch child.Kind {
			case parser.KindIdentifier:
				switch child.TokenLiteral() {
				case "static":
					imp.Static = true
				case "*":
					imp.Wildcard = true
				}
			case parser.KindQualifiedName:
				imp.Name = child.QualifiedName()
			}
		}
		if imp.Name != "" {
			imports = append(imports, imp)
		}
	}
	return imports
}

// qualify names a top-level type (outer == "") or a nested one.
func qualify(pkg, outer string) func(simple string) string {
	return func(simple string) string {
		switch {
		case outer != "":
			return outer + "$" + simple
		case pkg != "":
			return pkg + "." + simple
		}
		return simple
	}
}

type builder struct {
	path     string
	src      []byte
	resolver *Resolver
}

func (b *builder) pos(p parser.Position) Position {
	return Position{File: b.path, Line: p.Line, Column: p.Column}
}

func declName(decl *parser.Node) string {
	return decl.FirstChildOfKind(parser.KindIdentifier).TokenLiteral()
}

func (b *builder) registerNested(decl *parser.Node, name func(string) string) {
	simple := declName(decl)
	if simple == "" {
		return
	}
	full := name(simple)
	b.resolver.RegisterNested(simple, full)
	body := decl.FirstChildOfKind(parser.KindClassBody)
	if body == nil {
		return
	}
	for _, member := range body.Children {
		if member.Kind.IsTypeDecl() {
			b.registerNested(member, qualify("", full))
		}
	}
}

func classKind(kind parser.NodeKind) ClassKind {
	switch kind {
	case parser.KindInterfaceDecl:
		return ClassKindInterface
	case parser.KindEnumDecl:
		return ClassKindEnum
	case parser.KindRecordDecl:
		return ClassKindRecord
	case parser.KindAnnotationDecl:
		return ClassKindAnnotation
	}
	return ClassKindClass
}

func (b *builder) classesFromDecl(decl *parser.Node, pkg, outer string) []*Class {
	simple := declName(decl)
	if simple == "" {
		return nil
	}
	class := &Class{
		Name:       qualify(pkg, outer)(simple),
		SimpleName: simple,
		Package:    pkg,
		Kind:       classKind(decl.Kind),
		Pos:        b.pos(decl.Span.Start),
	}
	class.Annotations = b.annotationsFromModifiers(decl.FirstChildOfKind(parser.KindModifiers), class)

	classes := []*Class{class}
	body := decl.FirstChildOfKind(parser.KindClassBody)
	if body == nil {
		return classes
	}
	for _, member := range body.Children {
		switch {
		case member.Kind == parser.KindMethodDecl:
			class.Methods = append(class.Methods, b.methodFromDecl(member, class))
		case member.Kind.IsTypeDecl():
			classes = append(classes, b.classesFromDecl(member, pkg, class.Name)...)
		}
	}
	return classes
}

func (b *builder) methodFromDecl(decl *parser.Node, owner *Class) *Method {
	method := &Method{
		Name:  declName(decl),
		Owner: owner,
		Pos:   b.pos(decl.Span.Start),
	}
	method.Annotations = b.annotationsFromModifiers(decl.FirstChildOfKind(parser.KindModifiers), method)

	if params := decl.FirstChildOfKind(parser.KindParameters); params != nil {
		for _, param := range params.ChildrenOfKind(parser.KindParameter) {
			method.ParameterTypes = append(method.ParameterTypes, b.parameterType(param))
		}
	}
	return method
}

func (b *builder) parameterType(param *parser.Node) string {
	var name string
	for _, child := range param.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			name = b.typeName(child)
		case parser.KindIdentifier:
			switch child.TokenLiteral() {
			case "...", "[]":
				name += "[]"
			}
		}
	}
	return name
}

// typeName erases type arguments: Map<String, T>[] becomes java.util.Map[].
func (b *builder) typeName(typ *parser.Node) string {
	if typ.Kind == parser.KindArrayType {
		for _, child := range typ.Children {
			if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
				return b.typeName(child) + "[]"
			}
		}
		return "[]"
	}
	var parts []string
	for _, child := range typ.Children {
		switch child.Kind {
		case parser.KindQualifiedName:
			parts = append(parts, child.QualifiedName())
		case parser.KindIdentifier:
			parts = append(parts, child.TokenLiteral())
		}
	}
	return b.resolver.ParameterType(strings.Join(parts, "."))
}

func (b *builder) annotationsFromModifiers(modifiers *parser.Node, owner Declaration) []*Annotation {
	if modifiers == nil {
		return nil
	}
	var result []*Annotation
	for _, node := range modifiers.ChildrenOfKind(parser.KindAnnotation) {
		if a := b.annotationFromNode(node, owner); a != nil {
			result = append(result, a)
		}
	}
	return result
}

func (b *builder) annotationFromNode(node *parser.Node, owner Declaration) *Annotation {
	name := node.FirstChildOfKind(parser.KindQualifiedName).QualifiedName()
	if name == "" {
		return nil
	}
	a := &Annotation{
		Name:  name,
		Type:  b.resolver.AnnotationType(name),
		Owner: owner,
		Pos:   b.pos(node.Span.Start),
	}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindQualifiedName, parser.KindError:
			continue
		case parser.KindAnnotationElement:
			ident := child.FirstChildOfKind(parser.KindIdentifier)
			if ident == nil || len(child.Children) < 2 {
				continue
			}
			a.Arguments = append(a.Arguments, Argument{
				Name:  ident.TokenLiteral(),
				Value: b.valueFromNode(child.Children[1]),
			})
		default:
			a.Arguments = append(a.Arguments, Argument{Name: "value", Value: b.valueFromNode(child)})
		}
	}
	return a
}

func (b *builder) valueFromNode(node *parser.Node) Value {
	pos := b.pos(node.Span.Start)
	text := node.Text(b.src)

	switch node.Kind {
	case parser.KindLiteral:
		switch node.Token.Kind {
		case parser.TokenStringLiteral, parser.TokenTextBlock:
			s, err := Unquote(node.TokenLiteral())
			if err != nil {
				return Expr(text).At(pos)
			}
			v := Literal(s)
			v.Source = text
			return v.At(pos)
		}
	case parser.KindArrayInit:
		var elements []Value
		for _, child := range node.Children {
			if !child.IsError() {
				elements = append(elements, b.valueFromNode(child))
			}
		}
		v := List(elements...)
		v.Source = text
		return v.At(pos)
	case parser.KindParenExpr:
		if len(node.Children) == 1 {
			return b.valueFromNode(node.Children[0])
		}
	case parser.KindIdentifier, parser.KindFieldAccess:
		if dotted, ok := dottedName(node); ok {
			last := dotted[strings.LastIndexByte(dotted, '.')+1:]
			if IsConstantName(last) {
				return EnumRef(dotted).At(pos)
			}
			return Expr(dotted).At(pos)
		}
	}
	return Expr(text).At(pos)
}

// dottedName renders a chain of identifiers and field accesses as a.b.C.
func dottedName(node *parser.Node) (string, bool) {
	switch node.Kind {
	case parser.KindIdentifier:
		return node.TokenLiteral(), node.Token != nil
	case parser.KindFieldAccess:
		if len(node.Children) != 2 {
			return "", false
		}
		target, ok := dottedName(node.Children[0])
		if !ok {
			return "", false
		}
		return target + "." + node.Children[1].TokenLiteral(), true
	}
	return "", false
}
