// Package treesitter builds the syntax model with the tree-sitter Java
// grammar. It is an alternative to the native parser for sources the native
// parser does not cope with; both produce the same syntax.File.
package treesitter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/springguard/java/syntax"
)

var log = commonlog.GetLogger("springguard.treesitter")

// ParseFile parses src with tree-sitter and converts the tree. A tree-sitter
// parser is not safe for concurrent use, so every call gets its own.
func ParseFile(ctx context.Context, path string, src []byte) (*syntax.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	return fromTree(path, tree.RootNode(), src), nil
}

func fromTree(path string, root *sitter.Node, src []byte) *syntax.File {
	b := &builder{path: path, src: src}
	f := &syntax.File{Path: path}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			f.Package = packageName(child, src)
		case "import_declaration":
			if imp, ok := importFromNode(child, src); ok {
				f.Imports = append(f.Imports, imp)
			}
		}
	}
	b.resolver = syntax.NewResolver(f.Package, f.Imports)

	decls := typeDecls(root)
	for _, decl := range decls {
		b.registerNested(decl, qualify(f.Package, ""))
	}
	for _, decl := range decls {
		f.Classes = append(f.Classes, b.classesFromDecl(decl, f.Package, "")...)
	}

	f.Errors = b.syntaxErrors(root)
	if len(f.Errors) > 0 {
		log.Debugf("%s: %d syntax errors", path, len(f.Errors))
	}
	return f
}

func packageName(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(src)
		}
	}
	return ""
}

func importFromNode(node *sitter.Node, src []byte) (syntax.Import, bool) {
	imp := syntax.Import{}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "static":
			imp.Static = true
		case "asterisk", "*":
			imp.Wildcard = true
		case "scoped_identifier", "identifier":
			imp.Name = child.Content(src)
		}
	}
	return imp, imp.Name != ""
}

var declKinds = map[string]syntax.ClassKind{
	"class_declaration":           syntax.ClassKindClass,
	"interface_declaration":       syntax.ClassKindInterface,
	"enum_declaration":            syntax.ClassKindEnum,
	"record_declaration":          syntax.ClassKindRecord,
	"annotation_type_declaration": syntax.ClassKindAnnotation,
}

func isTypeDecl(node *sitter.Node) bool {
	_, ok := declKinds[node.Type()]
	return ok
}

func typeDecls(node *sitter.Node) []*sitter.Node {
	var decls []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); isTypeDecl(child) {
			decls = append(decls, child)
		}
	}
	return decls
}

// members returns the declarations of a type body. Enum members live in the
// enum_body_declarations after the constants.
func members(decl *sitter.Node) []*sitter.Node {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var result []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "enum_body_declarations" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				result = append(result, child.NamedChild(j))
			}
			continue
		}
		result = append(result, child)
	}
	return result
}

func qualify(pkg, outer string) func(string) string {
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
	resolver *syntax.Resolver
}

// pos converts tree-sitter's zero-based rows and byte columns.
func (b *builder) pos(node *sitter.Node) syntax.Position {
	p := node.StartPoint()
	return syntax.Position{File: b.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (b *builder) text(node *sitter.Node) string {
	return node.Content(b.src)
}

func (b *builder) declName(decl *sitter.Node) string {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return b.text(name)
}

func (b *builder) registerNested(decl *sitter.Node, name func(string) string) {
	simple := b.declName(decl)
	if simple == "" {
		return
	}
	full := name(simple)
	b.resolver.RegisterNested(simple, full)
	for _, member := range members(decl) {
		if isTypeDecl(member) {
			b.registerNested(member, qualify("", full))
		}
	}
}

func (b *builder) classesFromDecl(decl *sitter.Node, pkg, outer string) []*syntax.Class {
	simple := b.declName(decl)
	if simple == "" {
		return nil
	}
	class := &syntax.Class{
		Name:       qualify(pkg, outer)(simple),
		SimpleName: simple,
		Package:    pkg,
		Kind:       declKinds[decl.Type()],
		Pos:        b.pos(decl),
	}
	class.Annotations = b.annotations(decl, class)

	classes := []*syntax.Class{class}
	for _, member := range members(decl) {
		switch {
		case member.Type() == "method_declaration":
			class.Methods = append(class.Methods, b.methodFromDecl(member, class))
		case isTypeDecl(member):
			classes = append(classes, b.classesFromDecl(member, pkg, class.Name)...)
		}
	}
	return classes
}

func (b *builder) methodFromDecl(decl *sitter.Node, owner *syntax.Class) *syntax.Method {
	method := &syntax.Method{
		Name:  b.declName(decl),
		Owner: owner,
		Pos:   b.pos(decl),
	}
	method.Annotations = b.annotations(decl, method)

	params := decl.ChildByFieldName("parameters")
	if params == nil {
		return method
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "formal_parameter":
			typ := b.typeName(param.ChildByFieldName("type"))
			if dims := param.ChildByFieldName("dimensions"); dims != nil {
				typ += strings.Repeat("[]", strings.Count(b.text(dims), "["))
			}
			method.ParameterTypes = append(method.ParameterTypes, typ)
		case "spread_parameter":
			method.ParameterTypes = append(method.ParameterTypes, b.spreadType(param)+"[]")
		}
	}
	return method
}

func (b *builder) spreadType(param *sitter.Node) string {
	for i := 0; i < int(param.NamedChildCount()); i++ {
		child := param.NamedChild(i)
		switch child.Type() {
		case "modifiers", "variable_declarator", "annotation", "marker_annotation":
			continue
		}
		return b.typeName(child)
	}
	return ""
}

// typeName erases type arguments and qualifies the base name, matching the
// native builder.
func (b *builder) typeName(typ *sitter.Node) string {
	if typ == nil {
		return ""
	}
	name := eraseTypeArguments(b.text(typ))
	dims := ""
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		dims += "[]"
	}
	return b.resolver.ParameterType(name) + dims
}

func eraseTypeArguments(s string) string {
	var sb strings.Builder
	depth := 0
	for _, ch := range s {
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			depth--
		case depth > 0, ch == ' ', ch == '\t', ch == '\n', ch == '\r':
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

func modifiersOf(decl *sitter.Node) *sitter.Node {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		if child := decl.NamedChild(i); child.Type() == "modifiers" {
			return child
		}
	}
	return nil
}

func (b *builder) annotations(decl *sitter.Node, owner syntax.Declaration) []*syntax.Annotation {
	modifiers := modifiersOf(decl)
	if modifiers == nil {
		return nil
	}
	var result []*syntax.Annotation
	for i := 0; i < int(modifiers.NamedChildCount()); i++ {
		child := modifiers.NamedChild(i)
		switch child.Type() {
		case "marker_annotation", "annotation":
			if a := b.annotationFromNode(child, owner); a != nil {
				result = append(result, a)
			}
		}
	}
	return result
}

func (b *builder) annotationFromNode(node *sitter.Node, owner syntax.Declaration) *syntax.Annotation {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := eraseTypeArguments(b.text(nameNode))
	a := &syntax.Annotation{
		Name:  name,
		Type:  b.resolver.AnnotationType(name),
		Owner: owner,
		Pos:   b.pos(node),
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return a
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "element_value_pair":
			key := arg.ChildByFieldName("key")
			value := arg.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			a.Arguments = append(a.Arguments, syntax.Argument{Name: b.text(key), Value: b.valueFromNode(value)})
		case "ERROR", "comment", "line_comment", "block_comment":
			continue
		default:
			a.Arguments = append(a.Arguments, syntax.Argument{Name: "value", Value: b.valueFromNode(arg)})
		}
	}
	return a
}

func (b *builder) valueFromNode(node *sitter.Node) syntax.Value {
	pos := b.pos(node)
	text := b.text(node)

	switch node.Type() {
	case "string_literal", "text_block":
		s, err := syntax.Unquote(text)
		if err != nil {
			return syntax.Expr(text).At(pos)
		}
		v := syntax.Literal(s)
		v.Source = text
		return v.At(pos)
	case "element_value_array_initializer":
		var elements []syntax.Value
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "ERROR", "comment", "line_comment", "block_comment":
				continue
			}
			elements = append(elements, b.valueFromNode(child))
		}
		v := syntax.List(elements...)
		v.Source = text
		return v.At(pos)
	case "parenthesized_expression":
		if node.NamedChildCount() == 1 {
			return b.valueFromNode(node.NamedChild(0))
		}
	case "identifier", "field_access", "scoped_identifier":
		if dotted, ok := b.dottedName(node); ok {
			last := dotted[strings.LastIndexByte(dotted, '.')+1:]
			if syntax.IsConstantName(last) {
				return syntax.EnumRef(dotted).At(pos)
			}
			return syntax.Expr(dotted).At(pos)
		}
	}
	return syntax.Expr(text).At(pos)
}

func (b *builder) dottedName(node *sitter.Node) (string, bool) {
	switch node.Type() {
	case "identifier":
		return b.text(node), true
	case "field_access":
		object, field := node.ChildByFieldName("object"), node.ChildByFieldName("field")
		if object == nil || field == nil {
			return "", false
		}
		target, ok := b.dottedName(object)
		if !ok {
			return "", false
		}
		return target + "." + b.text(field), true
	case "scoped_identifier":
		scope, name := node.ChildByFieldName("scope"), node.ChildByFieldName("name")
		if scope == nil || name == nil {
			return "", false
		}
		target, ok := b.dottedName(scope)
		if !ok {
			return "", false
		}
		return target + "." + b.text(name), true
	}
	return "", false
}

func (b *builder) syntaxErrors(root *sitter.Node) []syntax.SyntaxError {
	if !root.HasError() {
		return nil
	}
	var errs []syntax.SyntaxError
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			errs = append(errs, syntax.SyntaxError{Pos: b.pos(n), Message: "missing " + n.Type()})
			return
		case n.IsError():
			errs = append(errs, syntax.SyntaxError{Pos: b.pos(n), Message: "unexpected " + abbreviate(b.text(n))})
			return
		case !n.HasError():
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return errs
}

func abbreviate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
