// Package parser provides an error-tolerant, declaration-level parser for
// Java source code.
//
// # Overview
//
// The parser produces a concrete syntax tree (CST) of everything a Java file
// declares: the package, imports, type declarations (classes, interfaces,
// enums, records and annotation types, nested to any depth), and their
// members. Declaration headers are parsed in full, including modifiers,
// annotations with their element values, type parameters and formal
// parameters. Method, constructor and initializer bodies are matched by
// brace depth and kept as opaque KindBody nodes; static analysis of
// annotations never needs to look inside them.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Source Context
//
// Every node carries a Span of two Positions (file, byte offset, 1-based
// line and column). Node.Text returns the exact source of a node, which is
// how annotation arguments that are not simple constants are reported.
//
// # Error Recovery
//
// The parser never panics on malformed input. It creates KindError nodes
// carrying a message and the offending token and resynchronizes at the
// next declaration or member boundary, so one broken member does not hide
// the rest of the class.
//
// # Entry Points
//
//	// ParseCompilationUnit parses a complete .java source file.
//	func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser
//
//	// ParseExpression parses a single annotation element value, such as
//	// {"/a", "/b"} or RequestMethod.GET.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
// # Example Usage
//
//	p := parser.ParseCompilationUnit(f, parser.WithFile("ItemController.java"))
//	tree, err := p.Finish()
//	if err != nil {
//	    return err
//	}
//	for _, errNode := range tree.Errors() {
//	    log.Printf("%s: %s", errNode.Span.Start, errNode.Error.Message)
//	}
//
// A Parser instance is not safe for concurrent use. Create one per file.
package parser
