package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/springguard/java/syntax"
	"github.com/dhamidi/springguard/project"
)

const controller = `package com.example;

import org.springframework.web.bind.annotation.*;

@RestController
@RequestMapping("/api")
class ItemController {
    @GetMapping("/items")
    @PreAuthorize("hasRole('ADMIN')")
    List<Item> list() { return null; }

    @DeleteMapping("/items/{id}")
    void delete(String id) {}

    @RequestMapping(value = build())
    void broken() {}
}
`

func nativeParser(t *testing.T) project.ParseFunc {
	t.Helper()
	parse, err := project.Parser(project.ParserNative)
	require.NoError(t, err)
	return parse
}

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recorder() (*glsp.Context, *[]notification) {
	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			sent = append(sent, notification{method: method, params: params.(protocol.PublishDiagnosticsParams)})
		},
	}
	return ctx, &sent
}

func pos(line, column int) syntax.Position {
	return syntax.Position{Line: line, Column: column}
}

func severities(diagnostics []protocol.Diagnostic) map[protocol.DiagnosticSeverity]int {
	count := map[protocol.DiagnosticSeverity]int{}
	for _, d := range diagnostics {
		count[*d.Severity]++
	}
	return count
}

func TestDiagnostics(t *testing.T) {
	w := NewWorkspace(nativeParser(t))
	doc, err := w.Update(context.Background(), "/src/ItemController.java", []byte(controller))
	require.NoError(t, err)

	diagnostics := Diagnostics(doc)
	assert.Equal(t, map[protocol.DiagnosticSeverity]int{
		protocol.DiagnosticSeverityError:       1,
		protocol.DiagnosticSeverityInformation: 1,
	}, severities(diagnostics))

	var errDiag, info protocol.Diagnostic
	for _, d := range diagnostics {
		switch *d.Severity {
		case protocol.DiagnosticSeverityError:
			errDiag = d
		case protocol.DiagnosticSeverityInformation:
			info = d
		}
	}
	assert.Contains(t, errDiag.Message, "The value passed to request mapping is invalid")
	assert.Equal(t, protocol.UInteger(14), errDiag.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(4), errDiag.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(36), errDiag.Range.End.Character)

	assert.Equal(t, "DELETE /api/items/{id} is not guarded by a method security annotation", info.Message)
	assert.Equal(t, protocol.UInteger(11), info.Range.Start.Line)
	assert.Equal(t, "springguard", *info.Source)
}

func TestDiagnosticsSyntaxErrors(t *testing.T) {
	w := NewWorkspace(nativeParser(t))
	doc, err := w.Update(context.Background(), "B.java", []byte("class B { void x( }"))
	require.NoError(t, err)
	assert.NotZero(t, severities(Diagnostics(doc))[protocol.DiagnosticSeverityWarning])
}

func TestLineRange(t *testing.T) {
	content := []byte("first\r\n  @GetMapping\n")
	r := lineRange(content, pos(2, 3))
	assert.Equal(t, protocol.UInteger(1), r.Start.Line)
	assert.Equal(t, protocol.UInteger(2), r.Start.Character)
	assert.Equal(t, protocol.UInteger(13), r.End.Character)

	r = lineRange(content, pos(1, 1))
	assert.Equal(t, protocol.UInteger(5), r.End.Character, "carriage return is not part of the line")

	r = lineRange(content, pos(9, 4))
	assert.Equal(t, r.Start, r.End)
}

func TestWorkspaceRoutes(t *testing.T) {
	w := NewWorkspace(nativeParser(t))
	ctx := context.Background()
	_, err := w.Update(ctx, "b/Second.java", []byte(`package p;
@RestController class Second { @GetMapping("/dup") @PreAuthorize("second") void b() {} }`))
	require.NoError(t, err)
	_, err = w.Update(ctx, "a/First.java", []byte(`package p;
@RestController class First { @GetMapping("/dup") @PreAuthorize("first") void a() {} @PostMapping("/only") void c() {} }`))
	require.NoError(t, err)

	all := w.Routes()
	require.Len(t, all, 2)
	assert.Equal(t, "/dup|GET", all[0].Key())
	assert.Equal(t, "second", all[0].PreAuthorization, "later paths win")

	w.Remove("a/First.java")
	assert.Nil(t, w.Document("a/First.java"))
	assert.Len(t, w.Routes(), 1)
}

func TestServerPublishesOnOpenChangeAndClose(t *testing.T) {
	ls := NewServer("test", nativeParser(t))
	ctx, sent := recorder()
	uri := "file:///src/ItemController.java"

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Text: controller},
	}))
	require.Len(t, *sent, 1)
	assert.Equal(t, "textDocument/publishDiagnostics", (*sent)[0].method)
	assert.Equal(t, uri, (*sent)[0].params.URI)
	assert.Len(t, (*sent)[0].params.Diagnostics, 2)
	require.NotNil(t, ls.Workspace().Document("/src/ItemController.java"))

	guarded := `package com.example;
@RestController class ItemController { @GetMapping("/x") @PreAuthorize("permitAll()") void x() {} }`
	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: guarded}},
	}))
	require.Len(t, *sent, 2)
	assert.Empty(t, (*sent)[1].params.Diagnostics)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, *sent, 3)
	assert.Empty(t, (*sent)[2].params.Diagnostics)
	assert.Nil(t, ls.Workspace().Document("/src/ItemController.java"))
}

func TestServerIgnoresOtherLanguages(t *testing.T) {
	ls := NewServer("test", nativeParser(t))
	ctx, sent := recorder()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///README.md", Text: "# readme"},
	}))
	assert.Empty(t, *sent)
}

func TestInitialize(t *testing.T) {
	ls := NewServer("1.2.3", nativeParser(t))
	result, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)
	info := result.(protocol.InitializeResult)
	assert.Equal(t, "springguard", info.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *info.ServerInfo.Version)
	assert.NotNil(t, info.Capabilities.TextDocumentSync)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///home/me/My%20App/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/My App/A.java", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}
