package lsp

import (
	"bytes"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/springguard/format"
	"github.com/dhamidi/springguard/java/syntax"
	"github.com/dhamidi/springguard/routes"
)

const source = "springguard"

// Diagnostics converts the analysis of doc into editor diagnostics:
// unresolvable annotations are errors, syntax errors are warnings and
// endpoints without a guard are informational.
func Diagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, d := range doc.Result.Diagnostics {
		diagnostics = append(diagnostics, diagnostic(doc.Content, d.Pos, protocol.DiagnosticSeverityError,
			fmt.Sprintf("%s (%s)", d.Message, d.Path)))
	}
	for _, e := range doc.File.Errors {
		diagnostics = append(diagnostics, diagnostic(doc.Content, e.Pos, protocol.DiagnosticSeverityWarning, e.Message))
	}
	for _, r := range routes.Unguarded(doc.Result.Routes()) {
		diagnostics = append(diagnostics, diagnostic(doc.Content, r.Pos, protocol.DiagnosticSeverityInformation,
			fmt.Sprintf("%s %s is not guarded by a method security annotation", r.HTTPMethod, format.DisplayURL(r.URL))))
	}
	return diagnostics
}

func diagnostic(content []byte, pos syntax.Position, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	src := source
	return protocol.Diagnostic{
		Range:    lineRange(content, pos),
		Severity: &severity,
		Source:   &src,
		Message:  message,
	}
}

// lineRange spans from pos to the end of its line. Columns are byte
// offsets, which matches UTF-16 units for the ASCII text annotations are
// written in.
func lineRange(content []byte, pos syntax.Position) protocol.Range {
	line := max(pos.Line-1, 0)
	start := max(pos.Column-1, 0)
	end := start

	lines := bytes.Split(content, []byte("\n"))
	if line < len(lines) {
		end = len(bytes.TrimRight(lines[line], "\r"))
		if end < start {
			end = start
		}
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
	}
}
