package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/springguard/java/parser"
)

// TreeEncoder dumps a concrete syntax tree as JSON, together with the
// syntax errors it contains.
type TreeEncoder struct {
	w    io.Writer
	file string
}

func NewTreeEncoder(w io.Writer, file string) *TreeEncoder {
	return &TreeEncoder{w: w, file: file}
}

func (e *TreeEncoder) Encode(root *parser.Node) error {
	data, err := e.Marshal(root)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(data, '\n'))
	return err
}

func (e *TreeEncoder) Marshal(root *parser.Node) ([]byte, error) {
	doc := treeDocument{File: e.file, Tree: treeNodeOf(root)}
	for _, errNode := range root.Errors() {
		doc.Errors = append(doc.Errors, treeErrorOf(errNode))
	}
	return json.MarshalIndent(doc, "", "  ")
}

type treeDocument struct {
	File   string       `json:"file,omitempty"`
	Errors []*treeError `json:"errors,omitempty"`
	Tree   *treeNode    `json:"tree"`
}

type treeNode struct {
	Kind     string      `json:"kind"`
	Start    string      `json:"start,omitempty"`
	End      string      `json:"end,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    *treeError  `json:"error,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

type treeError struct {
	At       string   `json:"at"`
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func treeNodeOf(n *parser.Node) *treeNode {
	tn := &treeNode{Kind: n.Kind.String()}
	if n.Span.Start.Line != 0 {
		tn.Start = lineColumn(n.Span.Start)
		tn.End = lineColumn(n.Span.End)
	}
	if n.Token != nil {
		tn.Token = n.Token.Literal
	}
	if n.Error != nil {
		tn.Error = treeErrorOf(n)
	}
	for _, child := range n.Children {
		tn.Children = append(tn.Children, treeNodeOf(child))
	}
	return tn
}

func treeErrorOf(n *parser.Node) *treeError {
	te := &treeError{At: lineColumn(n.Span.Start), Message: n.Error.Message}
	for _, kind := range n.Error.Expected {
		te.Expected = append(te.Expected, kind.String())
	}
	if n.Error.Got != nil {
		te.Got = n.Error.Got.Literal
	}
	return te
}

func lineColumn(p parser.Position) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
