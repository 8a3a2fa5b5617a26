package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueLiteral
	ValueList
	ValueEnumRef
	ValueExpr
)

var valueKindNames = map[ValueKind]string{
	ValueAbsent:  "absent",
	ValueLiteral: "literal",
	ValueList:    "list",
	ValueEnumRef: "enum reference",
	ValueExpr:    "expression",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is an annotation argument.
//
//   - ValueAbsent: the argument was not written.
//   - ValueLiteral: a string literal; Text is the decoded string.
//   - ValueList: an array initializer; Elements holds its members.
//   - ValueEnumRef: a constant reference such as RequestMethod.GET; Text is
//     the constant name (GET).
//   - ValueExpr: anything else.
//
// Source is the argument as written for every kind except ValueAbsent.
type Value struct {
	Kind     ValueKind
	Text     string
	Source   string
	Elements []Value
	Pos      Position
}

func Absent() Value {
	return Value{Kind: ValueAbsent}
}

func Literal(s string) Value {
	return Value{Kind: ValueLiteral, Text: s, Source: strconv.Quote(s)}
}

func List(elements ...Value) Value {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = e.Source
	}
	return Value{Kind: ValueList, Elements: elements, Source: "{" + strings.Join(parts, ", ") + "}"}
}

// EnumRef builds a constant reference from its source text, e.g.
// "RequestMethod.GET".
func EnumRef(source string) Value {
	name := source
	if i := strings.LastIndexByte(source, '.'); i >= 0 {
		name = source[i+1:]
	}
	return Value{Kind: ValueEnumRef, Text: name, Source: source}
}

func Expr(source string) Value {
	return Value{Kind: ValueExpr, Source: source}
}

func (v Value) IsAbsent() bool {
	return v.Kind == ValueAbsent
}

// At returns v with its position set.
func (v Value) At(pos Position) Value {
	v.Pos = pos
	return v
}

func (v Value) String() string {
	if v.Kind == ValueAbsent {
		return "<absent>"
	}
	return v.Source
}

// Equal compares kinds, texts and elements, ignoring positions and the
// exact source spelling of literals.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Text != o.Text || len(v.Elements) != len(o.Elements) {
		return false
	}
	if v.Kind == ValueExpr && v.Source != o.Source {
		return false
	}
	for i := range v.Elements {
		if !v.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// IsConstantName reports whether name follows the UPPER_SNAKE convention of
// enum constants.
func IsConstantName(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if !(ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_') {
			return false
		}
	}
	return true
}

var ErrMalformedLiteral = errors.New("malformed string literal")

// Unquote decodes a Java string literal or text block, quotes included.
func Unquote(lit string) (string, error) {
	if strings.HasPrefix(lit, `"""`) {
		return unquoteTextBlock(lit)
	}
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", fmt.Errorf("%w: %s", ErrMalformedLiteral, lit)
	}
	return unescape(lit[1 : len(lit)-1])
}

func unquoteTextBlock(lit string) (string, error) {
	if len(lit) < 6 || !strings.HasSuffix(lit, `"""`) {
		return "", fmt.Errorf("%w: unterminated text block", ErrMalformedLiteral)
	}
	body := lit[3 : len(lit)-3]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 || strings.TrimSpace(body[:nl]) != "" {
		return "", fmt.Errorf("%w: text block must start on a new line", ErrMalformedLiteral)
	}
	lines := strings.Split(strings.ReplaceAll(body[nl+1:], "\r\n", "\n"), "\n")

	// The last line is the closing delimiter's line; it counts towards the
	// indentation only when it is blank.
	indent := -1
	for i, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && i != len(lines)-1 {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	var sb strings.Builder
	for i, line := range lines {
		if len(line) >= indent {
			line = line[indent:]
		} else {
			line = ""
		}
		line = strings.TrimRight(line, " \t")
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteByte('\n')
		}
	}
	return unescape(sb.String())
}

func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("%w: trailing backslash", ErrMalformedLiteral)
		}
		switch s[i] {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 's':
			sb.WriteByte(' ')
		case '"', '\'', '\\':
			sb.WriteByte(s[i])
		case '\n':
			// line continuation inside a text block
		case 'u':
			for i+1 < len(s) && s[i+1] == 'u' {
				i++
			}
			if i+4 >= len(s) {
				return "", fmt.Errorf("%w: short unicode escape", ErrMalformedLiteral)
			}
			r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrMalformedLiteral, err)
			}
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(r))
			sb.Write(buf[:n])
			i += 4
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			limit := i + 2
			if s[i] <= '3' {
				limit = i + 3
			}
			for end < len(s) && end < limit && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			r, _ := strconv.ParseUint(s[i:end], 8, 32)
			sb.WriteRune(rune(r))
			i = end - 1
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrMalformedLiteral, s[i])
		}
	}
	return sb.String(), nil
}
