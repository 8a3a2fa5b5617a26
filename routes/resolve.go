package routes

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/springguard/java/syntax"
)

var log = commonlog.GetLogger("springguard.routes")

var (
	ErrInvalidAnnotationArgument    = errors.New("invalid annotation argument")
	ErrUnexpectedRequestMethodValue = errors.New("unexpected request method value")
)

// ResolutionError reports an annotation argument of the wrong shape. It
// matches its Kind with errors.Is.
type ResolutionError struct {
	Kind   error
	Detail string
	Value  syntax.Value
}

func (e *ResolutionError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ResolutionError) Is(target error) bool {
	return target == e.Kind
}

func resolutionError(kind error, v syntax.Value) *ResolutionError {
	detail := fmt.Sprintf("%s %s", v.Kind, v)
	if v.Pos.Line > 0 {
		detail += " at " + v.Pos.String()
	}
	return &ResolutionError{Kind: kind, Detail: detail, Value: v}
}

// ResolveURLs normalizes a URL argument. A nil result means the argument
// names no URL: it was absent or an empty array. Non-literal array elements
// are skipped, so a non-empty array can still resolve to an empty, non-nil
// set that maps nothing.
func ResolveURLs(v syntax.Value) ([]string, error) {
	switch v.Kind {
	case syntax.ValueAbsent:
		return nil, nil
	case syntax.ValueLiteral:
		return []string{v.Text}, nil
	case syntax.ValueList:
		if len(v.Elements) == 0 {
			return nil, nil
		}
		urls := make([]string, 0, len(v.Elements))
		for _, e := range v.Elements {
			if e.Kind != syntax.ValueLiteral {
				log.Debugf("ignoring non-literal URL %s at %s", e, e.Pos)
				continue
			}
			urls = append(urls, e.Text)
		}
		return urls, nil
	}
	return nil, resolutionError(ErrInvalidAnnotationArgument, v)
}

// ResolveMethod returns the HTTP method a RequestMapping declares. ok is
// false when it declares none, which means every method. Only the first
// element of a method array is considered.
func ResolveMethod(a *syntax.Annotation) (method string, ok bool, err error) {
	v := a.Argument("method")
	switch v.Kind {
	case syntax.ValueAbsent:
		return "", false, nil
	case syntax.ValueEnumRef:
		return v.Text, true, nil
	case syntax.ValueList:
		if len(v.Elements) == 0 {
			return "", false, nil
		}
		if len(v.Elements) > 1 {
			log.Warningf("%s: only the first of %d request methods is used", v.Pos, len(v.Elements))
		}
		first := v.Elements[0]
		if first.Kind != syntax.ValueEnumRef {
			return "", false, resolutionError(ErrUnexpectedRequestMethodValue, first)
		}
		return first.Text, true, nil
	}
	return "", false, resolutionError(ErrUnexpectedRequestMethodValue, v)
}

// urlArgument returns the value argument, or its alias path.
func urlArgument(model Facade, a *syntax.Annotation) syntax.Value {
	if v := model.Argument(a, "value"); !v.IsAbsent() {
		return v
	}
	return model.Argument(a, "path")
}

// expression renders a guard expression verbatim.
func expression(v syntax.Value) string {
	switch v.Kind {
	case syntax.ValueAbsent:
		return ""
	case syntax.ValueLiteral:
		return v.Text
	}
	return v.Source
}
