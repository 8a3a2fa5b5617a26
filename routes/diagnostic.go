package routes

import (
	"errors"
	"fmt"

	"github.com/dhamidi/springguard/java/syntax"
)

// Diagnostic is a malformed annotation the extractor skipped.
type Diagnostic struct {
	// Path is the owner path of the annotation, as in
	// com.example.Items#list()@org.springframework.web.bind.annotation.GetMapping.
	Path    string          `json:"path" yaml:"path"`
	Kind    error           `json:"-" yaml:"-"`
	Message string          `json:"message" yaml:"message"`
	Pos     syntax.Position `json:"position" yaml:"position"`
	Err     error           `json:"-" yaml:"-"`
}

var messages = map[error]string{
	ErrInvalidAnnotationArgument:    "The value passed to request mapping is invalid",
	ErrUnexpectedRequestMethodValue: "Unexpected request method",
}

func newDiagnostic(path string, pos syntax.Position, err error) Diagnostic {
	d := Diagnostic{Path: path, Pos: pos, Err: err, Message: err.Error()}
	for kind, message := range messages {
		if errors.Is(err, kind) {
			d.Kind = kind
			d.Message = message
		}
	}
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] Error: %s", d.Path, d.Message)
}

type Diagnostics []Diagnostic

// Err joins the diagnostics into one error, or returns nil when there are
// none.
func (ds Diagnostics) Err() error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = fmt.Errorf("%s: %w", d.Path, d.Err)
	}
	return errors.Join(errs...)
}
