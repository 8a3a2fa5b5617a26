// Package format renders route reports.
package format

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/springguard/routes"
)

// Report is what a scan prints: the routes in reporting order and the
// annotations that could not be resolved.
type Report struct {
	Routes      []routes.Route
	Diagnostics routes.Diagnostics
}

// NewReport builds a report from an extraction result. With unguardedOnly
// only routes without any guard expression are listed.
func NewReport(result *routes.Result, unguardedOnly bool) *Report {
	rs := result.Routes()
	if unguardedOnly {
		rs = routes.Unguarded(rs)
	}
	return &Report{Routes: rs, Diagnostics: result.Diagnostics}
}

type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Guarded   int `json:"guarded" yaml:"guarded"`
	Unguarded int `json:"unguarded" yaml:"unguarded"`
}

func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Routes)}
	for _, route := range r.Routes {
		if route.Guarded() {
			s.Guarded++
		}
	}
	s.Unguarded = s.Total - s.Guarded
	return s
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(report *Report) error
}

var ErrUnknownFormat = errors.New("unknown format")

var encoders = map[string]func(io.Writer) Encoder{
	"text":  func(w io.Writer) Encoder { return NewLineEncoder(w) },
	"json":  func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml":  func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
	"table": func(w io.Writer) Encoder { return NewTableEncoder(w) },
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	return newEncoder(w), nil
}

func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
