package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/springguard/routes"
)

type JSONEncoder struct {
	w      io.Writer
	report *Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(report *Report) error {
	e.report = report
	if err := write(e.w, e); err != nil {
		return err
	}
	_, err := e.w.Write([]byte{'\n'})
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildDocument(e.report), "", "  ")
}

// document is the serialized shape shared by the JSON and YAML encoders.
type document struct {
	Routes      []routes.Route     `json:"routes" yaml:"routes"`
	Diagnostics routes.Diagnostics `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Summary     Summary            `json:"summary" yaml:"summary"`
}

func buildDocument(r *Report) document {
	rs := r.Routes
	if rs == nil {
		rs = []routes.Route{}
	}
	return document{Routes: rs, Diagnostics: r.Diagnostics, Summary: r.Summary()}
}
