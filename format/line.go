package format

import (
	"io"
	"strings"
)

// LineEncoder prints one route per line.
type LineEncoder struct {
	w      io.Writer
	report *Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(report *Report) error {
	e.report = report
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, r := range e.report.Routes {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
