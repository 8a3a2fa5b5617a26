package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dhamidi/springguard/routes"
)

// TableEncoder prints an aligned table with a summary line. Unguarded
// routes are highlighted when color is enabled.
type TableEncoder struct {
	w       io.Writer
	report  *Report
	noColor bool
}

func NewTableEncoder(w io.Writer) *TableEncoder {
	return &TableEncoder{w: w, noColor: color.NoColor}
}

// WithColor forces colored output on or off.
func (e *TableEncoder) WithColor(enabled bool) *TableEncoder {
	e.noColor = !enabled
	return e
}

func (e *TableEncoder) Encode(report *Report) error {
	e.report = report
	return write(e.w, e)
}

var tableHeader = []string{"METHOD", "URL", "GUARD", "HANDLER"}

func (e *TableEncoder) MarshalText() ([]byte, error) {
	header := e.paint(color.Bold)
	unguarded := e.paint(color.FgRed)
	guarded := e.paint(color.FgGreen)

	rows := [][]string{tableHeader}
	for _, r := range e.report.Routes {
		rows = append(rows, []string{r.HTTPMethod, DisplayURL(r.URL), Guard(r), r.Handler})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	for n, row := range rows {
		paint := header
		switch {
		case n == 0:
		case e.report.Routes[n-1].Guarded():
			paint = guarded
		default:
			paint = unguarded
		}
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(paint.Sprint(cell))
				continue
			}
			sb.WriteString(paint.Sprint(cell + strings.Repeat(" ", widths[i]-len(cell))))
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}

	s := e.report.Summary()
	fmt.Fprintf(&sb, "\n%d routes, %d guarded, %s\n", s.Total, s.Guarded,
		unguarded.Sprintf("%d unguarded", s.Unguarded))
	if n := len(e.report.Diagnostics); n > 0 {
		fmt.Fprintf(&sb, "%s\n", e.paint(color.FgYellow, color.Bold).Sprintf("%d annotations could not be resolved", n))
	}
	return []byte(sb.String()), nil
}

func (e *TableEncoder) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if e.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func DisplayURL(url string) string {
	if url == "" {
		return "/"
	}
	return url
}

// Guard describes the guard expressions of r.
func Guard(r routes.Route) string {
	return guardOf(r.PreAuthorization, r.PostAuthorization, r.PreFilter, r.PostFilter)
}

// guardOf lists the guard expressions present, or "-" when there are none.
func guardOf(exprs ...string) string {
	labels := []string{"pre", "post", "pre-filter", "post-filter"}
	var parts []string
	for i, expr := range exprs {
		if expr != "" {
			parts = append(parts, labels[i]+": "+expr)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}
