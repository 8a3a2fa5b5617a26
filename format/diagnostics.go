package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dhamidi/springguard/routes"
)

// WriteDiagnostics prints one "[path] Error: message" line per diagnostic.
func WriteDiagnostics(w io.Writer, diags routes.Diagnostics) error {
	label := color.New(color.FgRed, color.Bold)
	for _, d := range diags {
		if _, err := fmt.Fprintf(w, "[%s] %s %s\n", d.Path, label.Sprint("Error:"), d.Message); err != nil {
			return err
		}
	}
	return nil
}
