package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31;1m"
	colorReset = "\x1b[0m"
)

// Render writes err followed by the offending text with a caret under the
// anchored column. ANSI color is applied only when w is a terminal.
func Render(w io.Writer, src string, err *DiagnosticError) {
	red, reset := "", ""
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		red, reset = colorRed, colorReset
	}

	fmt.Fprintf(w, "%serror[%s]%s: %s\n", red, err.Code, reset, err.Message)
	if src == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", src)
	if err.Pos.Column >= 1 && err.Pos.Column <= len(src)+1 {
		fmt.Fprintf(w, "  %s%s^%s\n", strings.Repeat(" ", err.Pos.Column-1), red, reset)
	}
}
