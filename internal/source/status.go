package source

import (
	"fmt"
	"io"

	"github.com/huangsam/skillspot/schema"
)

// PrintSourceStatus prints dataset status information.
func PrintSourceStatus(w io.Writer, status schema.SourceStatus) {
	_, _ = fmt.Fprintf(w, "Source Backend: %s\n", status.Backend)
	if status.Version == "" {
		_, _ = fmt.Fprintln(w, "Data Version: none (run 'skillspot load' first)")
		return
	}
	_, _ = fmt.Fprintf(w, "Data Version: %s\n", status.Version)
	if !status.LoadedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "Loaded At: %s\n", status.LoadedAt.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Postings: %d\n", status.Jobs)
	_, _ = fmt.Fprintf(w, "Companies: %d\n", status.Companies)
	_, _ = fmt.Fprintf(w, "Skills: %d\n", status.Skills)
}
