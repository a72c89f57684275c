package integrate

import (
	"fmt"
	"strings"
)

// MissingSourceError aborts a run whose component source is not on disk.
type MissingSourceError struct {
	Name string
	// Path is the expected location, relative to the project root.
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("component source not found at %s", e.Path)
}

// Remediation explains how to get the source in place.
func (e *MissingSourceError) Remediation() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Copy the component code into place first:\n")
	fmt.Fprintf(&b, "  1. Visit https://ui.aceternity.com or https://pro.aceternity.com\n")
	fmt.Fprintf(&b, "  2. Find the %q component (or run: blocksmith fetch %s)\n", e.Name, e.Name)
	fmt.Fprintf(&b, "  3. Save the code to: %s\n", e.Path)
	fmt.Fprintf(&b, "  4. Re-run this command\n")
	return b.String()
}
