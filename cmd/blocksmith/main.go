// Command blocksmith turns UI component sources into CMS page-builder
// blocks: a schema, a block wrapper and a registration checklist.
package main

import (
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}
