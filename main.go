package main

import (
	"os"

	"facetgrip/internal/cli"
)

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(cli.Execute(version, commit, buildDate))
}
