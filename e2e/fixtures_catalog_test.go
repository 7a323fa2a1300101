//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"time"
)

// sampleCatalog has two blue items, one red item and one accented title
const sampleCatalog = `
[[facet]]
key = "color"
name = "Color"

  [[facet.tag]]
  value = "blue"
  label = "Blue"

  [[facet.tag]]
  value = "red"
  label = "Red"

[[item]]
id = "a"
title = "Blue Widget"
tags = { color = ["blue"] }

[[item]]
id = "b"
title = "Red Widget"
tags = { color = ["red"] }

[[item]]
id = "c"
title = "Blue Gadget"
tags = { color = ["blue"] }

[[item]]
id = "d"
title = "Café Crème"
`

// writeCatalog writes the workspace catalog and returns its path
func (s *session) writeCatalog(content string) (string, error) {
	path := filepath.Join(s.workspace, "catalog.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	// distinct mtime so a rewrite within the same second is still noticed
	now := time.Now()
	return path, os.Chtimes(path, now, now)
}

// startOnSample writes the sample catalog and opens the TUI on it until the
// whole catalog is listed, with logs kept inside the workspace
func (s *session) startOnSample(extraArgs ...string) error {
	path, err := s.writeCatalog(sampleCatalog)
	if err != nil {
		return err
	}
	args := append([]string{path, "--log-file", filepath.Join(s.workspace, "facetgrip.log")}, extraArgs...)
	if err := s.start(args...); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	return s.see("4 of 4 items")
}
