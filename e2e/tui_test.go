//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartupShowsWholeCatalog(t *testing.T) {
	t.Parallel()
	s := newSession(t)

	require.NoError(t, s.startOnSample())
	require.NoError(t, s.see("facetgrip"), "title bar")
	require.NoError(t, s.see("Blue Gadget"), "catalog items")
	require.NoError(t, s.see("Color"), "facet row")
}

func TestSearchFiltersItems(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	require.NoError(t, s.startOnSample())

	require.NoError(t, s.typeText("cafe"))
	require.NoError(t, s.see("1 of 4 items"), "debounced search narrows the list")

	require.NoError(t, s.send(keyClear))
	require.NoError(t, s.seeAfter("4 of 4 items", "1 of 4 items"), "esc clears the search")
}

func TestFacetToggleAndReset(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	require.NoError(t, s.startOnSample())

	// the tag cursor starts on Blue
	require.NoError(t, s.send(keyToggle))
	require.NoError(t, s.see("2 of 4 items"))
	require.NoError(t, s.see("[Blue]"), "facet summary shows the selection")

	require.NoError(t, s.send(keyRight))
	require.NoError(t, s.send(keyToggle))
	require.NoError(t, s.see("1 of 4 items"), "Red replaces Blue within the facet")

	require.NoError(t, s.send(keyReset))
	require.NoError(t, s.seeAfter("4 of 4 items", "1 of 4 items"), "reset shows every item again")
}

func TestCatalogEditIsPickedUp(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	require.NoError(t, s.startOnSample())

	time.Sleep(20 * time.Millisecond)
	_, err := s.writeCatalog(sampleCatalog + "\n[[item]]\nid = \"e\"\ntitle = \"Green Widget\"\n")
	require.NoError(t, err)

	require.NoError(t, s.see("Green Widget"))
	require.NoError(t, s.see("5 of 5 items"))
}

func TestCatalogEditIsPickedUpWithoutWatcher(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	require.NoError(t, s.startOnSample("--no-watch"))

	// Only the stamp check on enumeration sees this rewrite
	require.NoError(t, s.send(keyToggle))
	require.NoError(t, s.see("2 of 4 items"))
	time.Sleep(20 * time.Millisecond)
	_, err := s.writeCatalog(sampleCatalog + "\n")
	require.NoError(t, err)

	require.NoError(t, s.send(keyRight))
	require.NoError(t, s.send(keyToggle))
	require.NoError(t, s.see("1 of 4 items"), "selection still applies after the reload")
}

func TestCtrlCExitsCleanly(t *testing.T) {
	t.Parallel()
	s := newSession(t)
	require.NoError(t, s.startOnSample())

	done := make(chan error, 1)
	cmd := s.cmd
	go func() { done <- cmd.Wait() }()

	require.NoError(t, s.send(keyQuit))
	select {
	case err := <-done:
		require.NoError(t, err, "ctrl+c exits with status 0")
		s.cmd = nil
	case <-time.After(3 * time.Second):
		t.Fatalf("facetgrip did not exit after ctrl+c\n%s", s.screen())
	}
}
