//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// Keys the facetgrip bindings react to
const (
	keyToggle = "\r"
	keyQuit   = "\x03"
	keyReset  = "\x12"
	keyClear  = "\x1b"
	keyRight  = "\x1b[C"
)

// ansiRe matches the escape sequences bubbletea emits: CSI, OSC, charset and
// keypad switches, plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// session runs facetgrip on a pseudo terminal and records everything it draws
type session struct {
	t         *testing.T
	workspace string
	cmd       *exec.Cmd
	pty       *os.File

	mu  sync.Mutex
	out bytes.Buffer
}

func newSession(t *testing.T) *session {
	s := &session{t: t, workspace: t.TempDir()}
	t.Cleanup(s.close)
	return s
}

// start launches the binary in a 120x40 terminal with $HOME inside the workspace
func (s *session) start(args ...string) error {
	s.cmd = exec.Command(binPath, args...)
	s.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+s.workspace,
		"FACETGRIP_E2E_TEST=1",
	)

	f, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start facetgrip on a pty: %w", err)
	}
	s.pty = f

	go func() {
		chunk := make([]byte, 4096)
		for {
			n, err := f.Read(chunk)
			if n > 0 {
				s.mu.Lock()
				s.out.Write(chunk[:n])
				s.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

func (s *session) send(keys string) error {
	_, err := s.pty.Write([]byte(keys))
	return err
}

// typeText sends one rune at a time so the search box sees real keystrokes
func (s *session) typeText(text string) error {
	for _, r := range text {
		if err := s.send(string(r)); err != nil {
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (s *session) raw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.String()
}

// screen returns the output so far with escape sequences removed
func (s *session) screen() string {
	return ansiRe.ReplaceAllString(s.raw(), "")
}

// waitFor polls the plain output until cond holds, failing with the output
// tail when it does not
func (s *session) waitFor(cond func(plain string) bool, timeout time.Duration, what string) error {
	deadline := time.Now().Add(timeout)
	for {
		plain := s.screen()
		if cond(plain) {
			return nil
		}
		if time.Now().After(deadline) {
			if len(plain) > 4096 {
				plain = plain[len(plain)-4096:]
			}
			return fmt.Errorf("%s\n--- output tail ---\n%s", what, plain)
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// see waits for text to be drawn
func (s *session) see(text string) error {
	return s.waitFor(func(plain string) bool { return strings.Contains(plain, text) }, 3*time.Second, "expected "+text)
}

// seeAfter waits until text is drawn later than the last occurrence of
// previous, which tells a redraw from an earlier frame
func (s *session) seeAfter(text, previous string) error {
	return s.waitFor(func(plain string) bool {
		return strings.LastIndex(plain, text) > strings.LastIndex(plain, previous)
	}, 3*time.Second, fmt.Sprintf("expected %s to be drawn after %s", text, previous))
}

// ready waits for the marker printed right before the program takes the terminal
func (s *session) ready() error {
	return s.waitFor(func(string) bool { return strings.Contains(s.raw(), "__READY__") }, 5*time.Second, "facetgrip never became ready")
}

// close hangs up the terminal and reaps the process
func (s *session) close() {
	if s.pty != nil {
		_ = s.pty.Close()
		s.pty = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.cmd = nil
	}
}
