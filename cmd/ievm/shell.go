// shell.go - interactive stdin forwarding for `ievm run -i`, adapted
// from the teacher's terminal_host.go: raw mode plus a direct, blocking
// read of the stdin fd (no reader goroutine), and the bytes feed an io.Reader the VM's
// `int 0x80` read syscall consumes instead of a TERM_IN/TERM_KEY_IN
// MMIO device.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Shell puts stdin into raw mode and exposes it as an io.Reader that
// the VM's sysRead can block on, restoring cooked mode on Stop.
type Shell struct {
	fd           int
	oldTermState *term.State
	stopped      sync.Once
}

// NewShell constructs a Shell bound to the process's stdin.
func NewShell() *Shell {
	return &Shell{fd: int(os.Stdin.Fd())}
}

// Start places stdin in raw mode. Call Stop to restore it, even on an
// error return from the run loop.
func (s *Shell) Start() error {
	oldState, err := term.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("ievm: failed to set raw mode: %w", err)
	}
	s.oldTermState = oldState
	return nil
}

// Read satisfies io.Reader by forwarding directly to the raw fd via
// golang.org/x/sys/unix, translating the raw-mode CR Enter sends into
// LF the way terminal_host.go does for its MMIO device.
func (s *Shell) Read(p []byte) (int, error) {
	n, err := unix.Read(s.fd, p)
	if err != nil {
		return n, err
	}
	for i := 0; i < n; i++ {
		if p[i] == '\r' {
			p[i] = '\n'
		}
	}
	return n, nil
}

// Stop restores stdin to its original (cooked) mode. Safe to call
// more than once.
func (s *Shell) Stop() {
	s.stopped.Do(func() {
		if s.oldTermState != nil {
			_ = term.Restore(s.fd, s.oldTermState)
			s.oldTermState = nil
		}
	})
}
