// shell_test.go - exercises the Shell's read-path byte translation
// without requiring a real TTY (term.MakeRaw needs one, so Start/Stop
// are not covered here — only the Read translation logic is, against
// a pipe fd standing in for stdin).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"os"
	"testing"
)

func TestShell_Read_TranslatesCRtoLF(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()

	if _, err := w.Write([]byte("hi\r")); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	s := &Shell{fd: int(r.Fd())}
	buf := make([]byte, 8)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got := string(buf[:n])
	if got != "hi\n" {
		t.Errorf("got %q, want %q", got, "hi\n")
	}
}

func TestShell_Stop_IsIdempotentWithoutStart(t *testing.T) {
	s := NewShell()
	s.Stop()
	s.Stop()
}
