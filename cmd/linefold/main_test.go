package main

import (
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/linefold"
)

func TestReadInputsFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("first part"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := os.WriteFile(b, []byte("second part"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	buf, err := readInputs([]string{a, b})
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	if string(buf) != "first part\nsecond part" {
		t.Fatalf("unexpected content: %q", string(buf))
	}

	if _, err := readInputs([]string{filepath.Join(dir, "missing.txt")}); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestResolveMode(t *testing.T) {
	cases := []struct {
		in   string
		want linefold.Mode
		ok   bool
	}{
		{"fit", linefold.ModeFit, true},
		{"FIT", linefold.ModeFit, true},
		{"", linefold.ModeFit, true},
		{" uniform ", linefold.ModeUniform, true},
		{"stretch", linefold.ModeFit, false},
	}
	for _, tc := range cases {
		got, err := resolveMode(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("resolveMode(%q): %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("resolveMode(%q): expected error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("resolveMode(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestJoinLine(t *testing.T) {
	tokens := linefold.Segment("one two  three")
	if got := joinLine(tokens); got != "one two  three" {
		t.Fatalf("joinLine: got %q", got)
	}
	if got := joinLine(nil); got != "" {
		t.Fatalf("joinLine(nil): got %q", got)
	}
}
