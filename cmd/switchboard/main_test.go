package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "switchboard.yaml")
	yaml := fmt.Sprintf("db:\n  driver: sqlite\n  path: %s\n", filepath.Join(dir, "test.db"))
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "switchboard dev") {
		t.Errorf("output = %q", out)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	want := map[string]bool{"version": false, "serve": false, "db": false, "prune": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestDBInitCmd(t *testing.T) {
	path := writeTestConfig(t)

	out, err := runCommand(t, "db", "init", "-c", path)
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	if !strings.Contains(out, "Migrated 2 tables") {
		t.Errorf("output = %q", out)
	}
}

func TestDBInitCmd_MissingExplicitConfig(t *testing.T) {
	_, err := runCommand(t, "db", "init", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestPruneCmd_EmptyStore(t *testing.T) {
	path := writeTestConfig(t)

	out, err := runCommand(t, "prune", "-c", path, "--older-than", "30")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(out, "Removed 0 conversations older than 30 days") {
		t.Errorf("output = %q", out)
	}
}
