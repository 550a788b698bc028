package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const checkScript = `package main

import "marginalia"

func Render(ctx *marginalia.Context) (any, error) {
	return "ok", nil
}
`

func writeCheckVault(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".marginalia"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".marginalia", "config.yaml"), []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", "ok.go"), []byte(checkScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return dir
}

func TestRunCheckAllValid(t *testing.T) {
	dir := writeCheckVault(t, `version: 1
mappings:
  - name: ok
    generator: scripts/ok.go
`)
	if err := runCheck(dir); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestRunCheckReportsFailures(t *testing.T) {
	dir := writeCheckVault(t, `version: 1
mappings:
  - name: ok
    generator: scripts/ok.go
  - name: broken
    generator: scripts/missing.go
`)
	err := runCheck(dir)
	if err == nil {
		t.Fatal("expected failure for missing generator source")
	}
	if !strings.Contains(err.Error(), "1 generator(s) failed") {
		t.Fatalf("error = %v", err)
	}
}
