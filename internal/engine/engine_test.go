package engine

import (
	"testing"

	"github.com/hferrand/marginalia/internal/generator"
	"github.com/hferrand/marginalia/internal/mapping"
)

type memStore map[string]string

func (s memStore) ReadSource(ref string) (string, error) {
	return s[ref], nil
}

const nilSource = `package main

import "marginalia"

func Render(ctx *marginalia.Context) (any, error) {
	return nil, nil
}`

func newEngine() *Engine {
	loader := generator.NewLoader(memStore{"scripts/a.go": nilSource}, generator.YaegiCompiler{})
	return New(loader, nil)
}

func TestRebuildMappingsClearsCacheAndBumpsVersion(t *testing.T) {
	e := newEngine()
	if _, err := e.Loader.Load("scripts/a.go"); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := e.Version.Current()
	e.RebuildMappings([]mapping.Mapping{{Name: "a", GeneratorRef: "scripts/a.go", Enabled: true}})
	if e.Loader.IsCached("scripts/a.go") {
		t.Fatalf("rebuild must clear the generator cache")
	}
	if e.Version.Current() <= before {
		t.Fatalf("rebuild must bump the decoration version")
	}
	if _, ok := e.Table.Lookup("a"); !ok {
		t.Fatalf("mapping missing after rebuild")
	}
}

func TestClearCacheKeepsMappings(t *testing.T) {
	e := newEngine()
	e.RebuildMappings([]mapping.Mapping{{Name: "a", GeneratorRef: "scripts/a.go", Enabled: true}})
	if _, err := e.Loader.Load("scripts/a.go"); err != nil {
		t.Fatalf("load: %v", err)
	}
	e.ClearCache()
	if e.Loader.IsCached("scripts/a.go") {
		t.Fatalf("cache must be empty after clear")
	}
	if _, ok := e.Table.Lookup("a"); !ok {
		t.Fatalf("clearing the cache must never mutate mappings")
	}
}

func TestInvalidateLiveBumpsVersion(t *testing.T) {
	e := newEngine()
	before := e.Version.Current()
	e.InvalidateLive()
	if e.Version.Current() != before+1 {
		t.Fatalf("version = %d, want %d", e.Version.Current(), before+1)
	}
}
