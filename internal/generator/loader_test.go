package generator

import (
	"fmt"
	"testing"

	"github.com/hferrand/marginalia"
)

const countSource = `package main

import "marginalia"

func Render(ctx *marginalia.Context) (any, error) {
	return "5", nil
}`

const elementSource = `package main

import "marginalia"

func Render(ctx *marginalia.Context) (any, error) {
	return marginalia.Element("span", marginalia.Text(ctx.Name)), nil
}`

const argsSource = `package main

import (
	"fmt"

	"marginalia"
)

func Render(ctx *marginalia.Context) (any, error) {
	return fmt.Sprintf("%v", ctx.Args["limit"]), nil
}`

type fakeStore struct {
	sources map[string]string
	reads   int
}

func (s *fakeStore) ReadSource(ref string) (string, error) {
	s.reads++
	src, ok := s.sources[ref]
	if !ok {
		return "", fmt.Errorf("missing %s", ref)
	}
	return src, nil
}

func newTestLoader(sources map[string]string) (*Loader, *fakeStore) {
	store := &fakeStore{sources: sources}
	return NewLoader(store, YaegiCompiler{}), store
}

func TestLoadCompilesAndRuns(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"scripts/count.go": countSource})
	fn, err := loader.Load("scripts/count.go")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := fn(&marginalia.Context{Name: "count"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "5" {
		t.Fatalf("out = %v", out)
	}
}

func TestLoadElementBuilder(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"scripts/badge.go": elementSource})
	fn, err := loader.Load("scripts/badge.go")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := fn(&marginalia.Context{Name: "badge"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	node, ok := out.(*marginalia.Node)
	if !ok {
		t.Fatalf("expected *marginalia.Node, got %T", out)
	}
	if node.Tag != "span" || node.PlainText() != "badge" {
		t.Fatalf("node = %+v", node)
	}
}

func TestLoadPassesArguments(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"scripts/args.go": argsSource})
	fn, err := loader.Load("scripts/args.go")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := fn(&marginalia.Context{Name: "args", Args: map[string]any{"limit": 3}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "3" {
		t.Fatalf("out = %v", out)
	}
}

func TestLoadMemoizes(t *testing.T) {
	loader, store := newTestLoader(map[string]string{"scripts/count.go": countSource})
	if _, err := loader.Load("scripts/count.go"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.Load("scripts/count.go"); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if store.reads != 1 {
		t.Fatalf("expected 1 store read, got %d", store.reads)
	}
	if !loader.IsCached("scripts/count.go") {
		t.Fatalf("expected ref to be cached")
	}
}

func TestClearEmptiesCache(t *testing.T) {
	loader, store := newTestLoader(map[string]string{"scripts/count.go": countSource})
	if _, err := loader.Load("scripts/count.go"); err != nil {
		t.Fatalf("load: %v", err)
	}
	loader.Clear()
	if loader.IsCached("scripts/count.go") {
		t.Fatalf("IsCached must be false after Clear")
	}
	if _, err := loader.Load("scripts/count.go"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if store.reads != 2 {
		t.Fatalf("expected recompilation after Clear, reads = %d", store.reads)
	}
}

func TestLoadMissingRenderFunc(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"scripts/empty.go": "package main\n"})
	if _, err := loader.Load("scripts/empty.go"); err == nil {
		t.Fatalf("expected error for source without Render")
	}
	if loader.IsCached("scripts/empty.go") {
		t.Fatalf("failed compilation must not be cached")
	}
}

func TestLoadBadSignature(t *testing.T) {
	src := "package main\n\nfunc Render(a, b int) int { return a + b }\n"
	loader, _ := newTestLoader(map[string]string{"scripts/bad.go": src})
	if _, err := loader.Load("scripts/bad.go"); err == nil {
		t.Fatalf("expected error for wrong Render signature")
	}
}

func TestLoadUnreadableSource(t *testing.T) {
	loader, _ := newTestLoader(nil)
	if _, err := loader.Load("scripts/missing.go"); err == nil {
		t.Fatalf("expected error for unreadable source")
	}
	if loader.IsCached("scripts/missing.go") {
		t.Fatalf("load failure must not be cached")
	}
}

func TestGeneratorErrorPropagates(t *testing.T) {
	src := `package main

import (
	"errors"

	"marginalia"
)

func Render(ctx *marginalia.Context) (any, error) {
	return nil, errors.New("boom")
}`
	loader, _ := newTestLoader(map[string]string{"scripts/err.go": src})
	fn, err := loader.Load("scripts/err.go")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = fn(&marginalia.Context{})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected generator error, got %v", err)
	}
}
