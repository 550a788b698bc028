// Package generator turns user-supplied source text into callable
// render functions and memoizes the result. Generator code runs with
// the full privileges of the host process; that trust boundary is a
// deliberate property of the design, not something to sandbox away
// here.
package generator

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/hferrand/marginalia"
)

const renderFuncName = "Render"

// Func is a compiled generator ready to invoke.
type Func func(ctx *marginalia.Context) (any, error)

// Compiler is the capability boundary around "turn source text into a
// callable". Swapping the implementation (say, for a sandboxed one)
// must not touch the rest of the pipeline.
type Compiler interface {
	Compile(ref, src string) (Func, error)
}

// YaegiCompiler evaluates generator source in a fresh interpreter with
// the stdlib and the marginalia script API available.
type YaegiCompiler struct{}

// Compile interprets src and binds its Render function. The source must
// define Render with the signature
// func(*marginalia.Context) (any, error); a missing or mis-shaped
// Render is a compile failure.
func (YaegiCompiler) Compile(ref, src string) (Func, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("generator: prepare interpreter for %s: %w", ref, err)
	}
	if err := i.Use(marginalia.Symbols()); err != nil {
		return nil, fmt.Errorf("generator: prepare interpreter for %s: %w", ref, err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("generator: interpret %s: %w", ref, err)
	}
	fn, err := i.Eval(renderFuncName)
	if err != nil {
		return nil, fmt.Errorf("generator: %s must define %s(*marginalia.Context) (any, error): %w", ref, renderFuncName, err)
	}
	return bindRender(ref, fn)
}

func bindRender(ref string, fn reflect.Value) (Func, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("generator: %s: %s is not a function", ref, renderFuncName)
	}
	t := fn.Type()
	ctxType := reflect.TypeOf((*marginalia.Context)(nil))
	if t.NumIn() != 1 || !ctxType.AssignableTo(t.In(0)) {
		return nil, fmt.Errorf("generator: %s: %s must accept a single *marginalia.Context", ref, renderFuncName)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 {
		return nil, fmt.Errorf("generator: %s: %s must return (any) or (any, error)", ref, renderFuncName)
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if t.NumOut() == 2 && !t.Out(1).Implements(errType) {
		return nil, fmt.Errorf("generator: %s: %s second return value must be an error", ref, renderFuncName)
	}
	return func(ctx *marginalia.Context) (any, error) {
		results := fn.Call([]reflect.Value{reflect.ValueOf(ctx)})
		if len(results) == 2 && !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok {
				return nil, e
			}
			return nil, fmt.Errorf("generator: %s returned a non-error second value", ref)
		}
		return results[0].Interface(), nil
	}, nil
}
