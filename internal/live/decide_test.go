package live

import (
	"testing"

	"github.com/hferrand/marginalia/internal/surface"
)

func TestDecideSourceModeIsAlwaysNative(t *testing.T) {
	if d := Decide(10, 6, surface.Selection{From: 0, To: 0}, surface.ModeSource); d != ShowNative {
		t.Fatalf("source mode must show native, got %v", d)
	}
}

func TestDecideCursorInsideSpan(t *testing.T) {
	cases := []struct {
		name string
		sel  surface.Selection
		want Decision
	}{
		{"cursor before", surface.Selection{From: 3, To: 3}, ShowReplacement},
		{"cursor at start boundary", surface.Selection{From: 10, To: 10}, ShowNative},
		{"cursor inside", surface.Selection{From: 13, To: 13}, ShowNative},
		{"cursor at end boundary", surface.Selection{From: 16, To: 16}, ShowNative},
		{"cursor after", surface.Selection{From: 20, To: 20}, ShowReplacement},
		{"range overlapping", surface.Selection{From: 2, To: 12}, ShowNative},
		{"reversed range overlapping", surface.Selection{From: 12, To: 2}, ShowNative},
		{"range elsewhere", surface.Selection{From: 20, To: 30}, ShowReplacement},
	}
	for _, tc := range cases {
		if got := Decide(10, 6, tc.sel, surface.ModeLivePreview); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
