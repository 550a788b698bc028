package live

import "github.com/hferrand/marginalia/internal/surface"

// Decision is the outcome for one mapped annotation on the live
// surface.
type Decision int

const (
	// ShowNative keeps the raw annotation text editable.
	ShowNative Decision = iota
	// ShowReplacement swaps the span for a replacement element.
	ShowReplacement
)

// Decide picks between native text and a replacement for the byte span
// [start, start+length). Native wins when the surface is not in live
// preview mode, or when the cursor or selection touches the span: the
// user must always be able to edit the annotation as text.
func Decide(start, length int, sel surface.Selection, mode surface.Mode) Decision {
	if mode != surface.ModeLivePreview {
		return ShowNative
	}
	if sel.Touches(start, length) {
		return ShowNative
	}
	return ShowReplacement
}
