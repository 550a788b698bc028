package surface

// Selection is a cursor or range on the live surface, in byte offsets.
// A collapsed cursor has From == To.
type Selection struct {
	From int
	To   int
}

// Normalized returns the selection with From <= To.
func (s Selection) Normalized() Selection {
	if s.From > s.To {
		return Selection{From: s.To, To: s.From}
	}
	return s
}

// Touches reports whether the selection intersects the byte span
// [start, start+length]. Boundary contact counts: a cursor sitting at
// either edge of an annotation must keep it editable as text.
func (s Selection) Touches(start, length int) bool {
	n := s.Normalized()
	return n.To >= start && n.From <= start+length
}

// Mode is the live surface's interaction mode.
type Mode int

const (
	// ModeSource shows raw annotation text everywhere.
	ModeSource Mode = iota
	// ModeLivePreview replaces annotations unless the cursor is on them.
	ModeLivePreview
)
