package vault

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformedFrontMatter indicates a YAML fence was present but its
// contents could not be parsed.
var ErrMalformedFrontMatter = errors.New("vault: malformed frontmatter")

// SplitFrontMatter extracts the metadata block and body from a note that
// may start with `---` YAML fences. Notes without frontmatter yield an
// empty metadata map and the full content as body.
func SplitFrontMatter(content []byte) (map[string]any, []byte, error) {
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return map[string]any{}, normalized, nil
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		// Closing fence at end of file without trailing newline.
		if trimmed, ok := bytes.CutSuffix(rest, []byte("\n---")); ok {
			parts = [][]byte{trimmed, nil}
		} else {
			return nil, nil, ErrMalformedFrontMatter
		}
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, parts[1], nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
