// Package annot scans document text for inline annotations: a marker
// symbol, a name, and an optional brace-delimited argument block written
// in a relaxed object-literal grammar (bare keys, single quotes).
package annot

import (
	"encoding/json"
	"errors"
	"strings"
)

var errMalformed = errors.New("annot: malformed argument block")

// Marker is the symbol that opens an annotation.
const Marker = '#'

// Match is one annotation found in a piece of text. Start and Length are
// byte offsets into the scanned text and cover the marker, the name, and
// the argument block when one was consumed.
type Match struct {
	Name   string
	Args   *Args
	Start  int
	Length int
}

// End returns the byte offset just past the match.
func (m Match) End() int { return m.Start + m.Length }

// Parse scans text and returns every annotation in document order. It
// never fails: a malformed argument block degrades to empty arguments,
// an unbalanced block is not consumed at all.
func Parse(text string) []Match {
	var matches []Match
	for i := 0; i < len(text); i++ {
		if text[i] != Marker {
			continue
		}
		if i > 0 && isNameByte(text[i-1]) {
			continue
		}
		j := i + 1
		for j < len(text) && isNameByte(text[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		m := Match{Name: text[i+1 : j], Args: NewArgs(), Start: i, Length: j - i}
		if j < len(text) && text[j] == '{' {
			if block, ok := scanBlock(text[j:]); ok {
				m.Length = j + len(block) - i
				if args, err := parseArgBlock(block); err == nil {
					m.Args = args
				}
			}
		}
		matches = append(matches, m)
		i = m.End() - 1
	}
	return matches
}

func isNameByte(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanBlock consumes a balanced brace block starting at text[0] == '{',
// tracking single and double quoted strings so braces inside string
// literals do not count toward the depth.
func scanBlock(text string) (string, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		b := text[i]
		if quote != 0 {
			if b == '\\' {
				i++
				continue
			}
			if b == quote {
				quote = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			quote = b
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}

// parseArgBlock rewrites the relaxed grammar to strict JSON and decodes
// the top-level object with key order preserved. Nested values decode as
// ordinary JSON values.
func parseArgBlock(block string) (*Args, error) {
	dec := json.NewDecoder(strings.NewReader(rewriteToJSON(block)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errMalformed
	}
	args := NewArgs()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errMalformed
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		args.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return args, nil
}

// rewriteToJSON quotes bare keys and converts single-quoted strings to
// double-quoted form so encoding/json can parse the block.
func rewriteToJSON(block string) string {
	var out strings.Builder
	out.Grow(len(block) + 16)
	for i := 0; i < len(block); i++ {
		b := block[i]
		switch {
		case b == '"':
			end := scanString(block, i)
			out.WriteString(block[i:end])
			i = end - 1
		case b == '\'':
			end := scanString(block, i)
			out.WriteString(requote(block[i:end]))
			i = end - 1
		case isNameByte(b) && keyStart(block, i):
			j := i
			for j < len(block) && isNameByte(block[j]) {
				j++
			}
			word := block[i:j]
			if followedByColon(block, j) {
				out.WriteByte('"')
				out.WriteString(word)
				out.WriteByte('"')
			} else {
				out.WriteString(word)
			}
			i = j - 1
		default:
			out.WriteByte(b)
		}
	}
	return out.String()
}

// scanString returns the offset just past the string literal opening at
// block[start], or len(block) when unterminated.
func scanString(block string, start int) int {
	quote := block[start]
	for i := start + 1; i < len(block); i++ {
		if block[i] == '\\' {
			i++
			continue
		}
		if block[i] == quote {
			return i + 1
		}
	}
	return len(block)
}

// requote converts a single-quoted literal (quotes included) to a JSON
// double-quoted literal.
func requote(lit string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lit, "'"), "'")
	body = strings.ReplaceAll(body, `\'`, `'`)
	var out strings.Builder
	out.WriteByte('"')
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '"':
			out.WriteString(`\"`)
		default:
			out.WriteByte(body[i])
		}
	}
	out.WriteByte('"')
	return out.String()
}

// keyStart reports whether an identifier beginning at i sits in key
// position: preceded (ignoring whitespace) by '{' or ','.
func keyStart(block string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch block[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', ',':
			return true
		default:
			return false
		}
	}
	return false
}

func followedByColon(block string, j int) bool {
	for ; j < len(block); j++ {
		switch block[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}