package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// positionAt converts a byte offset into a zero-based LSP position whose
// character is counted in UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))

	var line, char protocol.UInteger

	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			char = 0

			continue
		}

		char += protocol.UInteger(utf16.RuneLen(r))
	}

	return protocol.Position{Line: line, Character: char}
}

// offsetAt is the inverse of positionAt. Positions past the end of a line
// clamp to the line end.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0

	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}

		offset += next + 1
	}

	var units protocol.UInteger

	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}

		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}

	return offset
}
