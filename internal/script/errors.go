package script

import (
	"fmt"
	"strings"
)

// Position is a 1-based line/column source coordinate paired with the byte
// offset it was derived from.
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// PositionAt derives the 1-based line/column coordinates of a byte offset.
func PositionAt(src string, offset int) Position {
	if offset < 0 {
		offset = 0
	}

	if offset > len(src) {
		offset = len(src)
	}

	line, col := 1, 1

	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return Position{Offset: offset, Line: line, Col: col}
}

// LexError reports an unrecoverable scanning failure.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Msg)
}

// ParseError reports an unrecoverable parse failure.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

// WrapErrorWithSource augments lex/parse errors with a caret-annotated
// snippet of src. Other errors are returned unchanged.
func WrapErrorWithSource(err error, name, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEX ERROR", name, e.Pos, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", name, e.Pos, e.Msg))
	default:
		return err
	}
}

// snippet renders the offending line with one line of context on each side
// and a caret under the 1-based column. Coordinates are clamped so a stale
// position cannot break rendering.
func snippet(src, header, name string, pos Position, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}

	line := pos.Line
	if line < 1 {
		line = 1
	}

	if line > len(lines) {
		line = len(lines)
	}

	col := pos.Col
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}

	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}

	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))

	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}

	return b.String()
}
