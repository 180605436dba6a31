// Package patchtext provides an edit buffer over an immutable source text.
//
// Edits are keyed by byte offsets into the original text, so several
// independent buffers over the same source can accumulate different edit
// sets without affecting each other. Rendering applies all edits in offset
// order, regardless of registration order.
package patchtext

import (
	"fmt"
	"sort"
	"strings"
)

// Buffer accumulates non-overlapping edits against an immutable source
// string. The zero value is not usable; construct with New.
type Buffer struct {
	src      string
	edits    []edit
	appended []string
}

type edit struct {
	start, end int
	text       string
}

// New creates a Buffer over src.
func New(src string) *Buffer {
	return &Buffer{src: src}
}

// Len returns the length of the original source in bytes.
func (b *Buffer) Len() int {
	return len(b.src)
}

// Replace schedules the half-open original range [start, end) to be
// replaced with text. It fails when the range is out of bounds or overlaps
// a previously scheduled edit.
func (b *Buffer) Replace(start, end int, text string) error {
	return b.add(edit{start: start, end: end, text: text})
}

// Remove schedules the half-open original range [start, end) for deletion.
func (b *Buffer) Remove(start, end int) error {
	return b.add(edit{start: start, end: end})
}

// Append schedules text to be emitted after the end of the source.
// Multiple appends are emitted in registration order.
func (b *Buffer) Append(text string) {
	b.appended = append(b.appended, text)
}

// SliceOriginal returns the literal source text of the half-open range
// [start, end), ignoring any scheduled edits.
func (b *Buffer) SliceOriginal(start, end int) (string, error) {
	if start < 0 || end > len(b.src) || start > end {
		return "", fmt.Errorf("patchtext: slice [%d, %d) out of range (source is %d bytes)", start, end, len(b.src))
	}

	return b.src[start:end], nil
}

// Render applies all scheduled edits in original-offset order and returns
// the final text. Appended fragments follow the edited source.
func (b *Buffer) Render() string {
	ordered := make([]edit, len(b.edits))
	copy(ordered, b.edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start < ordered[j].start
	})

	var out strings.Builder

	cursor := 0
	for _, e := range ordered {
		out.WriteString(b.src[cursor:e.start])
		out.WriteString(e.text)
		cursor = e.end
	}

	out.WriteString(b.src[cursor:])

	for _, text := range b.appended {
		out.WriteString(text)
	}

	return out.String()
}

func (b *Buffer) add(e edit) error {
	if e.start < 0 || e.end > len(b.src) || e.start > e.end {
		return fmt.Errorf("patchtext: edit [%d, %d) out of range (source is %d bytes)", e.start, e.end, len(b.src))
	}

	for _, prev := range b.edits {
		if overlaps(prev, e) {
			return fmt.Errorf("patchtext: edit [%d, %d) overlaps scheduled edit [%d, %d)", e.start, e.end, prev.start, prev.end)
		}
	}

	b.edits = append(b.edits, e)

	return nil
}

// overlaps reports whether two edits intersect. Empty-range edits
// (insertions) at a shared boundary do not count as overlapping.
func overlaps(a, e edit) bool {
	if a.start == a.end || e.start == e.end {
		return a.start < e.end && e.start < a.end || a.start == e.start && a.end == e.end
	}

	return a.start < e.end && e.start < a.end
}
