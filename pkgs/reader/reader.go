// Package reader turns raw source text into an indentation-aware stream
// of logical lines: blank lines and comment-only lines are dropped,
// tabs are expanded, and each line is reduced to (stripped text,
// indent, line number). The reader has no notion of where the text
// came from -- file loading is an external collaborator that merely
// supplies the string.
package reader

import "strings"

const tabSize = 8

// Line is one logical line of source: its content with leading
// indentation stripped, the indent width, and its 1-based line number
// in the original source.
type Line struct {
	Text   string
	Indent int
	LineNo int
}

// Reader walks the logical lines of a source in order, honoring a
// single-slot pushback (see Pushback) that replays one line.
type Reader struct {
	Filename string
	lines    []Line
	pos      int
	pending  *Line
}

// New splits text into logical lines, dropping blank lines and lines
// whose first non-space character begins a comment ("#" or "//").
func New(filename, text string) *Reader {
	r := &Reader{Filename: filename}
	for i, raw := range strings.Split(text, "\n") {
		expanded := expandTabs(raw)
		trimmed := strings.TrimLeft(expanded, " ")
		indent := len(expanded) - len(trimmed)
		stripped := strings.TrimRight(trimmed, " \t\r")
		if stripped == "" {
			continue
		}
		if strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "//") {
			continue
		}
		r.lines = append(r.lines, Line{Text: stripped, Indent: indent, LineNo: i + 1})
	}
	return r
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, ch := range s {
		if ch == '\t' {
			spaces := tabSize - (col % tabSize)
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		b.WriteRune(ch)
		col++
	}
	return b.String()
}

// NextLine returns the next stored line whose indent exceeds prevIndent
// and consumes it. If the next line's indent does not exceed prevIndent
// (or there are no more lines), it signals end-of-block by returning ok
// == false without consuming anything; indent/lineNo still report what
// was peeked (-1 / the last line's number, past end of input).
func (r *Reader) NextLine(prevIndent int) (line Line, ok bool) {
	if r.pending != nil {
		l := *r.pending
		r.pending = nil
		return l, true
	}
	if r.pos >= len(r.lines) {
		lastNo := 0
		if len(r.lines) > 0 {
			lastNo = r.lines[len(r.lines)-1].LineNo
		}
		return Line{Indent: -1, LineNo: lastNo}, false
	}
	next := r.lines[r.pos]
	if next.Indent <= prevIndent {
		return Line{Indent: next.Indent, LineNo: next.LineNo}, false
	}
	r.pos++
	return next, true
}

// Pushback stashes l so the next NextLine call returns it again,
// regardless of prevIndent (the single pushback slot always wins).
func (r *Reader) Pushback(l Line) {
	r.pending = &l
}
