package parser

import "fmt"

// ParserError is a fatal syntactic error: a missing token, a malformed
// filter, a variant header whose declared default was never matched,
// and so on. It always carries enough source position to reproduce the
// spec's rendering: "msg: 'line' (file:linenum)".
type ParserError struct {
	Msg      string
	Line     string
	Filename string
	LineNum  int
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s: '%s' (%s:%d)", e.Msg, e.Line, e.Filename, e.LineNum)
}

// LexerError is the lexical subtype of ParserError: an unexpected
// character or malformed operator fragment surfaced by pkgs/lexer.
type LexerError struct {
	ParserError
}

// MissingIncludeError reports an "include PATH" whose target does not
// exist or is not a regular file.
type MissingIncludeError struct {
	ParserError
}

func newParserError(filename string, lineNum int, line, format string, args ...any) *ParserError {
	return &ParserError{
		Msg:      fmt.Sprintf(format, args...),
		Line:     line,
		Filename: filename,
		LineNum:  lineNum,
	}
}

func newLexerError(filename string, lineNum int, line, format string, args ...any) *LexerError {
	return &LexerError{ParserError: *newParserError(filename, lineNum, line, format, args...)}
}

func newMissingIncludeError(filename string, lineNum int, line, path string) *MissingIncludeError {
	return &MissingIncludeError{ParserError: *newParserError(filename, lineNum, line, "missing include %q", path)}
}
