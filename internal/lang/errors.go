package lang

import "fmt"

// file errors.go contains the error kinds produced by the language
// pipeline. They are fatal for the Module being processed; none of them
// are caught or retried internally.

// SyntaxError is raised by the tokenizer, lexer, expression parser, and
// statement parser for any malformed input: unmatched brackets, an unknown
// statement keyword, a missing ';', or a Define with a non-assignable
// target.
type SyntaxError struct {
	message  string
	line     int
	pos      int
	lexeme   string
	fullLine string
}

func (e SyntaxError) Error() string {
	if e.line == 0 {
		return fmt.Sprintf("syntax error: %s", e.message)
	}
	return fmt.Sprintf("syntax error: around line %d, char %d: %s", e.line, e.pos, e.message)
}

// FullMessage shows the error text along with the offending source line and
// a cursor pointing at the problem column, if position info is available.
func (e SyntaxError) FullMessage() string {
	msg := e.Error()
	if e.line != 0 && e.fullLine != "" {
		msg = e.SourceLineWithCursor() + "\n" + msg
	}
	return msg
}

// SourceLineWithCursor returns the offending source line with a cursor line
// underneath pointing at the error column. Returns "" if no source line was
// recorded for the error.
func (e SyntaxError) SourceLineWithCursor() string {
	if e.fullLine == "" {
		return ""
	}
	cursor := ""
	for i := 0; i < e.pos-1; i++ {
		cursor += " "
	}
	return e.fullLine + "\n" + cursor + "^"
}

func syntaxErrorAt(t token, format string, args ...interface{}) SyntaxError {
	return SyntaxError{
		message:  fmt.Sprintf(format, args...),
		line:     t.line,
		pos:      t.pos,
		lexeme:   t.lexeme,
		fullLine: t.fullLine,
	}
}

// NameError is raised when a Name expression references a variable absent
// from the environment.
type NameError struct {
	Name string
	line int
	pos  int
}

func (e NameError) Error() string {
	if e.line == 0 {
		return fmt.Sprintf("name error: %q is not defined", e.Name)
	}
	return fmt.Sprintf("name error: around line %d, char %d: %q is not defined", e.line, e.pos, e.Name)
}

func nameErrorAt(t token, name string) NameError {
	return NameError{Name: name, line: t.line, pos: t.pos}
}

// IndexError is raised by Subscript read/write when the index is out of
// range for the target list.
type IndexError struct {
	Index int
	Len   int
	line  int
	pos   int
}

func (e IndexError) Error() string {
	msg := fmt.Sprintf("index error: index %d out of range for list of length %d", e.Index, e.Len)
	if e.line == 0 {
		return msg
	}
	return fmt.Sprintf("index error: around line %d, char %d: index %d out of range for list of length %d", e.line, e.pos, e.Index, e.Len)
}

func indexErrorAt(t token, index, length int) IndexError {
	return IndexError{Index: index, Len: length, line: t.line, pos: t.pos}
}

// TypeError is raised when an arithmetic or comparison operator is applied
// to an unsupported combination of operand types.
type TypeError struct {
	Op   string
	Left ValueType
	Right ValueType
	line int
	pos  int
}

func (e TypeError) Error() string {
	msg := fmt.Sprintf("type error: operator %q is not defined for %s and %s", e.Op, e.Left, e.Right)
	if e.line == 0 {
		return msg
	}
	return fmt.Sprintf("type error: around line %d, char %d: operator %q is not defined for %s and %s", e.line, e.pos, e.Op, e.Left, e.Right)
}

func typeErrorAt(t token, op string, left, right ValueType) TypeError {
	return TypeError{Op: op, Left: left, Right: right, line: t.line, pos: t.pos}
}

// InternalError indicates the AST violated one of the invariants in
// unreachable if the parsers are correct.
type InternalError struct {
	message string
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.message)
}

func internalErrorf(t token, format string, args ...interface{}) InternalError {
	return InternalError{message: fmt.Sprintf("%s (near line %d, char %d)", fmt.Sprintf(format, args...), t.line, t.pos)}
}
