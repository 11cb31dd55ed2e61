package lang

import (
	"fmt"
	"strings"
)

// file lexer.go implements C3: raw string tokens (with byte offsets) -> a
// flat []token with line/column/full-source-line info attached, keyword
// classification, and subscript folding. Grounded on the token/tokenClass
// shape in internal/tunascript/lexer.go, generalized from that file's
// literal-rune matchRule table (irrelevant here - C2 already produced typed
// lexeme strings) to a simple lexeme->class classification step.

// punctClasses maps single- and multi-character punctuation lexemes
// produced by the tokenizer's masterPattern to their tokenClass.
var punctClasses = map[string]tokenClass{
	"(": clsLParen, ")": clsRParen,
	"{": clsLBrace, "}": clsRBrace,
	"[": clsLBrack, "]": clsRBrack,
	",": clsComma, ";": clsSemi,
	"=": clsAssign,
	"+": clsPlus, "-": clsMinus,
	"*": clsStar, "/": clsSlash, "//": clsDSlash, "%": clsPercent,
	"<": clsLt, "<=": clsLe, ">": clsGt, ">=": clsGe,
	"==": clsEq, "!=": clsNeq,
}

// lex classifies every raw token against src (the post-substitution source
// text the raw tokens' offsets are relative to, as returned by
// tokenizeSource/tokenizeFile) and folds any Name immediately followed by
// "[" into a single Subscript-bearing run handled later by the statement/
// expression parsers - at the token-stream level, folding here only means
// computing line/pos/fullLine for each token; subscript chains are left as
// plain Name, LBrack, ..., RBrack runs for exprparser.parsePrimary and
// parseListLit's takeBalancedUntil to consume structurally. This matches
// the decision to fold subscripts at parse time rather than lex time.
func lex(raws []rawToken, src string) ([]token, error) {
	lineStarts := computeLineStarts(src)

	toks := make([]token, 0, len(raws)+1)
	for _, r := range raws {
		line, col := lineAndCol(lineStarts, r.offset)
		fullLine := sourceLine(src, lineStarts, line)

		cls, err := classify(r.text)
		if err != nil {
			return nil, syntaxErrorAt(token{lexeme: r.text, line: line, pos: col, fullLine: fullLine}, "%s", err.Error())
		}

		toks = append(toks, token{
			lexeme:   lexemeFor(r.text, cls),
			class:    cls,
			line:     line,
			pos:      col,
			fullLine: fullLine,
		})
	}

	eofLine, eofCol := 1, 1
	if len(lineStarts) > 0 {
		eofLine = len(lineStarts)
		eofCol = len(src) - lineStarts[len(lineStarts)-1] + 1
	}
	toks = append(toks, token{class: clsEOF, line: eofLine, pos: eofCol})

	return toks, nil
}

// classify determines the tokenClass of one raw lexeme: a keyword, a
// quoted string, a number, punctuation/operator, or (falling through) a
// plain identifier.
func classify(lexeme string) (tokenClass, error) {
	if cls, ok := keywords[lexeme]; ok {
		return cls, nil
	}
	if cls, ok := punctClasses[lexeme]; ok {
		return cls, nil
	}
	if len(lexeme) >= 2 && (lexeme[0] == '"' || lexeme[0] == '\'') {
		return clsStrLit, nil
	}
	if isNumeric(lexeme) {
		return clsNumLit, nil
	}
	if strings.Trim(lexeme, "=") == "" {
		return tokenClass{}, fmt.Errorf("unsupported assignment run %q", lexeme)
	}
	return clsName, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	sawDigit := false
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			sawDigit = true
			continue
		}
		if c == '.' {
			continue
		}
		return false
	}
	return sawDigit
}

// lexemeFor strips the surrounding quote characters from a string literal
// so token.lexeme holds the string's content, matching how Str.Value is
// used directly by the evaluator and printer without further unquoting.
func lexemeFor(raw string, cls tokenClass) string {
	if cls.id == clsStrLit.id && len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// computeLineStarts returns the byte offset of the first character of each
// line in src (1-indexed conceptually: lineStarts[0] is line 1's start).
func computeLineStarts(src string) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAndCol converts a byte offset into a 1-indexed (line, column) pair
// using a precomputed table of line-start offsets.
func lineAndCol(lineStarts []int, offset int) (line, col int) {
	line = 1
	for i, start := range lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	col = offset - lineStarts[line-1] + 1
	return line, col
}

// sourceLine returns the full text of the given 1-indexed line, with any
// trailing carriage return stripped, for use in SyntaxError's cursor
// display.
func sourceLine(src string, lineStarts []int, line int) string {
	if line < 1 || line > len(lineStarts) {
		return ""
	}
	start := lineStarts[line-1]
	end := len(src)
	if line < len(lineStarts) {
		end = lineStarts[line] - 1
	}
	if start > end || start > len(src) {
		return ""
	}
	if end > len(src) {
		end = len(src)
	}
	return strings.TrimRight(src[start:end], "\r")
}
