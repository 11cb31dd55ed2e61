package lang

// file brackets.go implements the generic bracket-matching primitive used
// by both the lexer (subscript folding) and the statement parser (block
// and group delimiting).

var bracketPairs = map[tokenClass]tokenClass{
	clsLParen: clsRParen,
	clsLBrace: clsRBrace,
	clsLBrack: clsRBrack,
}

// matchBracket scans toks forward from openIdx (which must hold an opening
// bracket token) and returns the index of its balancing closer, tracking
// nested depth of the same bracket kind. It raises a SyntaxError if the
// input is exhausted before the bracket closes.
func matchBracket(toks []token, openIdx int) (int, error) {
	open := toks[openIdx]
	close, ok := bracketPairs[open.class]
	if !ok {
		return 0, internalErrorf(open, "matchBracket called on non-bracket token %s", open.class.Human())
	}

	depth := 0
	for i := openIdx; i < len(toks); i++ {
		switch toks[i].class {
		case open.class:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, syntaxErrorAt(open, "unmatched %s; no closing %s found", open.class.Human(), close.Human())
}
