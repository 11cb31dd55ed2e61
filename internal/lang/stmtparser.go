package lang

// file stmtparser.go implements C5: recursive-descent statement parsing
// over the flat []token the lexer produced. Each statement dispatches on
// its leading keyword; blocks and parenthesized conditions are delimited
// with matchBracket (brackets.go) the same way the expression parser
// delimits list literals and parenthesized sub-expressions.

// stmtStream is a cursor over the full token stream for one Module.
type stmtStream struct {
	toks []token
	pos  int
}

func (s *stmtStream) peek() token {
	return s.toks[s.pos]
}

func (s *stmtStream) next() token {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *stmtStream) expect(c tokenClass) (token, error) {
	t := s.peek()
	if !t.is(c) {
		return t, syntaxErrorAt(t, "expected %s, found %s", c.Human(), t.class.Human())
	}
	return s.next(), nil
}

// parseModule parses an entire token stream (as produced by lex) into a
// Module whose Body holds every top-level statement in source order.
func parseModule(toks []token) (*Module, error) {
	s := &stmtStream{toks: toks}
	mod := &Module{}
	if len(toks) > 0 {
		mod.Token = toks[0]
	}

	for !s.peek().is(clsEOF) {
		stmt, err := parseStmt(s)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmt)
	}

	return mod, nil
}

// parseStmt parses exactly one statement, dispatching on the leading
// keyword: Define, Print, If, While, or a bare assignment
// target is a syntax error (only Define introduces an assignment).
func parseStmt(s *stmtStream) (Stmt, error) {
	t := s.peek()

	switch t.class {
	case clsKeywordDefine:
		return parseAssign(s)
	case clsKeywordPrint:
		return parsePrint(s)
	case clsKeywordIf:
		return parseIf(s)
	case clsKeywordWhile:
		return parseWhile(s)
	default:
		return nil, syntaxErrorAt(t, "expected a statement ('Define', 'Print', 'If', or 'While'), found %s", t.class.Human())
	}
}

// parseAssign parses "Define" <target> "as" <value> ";" .
func parseAssign(s *stmtStream) (Stmt, error) {
	kw := s.next() // Define

	targetToks, err := takeStmtTokensUntil(s, clsKeywordAs)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(clsKeywordAs); err != nil {
		return nil, err
	}
	target, err := parseExpr(targetToks)
	if err != nil {
		return nil, err
	}
	switch target.(type) {
	case *Name, *Subscript:
	default:
		return nil, syntaxErrorAt(kw, "'Define' target must be a name or a list index, not a %T", target)
	}

	valueToks, err := takeStmtTokensUntil(s, clsSemi)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(clsSemi); err != nil {
		return nil, err
	}
	value, err := parseExpr(valueToks)
	if err != nil {
		return nil, err
	}

	return &Assign{Token: kw, Target: target, Value: value}, nil
}

// parsePrint parses "Print" <expr-tokens-up-to-";"> ";" .
func parsePrint(s *stmtStream) (Stmt, error) {
	kw := s.next() // Print

	argToks, err := takeStmtTokensUntil(s, clsSemi)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(clsSemi); err != nil {
		return nil, err
	}
	arg, err := parseExpr(argToks)
	if err != nil {
		return nil, err
	}
	return &Print{Token: kw, Arg: arg}, nil
}

// parseIf parses "If" "(" Cond ")" "{" Then "}" (Else ( If-stmt | "{" Else "}" ))? .
// An "Else If" is represented by nesting a single *If statement as the sole
// element of the outer If's Else slice; a final plain "Else" wraps a
// brace-delimited block as usual.
func parseIf(s *stmtStream) (Stmt, error) {
	kw := s.next() // If

	cond, err := parseParenCond(s)
	if err != nil {
		return nil, err
	}
	then, err := parseBlock(s)
	if err != nil {
		return nil, err
	}

	node := &If{Token: kw, Cond: cond, Then: then}

	if s.peek().is(clsKeywordElse) {
		s.next() // Else
		if s.peek().is(clsKeywordIf) {
			elseIf, err := parseIf(s)
			if err != nil {
				return nil, err
			}
			node.Else = []Stmt{elseIf}
		} else {
			elseBlock, err := parseBlock(s)
			if err != nil {
				return nil, err
			}
			node.Else = elseBlock
		}
	}

	return node, nil
}

// parseWhile parses "While" "(" Cond ")" "{" Body "}" .
func parseWhile(s *stmtStream) (Stmt, error) {
	kw := s.next() // While
	cond, err := parseParenCond(s)
	if err != nil {
		return nil, err
	}
	body, err := parseBlock(s)
	if err != nil {
		return nil, err
	}
	return &While{Token: kw, Cond: cond, Body: body}, nil
}

// parseParenCond consumes a "(" Expr ")" condition and returns the parsed
// Expr, leaving the stream positioned just after the ')'.
func parseParenCond(s *stmtStream) (Expr, error) {
	if _, err := s.expect(clsLParen); err != nil {
		return nil, err
	}
	closeIdx, err := matchBracket(s.toks, s.pos-1)
	if err != nil {
		return nil, err
	}
	condToks := s.toks[s.pos:closeIdx]
	s.pos = closeIdx + 1
	return parseExpr(condToks)
}

// parseBlock consumes a "{" Stmt* "}" block and returns its statements in
// source order.
func parseBlock(s *stmtStream) ([]Stmt, error) {
	if _, err := s.expect(clsLBrace); err != nil {
		return nil, err
	}
	var body []Stmt
	for !s.peek().is(clsRBrace) {
		if s.peek().is(clsEOF) {
			return nil, syntaxErrorAt(s.peek(), "unmatched '{'; no closing '}' found")
		}
		stmt, err := parseStmt(s)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	s.next() // '}'
	return body, nil
}

// takeStmtTokensUntil consumes tokens from s up to (but not including) the
// first occurrence of stop at bracket depth zero, the statement-level
// analogue of exprparser.go's takeBalancedUntil.
func takeStmtTokensUntil(s *stmtStream, stop tokenClass) ([]token, error) {
	var out []token
	depth := 0
	for {
		t := s.peek()
		if t.is(clsEOF) {
			return nil, syntaxErrorAt(t, "unexpected end of input, expected %s", stop.Human())
		}
		if depth == 0 && t.is(stop) {
			return out, nil
		}
		switch t.class {
		case clsLParen, clsLBrack, clsLBrace:
			depth++
		case clsRParen, clsRBrack, clsRBrace:
			depth--
		}
		out = append(out, t)
		s.next()
	}
}
