package lang

import (
	"fmt"
	"regexp"
	"strings"
)

// file pylite.go implements the PyLite-direction half of C2-C5: PyLite
// source text -> the same AST node set ast.go defines for ClariPy. Per
// design, PyLite parsing is just
// the host language's own introspectable `ast` module (python_to_lang.py
// monkey-patches __str__ on ast.Assign/ast.Name/... directly); since Go has
// no equivalent host AST to reuse, this file is a small purpose-built
// recursive-descent parser for the PyLite subset instead, producing
// *Module so the rest of the pipeline (C7 evaluate, C8 print, C9 display
// tree) is unaware which surface syntax produced the AST.
//
// PyLite reuses exprparser.go's Shunting-Yard/RPN machinery unchanged: the
// precedence table is shared between both surface syntaxes.
// What differs is tokenization (symbolic operators only, no English-phrase
// substitution) and statement shape (colon-plus-indentation blocks instead
// of brace blocks).

var pyliteLinePattern = regexp.MustCompile(
	`-?[0-9]*\.[0-9]+` +
		`|-?[0-9]+` +
		`|\w+` +
		`|["][ -~]*["]|['][ -~]*[']` +
		`|!=|<=|>=|//` +
		`|[<>+\-*/,()\[\]%:]` +
		`|=+`,
)

var pyliteKeywords = map[string]tokenClass{
	"if":     clsKeywordIf,
	"elif":   clsKeywordIf,
	"else":   clsKeywordElse,
	"while":  clsKeywordWhile,
	"and":    clsKeywordAnd,
	"or":     clsKeywordOr,
	"print":  clsKeywordPrint,
	"True":   clsName, // literal-valued identifiers, handled specially below
	"False":  clsName,
}

// pyColon and the block-structure pseudo-classes are local to this file;
// they never appear in a ClariPy token stream.
var (
	pyColon  = tokenClass{"PYCOLON", "':'", 0}
	pyIndent = tokenClass{"PYINDENT", "indent", 0}
	pyDedent = tokenClass{"PYDEDENT", "dedent", 0}
	pyNL     = tokenClass{"PYNEWLINE", "newline", 0}
)

// ParsePyLite parses a complete PyLite source text into a Module.
func ParsePyLite(src string) (*Module, error) {
	toks, err := pyliteTokenize(src)
	if err != nil {
		return nil, err
	}
	s := &stmtStream{toks: toks}
	mod := &Module{}
	if len(toks) > 0 {
		mod.Token = toks[0]
	}
	for !s.peek().is(clsEOF) {
		if s.peek().is(pyNL) {
			s.next()
			continue
		}
		stmt, err := parsePyliteStmt(s)
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmt)
	}
	return mod, nil
}

// pyliteTokenize turns PyLite source into a flat token stream, inserting
// PYINDENT/PYDEDENT/PYNEWLINE pseudo-tokens the way Python's own tokenizer
// does, so the statement parser below can treat blocks uniformly with
// ClariPy's brace-delimited ones (matchBracket is reused for `(`/`[`
// grouping within an expression; blocks instead track an indent stack).
func pyliteTokenize(src string) ([]token, error) {
	lines := strings.Split(src, "\n")

	var toks []token
	indents := []int{0}

	for lineNo, raw := range lines {
		trimmed := strings.TrimRight(raw, "\r")
		stripped := strings.TrimLeft(trimmed, " \t")
		if strings.TrimSpace(stripped) == "" {
			continue // blank line, no NEWLINE emitted
		}

		indent := len(trimmed) - len(stripped)

		if indent > indents[len(indents)-1] {
			indents = append(indents, indent)
			toks = append(toks, token{class: pyIndent, line: lineNo + 1, pos: 1, fullLine: trimmed})
		}
		for indent < indents[len(indents)-1] {
			indents = indents[:len(indents)-1]
			toks = append(toks, token{class: pyDedent, line: lineNo + 1, pos: 1, fullLine: trimmed})
		}
		if indent != indents[len(indents)-1] {
			return nil, syntaxErrorAt(token{line: lineNo + 1, pos: 1, fullLine: trimmed}, "inconsistent indentation")
		}

		matches := pyliteLinePattern.FindAllStringIndex(trimmed, -1)
		for _, m := range matches {
			text := trimmed[m[0]:m[1]]
			cls, err := classifyPylite(text)
			if err != nil {
				return nil, syntaxErrorAt(token{lexeme: text, line: lineNo + 1, pos: m[0] + 1, fullLine: trimmed}, "%s", err.Error())
			}
			toks = append(toks, token{
				lexeme:   lexemeForPylite(text, cls),
				class:    cls,
				line:     lineNo + 1,
				pos:      m[0] + 1,
				fullLine: trimmed,
			})
		}
		toks = append(toks, token{class: pyNL, line: lineNo + 1, pos: len(trimmed) + 1, fullLine: trimmed})
	}

	for len(indents) > 1 {
		indents = indents[:len(indents)-1]
		toks = append(toks, token{class: pyDedent, line: len(lines) + 1, pos: 1})
	}
	toks = append(toks, token{class: clsEOF, line: len(lines) + 1, pos: 1})

	return toks, nil
}

func classifyPylite(lexeme string) (tokenClass, error) {
	if lexeme == ":" {
		return pyColon, nil
	}
	if cls, ok := pyliteKeywords[lexeme]; ok {
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

func lexemeForPylite(raw string, cls tokenClass) string {
	if cls.id == clsStrLit.id && len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// parsePyliteStmt parses one PyLite statement, dispatching on the leading
// token the same way parseStmt does for ClariPy, but with colon+indent
// blocks instead of braces and bare "=" instead of "Define ... as ...".
func parsePyliteStmt(s *stmtStream) (Stmt, error) {
	t := s.peek()

	switch t.class {
	case clsKeywordIf:
		return parsePyliteIf(s)
	case clsKeywordWhile:
		return parsePyliteWhile(s)
	case clsKeywordPrint:
		return parsePylitePrint(s)
	case clsName:
		return parsePyliteAssign(s)
	default:
		return nil, syntaxErrorAt(t, "expected a statement, found %s", t.class.Human())
	}
}

func parsePyliteAssign(s *stmtStream) (Stmt, error) {
	start := s.peek()
	targetToks, err := takeStmtTokensUntil(s, clsAssign)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(clsAssign); err != nil {
		return nil, err
	}
	target, err := parseExpr(targetToks)
	if err != nil {
		return nil, err
	}
	switch target.(type) {
	case *Name, *Subscript:
	default:
		return nil, syntaxErrorAt(start, "assignment target must be a name or a list index")
	}

	valueToks, err := takeStmtTokensUntil(s, pyNL)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(pyNL); err != nil {
		return nil, err
	}
	value, err := parseExpr(valueToks)
	if err != nil {
		return nil, err
	}
	return &Assign{Token: start, Target: target, Value: value}, nil
}

func parsePylitePrint(s *stmtStream) (Stmt, error) {
	kw := s.next() // print
	if _, err := s.expect(clsLParen); err != nil {
		return nil, err
	}
	closeIdx, err := matchBracket(s.toks, s.pos-1)
	if err != nil {
		return nil, err
	}
	argToks := s.toks[s.pos:closeIdx]
	s.pos = closeIdx + 1
	arg, err := parseExpr(argToks)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(pyNL); err != nil {
		return nil, err
	}
	return &Print{Token: kw, Arg: arg}, nil
}

func parsePyliteIf(s *stmtStream) (Stmt, error) {
	kw := s.next() // if or elif
	cond, err := parsePyliteHeaderExpr(s)
	if err != nil {
		return nil, err
	}
	then, err := parsePyliteBlock(s)
	if err != nil {
		return nil, err
	}
	node := &If{Token: kw, Cond: cond, Then: then}

	if s.peek().is(clsKeywordIf) && s.peek().lexeme == "elif" {
		elseIf, err := parsePyliteIf(s)
		if err != nil {
			return nil, err
		}
		node.Else = []Stmt{elseIf}
	} else if s.peek().is(clsKeywordElse) {
		s.next() // else
		if _, err := s.expect(pyColon); err != nil {
			return nil, err
		}
		if _, err := s.expect(pyNL); err != nil {
			return nil, err
		}
		elseBlock, err := parsePyliteBlock(s)
		if err != nil {
			return nil, err
		}
		node.Else = elseBlock
	}

	return node, nil
}

func parsePyliteWhile(s *stmtStream) (Stmt, error) {
	kw := s.next() // while
	cond, err := parsePyliteHeaderExpr(s)
	if err != nil {
		return nil, err
	}
	body, err := parsePyliteBlock(s)
	if err != nil {
		return nil, err
	}
	return &While{Token: kw, Cond: cond, Body: body}, nil
}

// parsePyliteHeaderExpr consumes the condition expression of an if/elif/
// while header, up to (and consuming) the trailing ":" and NEWLINE.
func parsePyliteHeaderExpr(s *stmtStream) (Expr, error) {
	exprToks, err := takeStmtTokensUntil(s, pyColon)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(pyColon); err != nil {
		return nil, err
	}
	if _, err := s.expect(pyNL); err != nil {
		return nil, err
	}
	return parseExpr(exprToks)
}

// parsePyliteBlock consumes a PYINDENT, statements until the matching
// PYDEDENT, then the PYDEDENT itself.
func parsePyliteBlock(s *stmtStream) ([]Stmt, error) {
	if _, err := s.expect(pyIndent); err != nil {
		return nil, err
	}
	var body []Stmt
	for !s.peek().is(pyDedent) {
		if s.peek().is(clsEOF) {
			return nil, syntaxErrorAt(s.peek(), "unexpected end of input inside indented block")
		}
		if s.peek().is(pyNL) {
			s.next()
			continue
		}
		stmt, err := parsePyliteStmt(s)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	s.next() // PYDEDENT
	return body, nil
}

// PrintPyLite renders mod as PyLite source text: Python-flavored syntax
// using "=" assignment, colon-plus-four-space-indent blocks, and a
// print(...) call, the mirror image of PrintClariPy.
func PrintPyLite(mod *Module) string {
	var b strings.Builder
	for _, stmt := range mod.Body {
		b.WriteString(printPyliteStmt(stmt, 0))
	}
	return b.String()
}

func printPyliteStmt(s Stmt, indent int) string {
	pad := strings.Repeat(indentUnit, indent)
	switch v := s.(type) {
	case *Assign:
		return fmt.Sprintf("%s%s = %s\n", pad, printPyliteExpr(v.Target), printPyliteExpr(v.Value))
	case *Print:
		return fmt.Sprintf("%sprint(%s)\n", pad, printPyliteExpr(v.Arg))
	case *While:
		var b strings.Builder
		fmt.Fprintf(&b, "%swhile %s:\n", pad, printPyliteExpr(v.Cond))
		for _, stmt := range v.Body {
			b.WriteString(printPyliteStmt(stmt, indent+1))
		}
		return b.String()
	case *If:
		var b strings.Builder
		fmt.Fprintf(&b, "%sif %s:\n", pad, printPyliteExpr(v.Cond))
		for _, stmt := range v.Then {
			b.WriteString(printPyliteStmt(stmt, indent+1))
		}
		if len(v.Else) == 1 {
			if elseIf, ok := v.Else[0].(*If); ok {
				nested := printPyliteStmt(elseIf, indent)
				b.WriteString(pad + "el" + strings.TrimPrefix(nested, pad))
				return b.String()
			}
		}
		if len(v.Else) > 0 {
			fmt.Fprintf(&b, "%selse:\n", pad)
			for _, stmt := range v.Else {
				b.WriteString(printPyliteStmt(stmt, indent+1))
			}
		}
		return b.String()
	default:
		return fmt.Sprintf("%s<unknown statement %T>\n", pad, s)
	}
}

func printPyliteExpr(e Expr) string {
	switch v := e.(type) {
	case *Num:
		return v.Value.String()
	case *Str:
		return fmt.Sprintf("%q", v.Value)
	case *Bool:
		return boolLiteralString(v.Value)
	case *Name:
		return v.Ident
	case *ListLit:
		parts := make([]string, len(v.Elems))
		for i, elem := range v.Elems {
			parts[i] = printPyliteExpr(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Subscript:
		return fmt.Sprintf("%s[%s]", printPyliteExpr(v.Target), printPyliteExpr(v.Index))
	case *BinOp:
		return fmt.Sprintf("(%s %s %s)", printPyliteExpr(v.Left), v.Op, printPyliteExpr(v.Right))
	case *BoolOp:
		return fmt.Sprintf("(%s %s %s)", printPyliteExpr(v.Left), v.Op, printPyliteExpr(v.Right))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}
