// Package lang implements the ClariPy/PyLite language pipeline: tokenizer,
// lexer, expression and statement parsers, AST, evaluator, pretty-printer,
// and display-tree builder.
package lang

// tokenClass identifies the kind of a token. It carries the left binding
// power (lbp) used by the Shunting-Yard precedence table in exprparser.go;
// classes that are not operators simply carry a zero lbp.
type tokenClass struct {
	id    string
	human string
	lbp   int
}

func (c tokenClass) String() string {
	return c.id
}

// Human returns a human-readable name of the token class, suitable for use
// in syntax error messages.
func (c tokenClass) Human() string {
	return c.human
}

var (
	clsKeywordDefine = tokenClass{"DEFINE", "'Define'", 0}
	clsKeywordWhile  = tokenClass{"WHILE", "'While'", 0}
	clsKeywordIf     = tokenClass{"IF", "'If'", 0}
	clsKeywordElse   = tokenClass{"ELSE", "'Else'", 0}
	clsKeywordAs     = tokenClass{"AS", "'as'", 0}
	clsKeywordAnd    = tokenClass{"AND", "'and'", precAndOr}
	clsKeywordOr     = tokenClass{"OR", "'or'", precAndOr}
	clsKeywordPrint  = tokenClass{"PRINT", "'Print'", 0}

	clsLParen = tokenClass{"LPAREN", "'('", 0}
	clsRParen = tokenClass{"RPAREN", "')'", 0}
	clsLBrace = tokenClass{"LBRACE", "'{'", 0}
	clsRBrace = tokenClass{"RBRACE", "'}'", 0}
	clsLBrack = tokenClass{"LBRACK", "'['", 0}
	clsRBrack = tokenClass{"RBRACK", "']'", 0}
	clsComma  = tokenClass{"COMMA", "','", 0}
	clsSemi   = tokenClass{"SEMI", "';'", 0}
	clsAssign = tokenClass{"ASSIGN", "'='", 0}

	clsPlus    = tokenClass{"PLUS", "'+'", precAddSub}
	clsMinus   = tokenClass{"MINUS", "'-'", precAddSub}
	clsStar    = tokenClass{"STAR", "'*'", precMulDiv}
	clsSlash   = tokenClass{"SLASH", "'/'", precMulDiv}
	clsDSlash  = tokenClass{"DSLASH", "'//'", precMulDiv}
	clsPercent = tokenClass{"PERCENT", "'%'", precMulDiv}

	clsLt  = tokenClass{"LT", "'<'", precCompare}
	clsLe  = tokenClass{"LE", "'<='", precCompare}
	clsGt  = tokenClass{"GT", "'>'", precCompare}
	clsGe  = tokenClass{"GE", "'>='", precCompare}
	clsEq  = tokenClass{"EQ", "'=='", precCompare}
	clsNeq = tokenClass{"NEQ", "'!='", precCompare}

	clsNumLit = tokenClass{"NUM", "number", 0}
	clsStrLit = tokenClass{"STR", "string", 0}
	clsName   = tokenClass{"NAME", "identifier", 0}

	clsEOF = tokenClass{"EOF", "end of input", 0}
)

// keyword set. English comparison phrases are not keywords; the
// tokenizer substitutes them for operator lexemes before lexing ever sees
// them.
var keywords = map[string]tokenClass{
	"Define": clsKeywordDefine,
	"While":  clsKeywordWhile,
	"If":     clsKeywordIf,
	"Else":   clsKeywordElse,
	"as":     clsKeywordAs,
	"and":    clsKeywordAnd,
	"or":     clsKeywordOr,
	"Print":  clsKeywordPrint,
}

// token is a single lexical unit with its source position, used both for
// evaluation-time error reporting and for round-tripping literal text
// (number/string forms) exactly as written.
type token struct {
	lexeme   string
	class    tokenClass
	line     int
	pos      int
	fullLine string
}

func (t token) is(c tokenClass) bool {
	return t.class.id == c.id
}
