package lang

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// file printer.go implements C8: rendering an AST back to ClariPy surface
// syntax. Grounded on original_source/modules/python_to_lang.py's
// ast.*.__str__ monkey-patches (Define/Name/Constant/BinOp/operator
// __str__), generalized here into a single dispatch-by-node-kind function
// since Go has no equivalent of monkey-patching
// another type's __str__.
//
// printWidth is the column at which a Print statement's string-literal
// argument is wrapped when it would otherwise produce an unreasonably long
// line, the same wrapping role rosed.Edit(...).Wrap(...) plays for
// tunascript/syntax/ast.go's long text nodes. Overridable via SetPrintWidth,
// normally from the root claripy.toml config.
var printWidth = 72

// indentUnit is the string repeated per nesting level when rendering block
// bodies. Overridable via SetIndent.
var indentUnit = "    "

// SetPrintWidth overrides the column at which long Print string literals are
// wrapped. Called once at startup from the loaded format config.
func SetPrintWidth(width int) {
	if width > 0 {
		printWidth = width
	}
}

// SetIndent overrides the string used for one level of statement-block
// indentation. Called once at startup from the loaded format config.
func SetIndent(indent string) {
	indentUnit = indent
}

// PrintClariPy renders mod as ClariPy source text: one statement per line,
// terminated with ";\n" exactly as python_to_lang.py's str_module does.
func PrintClariPy(mod *Module) string {
	var b strings.Builder
	for _, stmt := range mod.Body {
		b.WriteString(printStmt(stmt, 0))
		b.WriteString(";\n")
	}
	return b.String()
}

func printStmt(s Stmt, indent int) string {
	pad := strings.Repeat(indentUnit, indent)
	switch v := s.(type) {
	case *Assign:
		return fmt.Sprintf("%sDefine %s as %s", pad, printExpr(v.Target), printExpr(v.Value))
	case *Print:
		arg := printExpr(v.Arg)
		if strLit, ok := v.Arg.(*Str); ok && len(strLit.Value) > printWidth {
			arg = fmt.Sprintf("%q", rosed.Edit(strLit.Value).Wrap(printWidth).String())
		}
		return fmt.Sprintf("%sPrint %s", pad, arg)
	case *While:
		var body strings.Builder
		for _, stmt := range v.Body {
			body.WriteString(printStmt(stmt, indent+1))
			body.WriteString(";\n")
		}
		return fmt.Sprintf("%sWhile (%s) {\n%s%s}", pad, printExpr(v.Cond), body.String(), pad)
	case *If:
		var then strings.Builder
		for _, stmt := range v.Then {
			then.WriteString(printStmt(stmt, indent+1))
			then.WriteString(";\n")
		}
		out := fmt.Sprintf("%sIf (%s) {\n%s%s}", pad, printExpr(v.Cond), then.String(), pad)
		if len(v.Else) == 1 {
			if elseIf, ok := v.Else[0].(*If); ok {
				return out + " Else " + strings.TrimPrefix(printStmt(elseIf, indent), pad)
			}
		}
		if len(v.Else) > 0 {
			var elseBody strings.Builder
			for _, stmt := range v.Else {
				elseBody.WriteString(printStmt(stmt, indent+1))
				elseBody.WriteString(";\n")
			}
			out += fmt.Sprintf(" Else {\n%s%s}", elseBody.String(), pad)
		}
		return out
	default:
		return fmt.Sprintf("%s<unknown statement %T>", pad, s)
	}
}

// printExpr renders an expression, always parenthesizing BinOp/BoolOp per
// the decision to always parenthesize rather than track operator
// precedence when round-tripping, matching str_binop's unconditional
// f'({self.left} {self.op} {self.right})'.
func printExpr(e Expr) string {
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
			parts[i] = printExpr(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Subscript:
		// Printed as container[index] rather than the "at index ... [...]"
		// English phrasing - see DESIGN.md: concrete scenario 4 (`Print
		// xs[1];`) and the Target grammar both use bracket notation, and
		// the round-trip property requires pretty_print(parse(S)) to
		// reparse to the same AST, so the printer must emit what the
		// parser accepts back.
		return fmt.Sprintf("%s[%s]", printExpr(v.Target), printExpr(v.Index))
	case *BinOp:
		return fmt.Sprintf("(%s %s %s)", printExpr(v.Left), v.Op, printExpr(v.Right))
	case *BoolOp:
		return fmt.Sprintf("(%s %s %s)", printExpr(v.Left), printEnglishOp(v.Op), printExpr(v.Right))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

// printEnglishOp renders comparison operators back to the English phrases
// ClariPy source uses, the inverse of tokenizer.go's phraseSubstitutions;
// arithmetic operators print as their symbol unchanged.
func printEnglishOp(op string) string {
	switch op {
	case ">=":
		return "is greater than or equal to"
	case "<=":
		return "is less than or equal to"
	case "!=":
		return "is not equal to"
	case "==":
		return "is equal to"
	case ">":
		return "is greater than"
	case "<":
		return "is less than"
	default:
		return op
	}
}
