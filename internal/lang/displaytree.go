package lang

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// file displaytree.go implements C9: building a labelled n-ary DisplayNode
// tree from a Module, for handoff to an external graph-layout consumer.
// Grounded on original_source/modules/visualizer.py's Tree/add_statement/
// format_module, including its exact label set and the quirks of its child
// ordering - most notably that an If's "Conditon" label (sic) is used where
// While correctly spells "Condition", and that an If with an else clause
// inserts its "Orelse" subtree BEFORE "Conditon"/"If-Body" rather than
// after. Both are preserved verbatim rather than "fixed", since nothing in
// these are normalized so a display tool downstream may
// already depend on the exact label text.
type DisplayNode struct {
	Label    string
	Children []*DisplayNode
}

func leaf(label string) *DisplayNode {
	return &DisplayNode{Label: label}
}

func node(label string, children ...*DisplayNode) *DisplayNode {
	return &DisplayNode{Label: label, Children: children}
}

// BuildDisplayTree converts mod into its display tree, rooted at a "Module"
// node with one child per top-level statement.
func BuildDisplayTree(mod *Module) *DisplayNode {
	root := &DisplayNode{Label: "Module"}
	for _, stmt := range mod.Body {
		root.Children = append(root.Children, displayNodeFor(stmt))
	}
	return root
}

// displayNodeFor dispatches on the concrete Node kind the same way
// add_statement's isinstance chain does.
func displayNodeFor(n Node) *DisplayNode {
	switch v := n.(type) {
	case *Num:
		return node("Num", leaf(v.Value.String()))
	case *Str:
		return node("Str", leaf(v.Value))
	case *Bool:
		return node("Bool", leaf(boolLiteralString(v.Value)))
	case *ListLit:
		lit := &DisplayNode{Label: "List"}
		elems := make([]Value, len(v.Elems))
		for i, e := range v.Elems {
			// format_module's literal-list case evaluates the literal
			// against an empty environment to render its contents; list
			// literals here may only contain other literals in practice,
			// mirroring the original's assumption.
			if val, err := e.evaluate(NewEnv(nil)); err == nil {
				elems[i] = val
			}
		}
		lit.Children = []*DisplayNode{leaf(NewList(elems).String())}
		return lit
	case *Name:
		return node("Variable", leaf(v.Ident))
	case *Subscript:
		lst := node("List", displayNodeFor(v.Target))
		idx := node("Index", displayNodeFor(v.Index))
		return node("List Index", lst, idx)
	case *BinOp:
		return node("Binary Op.", displayNodeFor(v.Left), leaf(v.Op), displayNodeFor(v.Right))
	case *BoolOp:
		return node("Bool Op.", displayNodeFor(v.Left), leaf(v.Op), displayNodeFor(v.Right))
	case *Assign:
		return node("Assign", displayNodeFor(v.Target), displayNodeFor(v.Value))
	case *Print:
		return node("Print", displayNodeFor(v.Arg))
	case *While:
		cond := node("Condition", displayNodeFor(v.Cond))
		body := &DisplayNode{Label: "Body"}
		for _, stmt := range v.Body {
			body.Children = append(body.Children, displayNodeFor(stmt))
		}
		return node("While Loop", cond, body)
	case *If:
		branch := &DisplayNode{Label: "Branch"}
		if len(v.Else) > 0 {
			orelse := &DisplayNode{Label: "Orelse"}
			for _, stmt := range v.Else {
				orelse.Children = append(orelse.Children, displayNodeFor(stmt))
			}
			branch.Children = append(branch.Children, orelse)
		}
		cond := node("Conditon", displayNodeFor(v.Cond))
		body := &DisplayNode{Label: "If-Body"}
		for _, stmt := range v.Then {
			body.Children = append(body.Children, displayNodeFor(stmt))
		}
		branch.Children = append(branch.Children, cond, body)
		return branch
	default:
		return leaf("Unknown")
	}
}

func boolLiteralString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// MarshalBinary hand-encodes a DisplayNode as label-length-prefixed UTF-8
// text followed by a child count and each child's own encoding in turn,
// the same length-prefixed-field shape internal/tunascript's binary.go uses
// for its AST nodes. This is what internal/history rezi-wraps (via
// rezi.EncBinary, which requires encoding.BinaryMarshaler) to store a tree
// blob alongside a translation run.
func (n *DisplayNode) MarshalBinary() ([]byte, error) {
	if n == nil {
		return encBinaryInt(0), nil
	}

	var data []byte
	data = append(data, encBinaryString(n.Label)...)
	data = append(data, encBinaryInt(len(n.Children))...)
	for _, c := range n.Children {
		childBytes, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, encBinaryInt(len(childBytes))...)
		data = append(data, childBytes...)
	}
	return data, nil
}

// UnmarshalBinary decodes a DisplayNode previously produced by MarshalBinary.
func (n *DisplayNode) UnmarshalBinary(data []byte) error {
	label, n1, err := decBinaryString(data)
	if err != nil {
		return fmt.Errorf("decode label: %w", err)
	}
	data = data[n1:]

	childCount, n2, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decode child count: %w", err)
	}
	data = data[n2:]

	n.Label = label
	n.Children = nil
	for i := 0; i < childCount; i++ {
		childLen, nLen, err := decBinaryInt(data)
		if err != nil {
			return fmt.Errorf("decode child %d length: %w", i, err)
		}
		data = data[nLen:]
		if len(data) < childLen {
			return fmt.Errorf("decode child %d: unexpected end of data", i)
		}

		child := &DisplayNode{}
		if err := child.UnmarshalBinary(data[:childLen]); err != nil {
			return fmt.Errorf("decode child %d: %w", i, err)
		}
		n.Children = append(n.Children, child)
		data = data[childLen:]
	}

	return nil
}

func encBinaryInt(i int) []byte {
	enc := make([]byte, 0, 8)
	return binary.AppendVarint(enc, int64(i))
}

func decBinaryInt(data []byte) (int, int, error) {
	v, n := binary.Varint(data)
	if n <= 0 {
		return 0, 0, fmt.Errorf("unexpected end of data")
	}
	return int(v), n, nil
}

func encBinaryString(s string) []byte {
	var body []byte
	count := 0
	for _, ch := range s {
		buf := make([]byte, utf8.UTFMax)
		wrote := utf8.EncodeRune(buf, ch)
		body = append(body, buf[:wrote]...)
		count++
	}
	return append(encBinaryInt(count), body...)
}

func decBinaryString(data []byte) (string, int, error) {
	runeCount, n, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("decode rune count: %w", err)
	}
	data = data[n:]
	total := n

	var b []byte
	for i := 0; i < runeCount; i++ {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return "", 0, fmt.Errorf("invalid utf8 rune at position %d", i)
		}
		buf := make([]byte, utf8.UTFMax)
		wrote := utf8.EncodeRune(buf, r)
		b = append(b, buf[:wrote]...)
		data = data[size:]
		total += size
	}

	return string(b), total, nil
}
