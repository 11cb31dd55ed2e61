package lang

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// file tokenizer.go implements C2: source bytes -> raw string tokens, with
// the English comparison-phrase substitution that ClariPy source performs
// ahead of the real tokenization pass.

// phraseSubstitution is one English-phrase-to-operator rewrite. Order
// matters: longer phrases that are a prefix-superset of a shorter one (the
// four "or equal to" variants over their bare forms) must run first, or the
// shorter phrase's substitution would fire inside the longer one and leave
// a stray "or equal to" behind. This resolves an open question:
// the original tokenizer substituted the bare forms first and so produced
// wrong tokens for any "...or equal to" phrase.
type phraseSubstitution struct {
	phrase string
	op     string
}

var phraseSubstitutions = []phraseSubstitution{
	{"is greater than or equal to", ">="},
	{"is less than or equal to", "<="},
	{"is not equal to", "!="},
	{"is equal to", "=="},
	{"is greater than", ">"},
	{"is less than", "<"},
}

// masterPattern is the single regular expression C2 applies after phrase
// substitution, tried in a fixed alternation order
// Longer operator forms are listed before the single-character
// alternatives they are a prefix of so the regexp engine's leftmost-longest
// alternation doesn't need to be relied upon for that; Go's RE2 engine
// resolves alternation left-to-right per position anyway, but keeping the
// multi-char forms first also documents the intent.
var masterPattern = regexp.MustCompile(
	`-?[0-9]*\.[0-9]+` + // signed float
		`|-?[0-9]+` + // signed int
		`|\w+` + // identifier/keyword
		`|["][ -~]+["]|['][ -~]+[']` + // quoted string (non-empty interior)
		`|!=|<=|>=|//` + // multi-char operators
		`|[<>+\-*/;{}(),\]\[%]` + // single-char punctuation
		`|=+`, // assignment run: one token whether "=" or "=="
)

// rawToken is one match of masterPattern along with its byte offset into
// the (post-substitution) source text, kept so the lexer can recover
// line/column information for syntax errors.
type rawToken struct {
	text   string
	offset int
}

// tokenizeFile reads the named source file fully, performs the English
// phrase substitutions, and returns every non-overlapping match of
// masterPattern in order, plus the substituted source text the offsets are
// relative to. Whitespace and unmatched characters are discarded. An I/O
// error is returned unchanged, to be surfaced at the UI boundary as an
// IOError.
func tokenizeFile(path string) ([]rawToken, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not read %q: %w", path, err)
	}
	toks, src := tokenizeSource(string(data))
	return toks, src, nil
}

// tokenizeSource performs the same substitution-then-match pipeline as
// tokenizeFile, operating on in-memory source text.
func tokenizeSource(src string) ([]rawToken, string) {
	for _, sub := range phraseSubstitutions {
		src = strings.ReplaceAll(src, sub.phrase, sub.op)
	}

	matches := masterPattern.FindAllStringIndex(src, -1)
	toks := make([]rawToken, len(matches))
	for i, m := range matches {
		toks[i] = rawToken{text: src[m[0]:m[1]], offset: m[0]}
	}
	return toks, src
}
