package lang

import "os"

// file translate.go exposes the two entry points that serve as the
// UI-facing surface of the language pipeline: TranslateToPyLite reads a
// ClariPy source file and renders it as PyLite; TranslateToClariPy reads a
// PyLite source file and renders it as ClariPy. Exit/return conventions
// belong to the caller (cmd/claripy, server/tunas); this package only
// returns a Go error.

// TranslateToPyLite reads the ClariPy source file at path, parses it with
// the C2-C5 pipeline, and renders the resulting Module as PyLite source.
func TranslateToPyLite(path string) (string, error) {
	mod, err := ParseClariPyFile(path)
	if err != nil {
		return "", err
	}
	return PrintPyLite(mod), nil
}

// TranslateToClariPy reads the PyLite source file at path, parses it with
// the PyLite-subset parser in pylite.go, and renders the resulting Module
// as ClariPy source.
func TranslateToClariPy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mod, err := ParsePyLite(string(data))
	if err != nil {
		return "", err
	}
	return PrintClariPy(mod), nil
}

// ParseClariPyFile runs C2 (tokenize) -> C3 (lex) -> C5 (parse, which uses
// C4 internally for expressions) over a ClariPy source file and returns the
// resulting Module.
func ParseClariPyFile(path string) (*Module, error) {
	raws, src, err := tokenizeFile(path)
	if err != nil {
		return nil, err
	}
	toks, err := lex(raws, src)
	if err != nil {
		return nil, err
	}
	return parseModule(toks)
}

// ParseClariPySource is ParseClariPyFile's in-memory counterpart, used by
// tests and by any caller that already has source text loaded (e.g. the
// HTTP translate endpoint, which receives a request body rather than a
// path).
func ParseClariPySource(src string) (*Module, error) {
	raws, subbedSrc := tokenizeSource(src)
	toks, err := lex(raws, subbedSrc)
	if err != nil {
		return nil, err
	}
	return parseModule(toks)
}
