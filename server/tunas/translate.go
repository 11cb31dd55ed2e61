package tunas

import (
	"context"
	"fmt"

	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/internal/lang"
	"github.com/google/uuid"
)

// TranslationResult is the outcome of a single translate call: the rendered
// source in the target syntax, the display tree of the parsed program, and
// the ID the run was recorded under in history (zero UUID if recording was
// skipped).
type TranslationResult struct {
	Output  string
	Tree    *lang.DisplayNode
	EntryID uuid.UUID
}

// Translate parses source as dir's origin syntax, renders it in the other
// syntax, and records the run in svc.History under userID (nil for an
// unauthenticated caller). It is the in-memory counterpart to
// lang.TranslateToPyLite/TranslateToClariPy, which work from files.
func (svc Service) Translate(ctx context.Context, userID *uuid.UUID, dir history.Direction, source string) (TranslationResult, error) {
	var mod *lang.Module
	var output string
	var err error

	switch dir {
	case history.ToPyLite:
		mod, err = lang.ParseClariPySource(source)
		if err != nil {
			return TranslationResult{}, fmt.Errorf("parse ClariPy source: %w", err)
		}
		output = lang.PrintPyLite(mod)
	case history.ToClariPy:
		mod, err = lang.ParsePyLite(source)
		if err != nil {
			return TranslationResult{}, fmt.Errorf("parse PyLite source: %w", err)
		}
		output = lang.PrintClariPy(mod)
	default:
		return TranslationResult{}, fmt.Errorf("unknown translation direction %q", dir)
	}

	tree := lang.BuildDisplayTree(mod)

	entry, err := svc.History.Record(ctx, history.Entry{
		UserID:     userID,
		Direction:  dir,
		SourceText: source,
		ResultText: output,
		Tree:       history.EncodeTree(tree),
	})
	if err != nil {
		return TranslationResult{}, fmt.Errorf("record history: %w", err)
	}

	return TranslationResult{Output: output, Tree: tree, EntryID: entry.ID}, nil
}

// RecentHistory returns up to limit of the most recent translation runs. If
// userID is non-nil, results are restricted to that user's own runs.
func (svc Service) RecentHistory(ctx context.Context, userID *uuid.UUID, limit int) ([]history.Entry, error) {
	return svc.History.Recent(ctx, userID, limit)
}
