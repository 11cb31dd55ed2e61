// Package history records translation and evaluation runs performed through
// the CLI or the HTTP API, keyed by a generated request ID, so that a prior
// run's translated text and display tree can be looked up again without
// re-parsing the original source. Grounded on server/dao/sqlite's DAO shape
// (one file per entity, ErrNotFound sentinel, context-first methods) but
// lives outside server/ since the CLI uses it directly without going through
// the HTTP layer.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/claripy/internal/lang"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// ErrNotFound is returned by Store methods when the requested Entry does not
// exist.
var ErrNotFound = errors.New("the requested history entry could not be found")

// Direction names the translation direction a recorded run performed.
type Direction string

const (
	ToPyLite  Direction = "claripy_to_pylite"
	ToClariPy Direction = "pylite_to_claripy"
)

// Entry is one recorded translation or evaluation run.
type Entry struct {
	ID uuid.UUID

	// UserID is nil for runs performed by an unauthenticated CLI invocation.
	UserID *uuid.UUID

	Direction  Direction
	SourceText string
	ResultText string

	// Tree is the rezi-encoded *lang.DisplayNode for the parsed source, the
	// binary hand-off format for an external graph-layout consumer. It is
	// empty if the run did not request a tree dump.
	Tree    []byte
	Created time.Time
}

// EncodeTree rezi-encodes a display tree for storage in an Entry, the same
// rezi.EncBinary call server/dao/sqlite uses to blob-encode a *game.State.
func EncodeTree(tree *lang.DisplayNode) []byte {
	if tree == nil {
		return nil
	}
	return rezi.EncBinary(tree)
}

// DecodeTree decodes a tree blob previously produced by EncodeTree.
func DecodeTree(data []byte) (*lang.DisplayNode, error) {
	if len(data) == 0 {
		return nil, nil
	}
	tree := &lang.DisplayNode{}
	n, err := rezi.DecBinary(data, tree)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return tree, nil
}

// Store persists and retrieves Entry records.
type Store interface {
	Record(ctx context.Context, e Entry) (Entry, error)
	Get(ctx context.Context, id uuid.UUID) (Entry, error)

	// Recent returns up to limit entries, most recent first. If userID is
	// non-nil, results are restricted to that user's runs.
	Recent(ctx context.Context, userID *uuid.UUID, limit int) ([]Entry, error)
	Close() error
}

// sqliteStore is a Store backed by a single-file sqlite database, mirroring
// server/dao/sqlite.UsersDB's connection/schema-init shape.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a sqlite-backed Store in the
// given data directory.
func NewSQLiteStore(dataDir string) (Store, error) {
	file := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS translation_history (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		direction TEXT NOT NULL,
		source_text TEXT NOT NULL,
		result_text TEXT NOT NULL,
		tree_blob BLOB NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Record(ctx context.Context, e Entry) (Entry, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return Entry{}, fmt.Errorf("could not generate ID: %w", err)
	}
	e.ID = newID
	e.Created = time.Now()

	userID := ""
	if e.UserID != nil {
		userID = e.UserID.String()
	}

	stmt, err := s.db.Prepare(`INSERT INTO translation_history
		(id, user_id, direction, source_text, result_text, tree_blob, created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Entry{}, wrapDBError(err)
	}
	_, err = stmt.ExecContext(ctx,
		e.ID.String(), userID, string(e.Direction), e.SourceText, e.ResultText,
		e.Tree, e.Created.Unix(),
	)
	if err != nil {
		return Entry{}, wrapDBError(err)
	}

	return s.Get(ctx, e.ID)
}

func (s *sqliteStore) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT user_id, direction, source_text, result_text, tree_blob, created
		FROM translation_history WHERE id = ?;`, id.String())

	var e Entry
	var userID, direction string
	var created int64
	e.ID = id

	err := row.Scan(&userID, &direction, &e.SourceText, &e.ResultText, &e.Tree, &created)
	if err != nil {
		return Entry{}, wrapDBError(err)
	}

	if userID != "" {
		uid, err := uuid.Parse(userID)
		if err != nil {
			return Entry{}, fmt.Errorf("stored user ID %q is invalid: %w", userID, err)
		}
		e.UserID = &uid
	}
	e.Direction = Direction(direction)
	e.Created = time.Unix(created, 0)

	return e, nil
}

func (s *sqliteStore) Recent(ctx context.Context, userID *uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows *sql.Rows
	var err error
	if userID != nil {
		rows, err = s.db.QueryContext(ctx, `SELECT id, user_id, direction, source_text, result_text, tree_blob, created
			FROM translation_history WHERE user_id = ? ORDER BY created DESC LIMIT ?;`, userID.String(), limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id, user_id, direction, source_text, result_text, tree_blob, created
			FROM translation_history ORDER BY created DESC LIMIT ?;`, limit)
	}
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []Entry
	for rows.Next() {
		var e Entry
		var id, uID, direction string
		var created int64

		if err := rows.Scan(&id, &uID, &direction, &e.SourceText, &e.ResultText, &e.Tree, &created); err != nil {
			return nil, wrapDBError(err)
		}

		e.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored ID %q is invalid: %w", id, err)
		}
		if uID != "" {
			uid, err := uuid.Parse(uID)
			if err != nil {
				return all, fmt.Errorf("stored user ID %q is invalid: %w", uID, err)
			}
			e.UserID = &uid
		}
		e.Direction = Direction(direction)
		e.Created = time.Unix(created, 0)

		all = append(all, e)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
