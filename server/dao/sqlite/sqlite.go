// Package sqlite implements server/dao's repositories over a pure-Go sqlite
// driver, grounded on server/dao/sqlite's store shape (one file per entity,
// ErrNotFound sentinel via wrapDBError, context-first methods) trimmed down
// to just the User entity this server actually needs - translation history
// persistence is handled separately by internal/history, which the CLI also
// uses directly without a server.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/claripy/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	db    *sql.DB
	users *UsersDB
}

// NewDatastore opens (creating if necessary) a sqlite-backed dao.Store in
// the given data directory.
func NewDatastore(dataDir string) (dao.Store, error) {
	file := filepath.Join(dataDir, "claripy.db")

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st := &store{db: db, users: &UsersDB{db: db}}
	if err := st.users.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
