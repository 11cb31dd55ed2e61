// Package tunas has services for interacting with the ClariPy server backend
// decoupled from the API that accesses it.
package tunas

import (
	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/server/dao"
)

// Service is a service for interacting with and modifying the ClariPy server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and a history.Store to History before attempting to use it.
type Service struct {
	// DB is the persistence store of the service, for user accounts.
	DB dao.Store

	// History records every translation/evaluation run and allows looking
	// old ones back up.
	History history.Store
}
