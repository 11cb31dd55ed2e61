// Package dao provides data access objects for use in the ClariPy server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/claripy/internal/util"
	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds the repositories needed to run the server. Translation history
// is not part of Store - it is handled directly by internal/history, which
// the CLI also uses without going through a server at all.
type Store interface {
	Users() UserRepository
	Close() error
}

type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// Role is the permission level of a User. Only Admin accounts may clear
// other users' translation history.
type Role int

const (
	Normal Role = iota
	Admin  Role = 100
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		valid := []string{"'normal'", "'admin'"}
		return Normal, fmt.Errorf("must be one of %s", util.MakeTextList(valid))
	}
}

type User struct {
	ID             uuid.UUID // PK, NOT NULL
	Username       string    // UNIQUE, NOT NULL
	Password       string    // NOT NULL, bcrypt hash
	Email          *mail.Address
	Role           Role
	Created        time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW(); bumped to invalidate issued JWTs
	LastLoginTime  time.Time
}
