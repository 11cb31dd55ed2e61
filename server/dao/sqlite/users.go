package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/claripy/server/dao"
	"github.com/google/uuid"
)

// UsersDB implements dao.UserRepository over a shared *sql.DB, grounded on
// server/dao/sqlite/users.go's UsersDB.
type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		email TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO users
		(id, username, password, role, email, created, last_logout_time, last_login_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	newEmail := ""
	if user.Email != nil {
		newEmail = user.Email.Address
	}
	now := time.Now()
	_, err = stmt.ExecContext(ctx,
		newUUID.String(), user.Username, user.Password, user.Role.String(), newEmail,
		now.Unix(), now.Unix(), now.Unix(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, username, password, role, email, created, last_logout_time, last_login_time FROM users;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User

	for rows.Next() {
		var user dao.User
		var id, role, email string
		var created, logoutTime, loginTime int64

		if err := rows.Scan(&id, &user.Username, &user.Password, &role, &email, &created, &logoutTime, &loginTime); err != nil {
			return nil, wrapDBError(err)
		}

		if err := scanUser(&user, id, role, email, created, logoutTime, loginTime); err != nil {
			return all, err
		}

		all = append(all, user)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	newEmail := ""
	if user.Email != nil {
		newEmail = user.Email.Address
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET username=?, password=?, role=?, email=?, last_logout_time=?, last_login_time=? WHERE id=?;`,
		user.Username,
		user.Password,
		user.Role.String(),
		newEmail,
		user.LastLogoutTime.Unix(),
		user.LastLoginTime.Unix(),
		id.String(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	var id, role, email string
	var created, logout, login int64

	row := repo.db.QueryRowContext(ctx, `SELECT id, password, role, email, created, last_logout_time, last_login_time
		FROM users WHERE username = ?;`, username)

	var user dao.User
	user.Username = username
	err := row.Scan(&id, &user.Password, &role, &email, &created, &logout, &login)
	if err != nil {
		return user, wrapDBError(err)
	}

	if err := scanUser(&user, id, role, email, created, logout, login); err != nil {
		return user, err
	}

	return user, nil
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	var role, email string
	var created, logout, login int64

	row := repo.db.QueryRowContext(ctx, `SELECT username, password, role, email, created, last_logout_time, last_login_time
		FROM users WHERE id = ?;`, id.String())

	var user dao.User
	err := row.Scan(&user.Username, &user.Password, &role, &email, &created, &logout, &login)
	if err != nil {
		return user, wrapDBError(err)
	}

	if err := scanUser(&user, id.String(), role, email, created, logout, login); err != nil {
		return user, err
	}

	return user, nil
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *UsersDB) Close() error {
	return repo.db.Close()
}

// scanUser fills in the fields of user that are stored in string/int64 form,
// parsing them into their model types.
func scanUser(user *dao.User, id, role, email string, created, logout, login int64) error {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	user.ID = parsedID

	if email != "" {
		user.Email, err = mail.ParseAddress(email)
		if err != nil {
			return fmt.Errorf("stored email %q is invalid: %w", email, err)
		}
	}

	user.Role, err = dao.ParseRole(role)
	if err != nil {
		return fmt.Errorf("stored role %q is invalid: %w", role, err)
	}

	user.Created = time.Unix(created, 0)
	user.LastLogoutTime = time.Unix(logout, 0)
	user.LastLoginTime = time.Unix(login, 0)

	return nil
}
