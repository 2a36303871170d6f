package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoonet/zoonet/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

const userColumns = `id, username, email, password_hash, session_id, session_expires_at, created_at, updated_at`

func scanUser(scan func(dest ...interface{}) error) (*models.User, error) {
	var user models.User
	err := scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.SessionID, &user.SessionExpiresAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// InsertUser creates a new user account and returns it with the assigned ID
func (db *Database) InsertUser(username, email, passwordHash string) (*models.User, error) {
	result, err := retryableExec(db.mainDB,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user '%s': %w", username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(id)
}

// GetUserByID returns the user with the given id
func (db *Database) GetUserByID(id int64) (*models.User, error) {
	row := db.mainDB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row.Scan)
}

// GetUserByUsername returns the user with the given username
func (db *Database) GetUserByUsername(username string) (*models.User, error) {
	row := db.mainDB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row.Scan)
}

// UsernameExists reports whether a username is already taken
func (db *Database) UsernameExists(username string) (bool, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		`SELECT COUNT(*) FROM users WHERE username = ?`,
		[]interface{}{username}, &count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteUser removes a user account. Posts and comments cascade,
// follow edges in both directions cascade.
func (db *Database) DeleteUser(id int64) error {
	_, err := retryableExec(db.mainDB, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
