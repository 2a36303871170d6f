package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/zoonet/zoonet/internal/models"
)

// Session security constants
const (
	SessionIDLength = 64            // 64 character session ID
	SessionTimeout  = 3 * time.Hour // 3 hour sliding timeout
)

// GenerateSecureSessionID creates a cryptographically secure session ID
func GenerateSecureSessionID() (string, error) {
	bytes := make([]byte, SessionIDLength/2) // hex encoding doubles the length
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure session ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateUserSession creates a new session for the user and invalidates any existing session
func (db *Database) CreateUserSession(userID int64) (string, error) {
	sessionID, err := GenerateSecureSessionID()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(SessionTimeout)

	query := `UPDATE users SET
		session_id = ?,
		session_expires_at = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	_, err = retryableExec(db.mainDB, query, sessionID, expiresAt, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create user session: %w", err)
	}

	return sessionID, nil
}

// ValidateUserSession checks if the session is valid and extends expiration
func (db *Database) ValidateUserSession(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session ID")
	}

	query := `SELECT ` + userColumns + ` FROM users
		WHERE session_id = ? AND session_expires_at > ?`

	row := db.mainDB.QueryRow(query, sessionID, time.Now())
	user, err := scanUser(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session")
	}

	// Extend session expiration (sliding timeout)
	newExpiresAt := time.Now().Add(SessionTimeout)
	updateQuery := `UPDATE users SET session_expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := retryableExec(db.mainDB, updateQuery, newExpiresAt, user.ID); err != nil {
		// Log but don't fail validation
		log.Printf("Warning: Failed to extend session expiration: %v", err)
	}

	user.SessionExpiresAt = &newExpiresAt
	return user, nil
}

// InvalidateUserSession clears the user's session
func (db *Database) InvalidateUserSession(userID int64) error {
	query := `UPDATE users SET
		session_id = '',
		session_expires_at = NULL,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	_, err := retryableExec(db.mainDB, query, userID)
	return err
}
