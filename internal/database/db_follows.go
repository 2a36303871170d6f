package database

import (
	"fmt"
)

// IsFollowing reports whether a follow edge (follower -> followee) exists
func (db *Database) IsFollowing(followerID, followeeID int64) (bool, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followee_id = ?`,
		[]interface{}{followerID, followeeID}, &count)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// InsertFollow creates a follow edge if it does not exist yet.
// The unique constraint on (follower_id, followee_id) makes the insert
// idempotent; duplicates are silently ignored.
func (db *Database) InsertFollow(followerID, followeeID int64) error {
	_, err := retryableExec(db.mainDB,
		`INSERT OR IGNORE INTO follows (follower_id, followee_id) VALUES (?, ?)`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}
	return nil
}

// DeleteFollow removes a follow edge if present. Removing an absent
// edge is a no-op.
func (db *Database) DeleteFollow(followerID, followeeID int64) error {
	_, err := retryableExec(db.mainDB,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	return nil
}

// CountFollowers returns how many users follow the given user
func (db *Database) CountFollowers(userID int64) (int, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		`SELECT COUNT(*) FROM follows WHERE followee_id = ?`,
		[]interface{}{userID}, &count)
	return count, err
}

// CountFollowing returns how many users the given user follows
func (db *Database) CountFollowing(userID int64) (int, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`,
		[]interface{}{userID}, &count)
	return count, err
}
