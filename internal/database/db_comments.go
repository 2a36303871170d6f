package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoonet/zoonet/internal/models"
)

func scanComment(scan func(dest ...interface{}) error) (*models.Comment, error) {
	var comment models.Comment
	err := scan(&comment.ID, &comment.Text, &comment.CreatedAt,
		&comment.AuthorID, &comment.PostID, &comment.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// InsertComment creates a comment on a post. Comments have no update path.
func (db *Database) InsertComment(text string, authorID, postID int64) (*models.Comment, error) {
	result, err := retryableExec(db.mainDB,
		`INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?)`,
		text, authorID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	row := db.mainDB.QueryRow(
		`SELECT c.id, c.text, c.created_at, c.author_id, c.post_id, u.username
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = ?`, id)
	return scanComment(row.Scan)
}

// GetCommentsByPost returns all comments on a post in creation order
func (db *Database) GetCommentsByPost(postID int64) ([]*models.Comment, error) {
	rows, err := retryableQuery(db.mainDB,
		`SELECT c.id, c.text, c.created_at, c.author_id, c.post_id, u.username
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// CountComments returns the number of comments on a post
func (db *Database) CountComments(postID int64) (int, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`,
		[]interface{}{postID}, &count)
	return count, err
}
