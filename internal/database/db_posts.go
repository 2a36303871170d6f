package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoonet/zoonet/internal/models"
)

const postColumns = `p.id, p.text, p.created_at, p.author_id, p.group_id, p.image,
	u.username, COALESCE(g.title, ''), COALESCE(g.slug, '')`

const postFrom = ` FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// Reverse chronological, id as tiebreak so same-second posts stay stable
const postOrder = ` ORDER BY p.created_at DESC, p.id DESC`

func scanPost(scan func(dest ...interface{}) error) (*models.Post, error) {
	var post models.Post
	err := scan(&post.ID, &post.Text, &post.CreatedAt, &post.AuthorID, &post.GroupID,
		&post.Image, &post.AuthorName, &post.GroupTitle, &post.GroupSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// InsertPost creates a post. The creation timestamp is assigned by the
// database and never changes afterwards.
func (db *Database) InsertPost(text string, authorID int64, groupID *int64, image string) (*models.Post, error) {
	result, err := retryableExec(db.mainDB,
		`INSERT INTO posts (text, author_id, group_id, image) VALUES (?, ?, ?, ?)`,
		text, authorID, groupID, image)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetPostByID(id)
}

// UpdatePost rewrites the content fields of an existing post.
// created_at and author_id are left untouched.
func (db *Database) UpdatePost(id int64, text string, groupID *int64, image string) error {
	_, err := retryableExec(db.mainDB,
		`UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`,
		text, groupID, image, id)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return nil
}

// DeletePost removes a post. Its comments cascade.
func (db *Database) DeletePost(id int64) error {
	_, err := retryableExec(db.mainDB, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// GetPostByID returns a single post with author and group fields joined in
func (db *Database) GetPostByID(id int64) (*models.Post, error) {
	row := db.mainDB.QueryRow(`SELECT `+postColumns+postFrom+` WHERE p.id = ?`, id)
	return scanPost(row.Scan)
}

// GetPostByAuthorAndID resolves a post by its composite key: both the
// post id and the author username must match or the lookup misses.
func (db *Database) GetPostByAuthorAndID(username string, postID int64) (*models.Post, error) {
	row := db.mainDB.QueryRow(
		`SELECT `+postColumns+postFrom+` WHERE p.id = ? AND u.username = ?`,
		postID, username)
	return scanPost(row.Scan)
}

// queryPostsPage runs a count plus a page query over the same filter.
// The requested page is clamped into the valid range before the offset
// query runs, so overrunning the last page returns the last page.
func (db *Database) queryPostsPage(where string, args []interface{}, page, pageSize int) ([]*models.Post, int, int, error) {
	countQuery := `SELECT COUNT(*)` + postFrom + where
	var totalCount int
	if err := retryableQueryRowScan(db.mainDB, countQuery, args, &totalCount); err != nil {
		return nil, 0, 1, fmt.Errorf("failed to count posts: %w", err)
	}

	page = models.ClampPage(page, pageSize, totalCount)
	offset := (page - 1) * pageSize

	listQuery := `SELECT ` + postColumns + postFrom + where + postOrder + ` LIMIT ? OFFSET ?`
	listArgs := append(append([]interface{}{}, args...), pageSize, offset)

	rows, err := retryableQuery(db.mainDB, listQuery, listArgs...)
	if err != nil {
		return nil, 0, page, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, 0, page, err
		}
		posts = append(posts, post)
	}
	return posts, totalCount, page, rows.Err()
}

// GetPostsPaginated returns one page of the global feed
func (db *Database) GetPostsPaginated(page, pageSize int) ([]*models.Post, int, int, error) {
	return db.queryPostsPage("", nil, page, pageSize)
}

// GetGroupPostsPaginated returns one page of a group's feed
func (db *Database) GetGroupPostsPaginated(groupID int64, page, pageSize int) ([]*models.Post, int, int, error) {
	return db.queryPostsPage(` WHERE p.group_id = ?`, []interface{}{groupID}, page, pageSize)
}

// GetAuthorPostsPaginated returns one page of an author's feed
func (db *Database) GetAuthorPostsPaginated(authorID int64, page, pageSize int) ([]*models.Post, int, int, error) {
	return db.queryPostsPage(` WHERE p.author_id = ?`, []interface{}{authorID}, page, pageSize)
}

// GetFollowingPostsPaginated returns one page of posts authored by anyone
// the given user follows
func (db *Database) GetFollowingPostsPaginated(followerID int64, page, pageSize int) ([]*models.Post, int, int, error) {
	where := ` WHERE p.author_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)`
	return db.queryPostsPage(where, []interface{}{followerID}, page, pageSize)
}

// CountPosts returns the total number of posts
func (db *Database) CountPosts() (int, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB, `SELECT COUNT(*) FROM posts`, nil, &count)
	return count, err
}
