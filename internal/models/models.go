// Package models defines core data structures for zoonet
package models

import (
	"fmt"
	"time"
)

// User represents a registered author account
type User struct {
	ID               int64      `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"password_hash" db:"password_hash"`
	SessionID        string     `json:"session_id" db:"session_id"`                 // Current active session (64 chars)
	SessionExpiresAt *time.Time `json:"session_expires_at" db:"session_expires_at"` // Session expiration (sliding)
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Group represents a topic community posts can be filed into
type Group struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
}

// Post represents a single publication by an author.
// GroupID is nullable: deleting a group detaches its posts.
type Post struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	GroupID   *int64    `json:"group_id" db:"group_id"`
	Image     string    `json:"image" db:"image"` // stored filename, empty if none

	// Joined fields for rendering, not stored on the posts table
	AuthorName string `json:"author_name" db:"-"`
	GroupTitle string `json:"group_title" db:"-"`
	GroupSlug  string `json:"group_slug" db:"-"`
}

// Comment represents a reply attached to a post. Comments are append-only.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	PostID    int64     `json:"post_id" db:"post_id"`

	AuthorName string `json:"author_name" db:"-"`
}

// Follow represents a directed subscription edge between two users.
// The (follower, followee) pair is unique.
type Follow struct {
	ID         int64     `json:"id" db:"id"`
	FollowerID int64     `json:"follower_id" db:"follower_id"`
	FolloweeID int64     `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaginationInfo represents pagination information for templates
type PaginationInfo struct {
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
	HasNext     bool
	HasPrev     bool
	NextPage    int
	PrevPage    int
}

// NewPaginationInfo creates pagination info
func NewPaginationInfo(page, pageSize, totalCount int) *PaginationInfo {
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return &PaginationInfo{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
		NextPage:    page + 1,
		PrevPage:    page - 1,
	}
}

// TotalPages returns how many pages a collection of totalCount items spans.
// An empty collection still has one (empty) page.
func TotalPages(totalCount, pageSize int) int {
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	return totalPages
}

// ClampPage forces page into the valid range [1, TotalPages].
// Requests beyond the last page resolve to the last page, never an error.
func ClampPage(page, pageSize, totalCount int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(totalCount, pageSize); page > last {
		return last
	}
	return page
}

// PrintAge returns a human-readable time difference from now
func (p *Post) PrintAge() string {
	if p.CreatedAt.IsZero() {
		return "never"
	}

	diff := time.Since(p.CreatedAt)
	totalDays := int(diff.Hours() / 24)

	if diff < time.Minute {
		return fmt.Sprintf("%d seconds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(diff.Minutes()))
	} else if diff < 48*time.Hour {
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	} else if totalDays < 365 {
		return fmt.Sprintf("%d days ago", totalDays)
	}
	years := totalDays / 365
	if years == 1 {
		return "1 Year ago"
	}
	return fmt.Sprintf("%d Years ago", years)
}

// Preview returns the first runes of the post text for listings and logs
func (p *Post) Preview() string {
	runes := []rune(p.Text)
	if len(runes) <= 15 {
		return p.Text
	}
	return string(runes[:15])
}
