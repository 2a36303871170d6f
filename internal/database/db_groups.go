package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zoonet/zoonet/internal/models"
)

func scanGroup(scan func(dest ...interface{}) error) (*models.Group, error) {
	var group models.Group
	err := scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// InsertGroup creates a new group
func (db *Database) InsertGroup(title, slug, description string) (*models.Group, error) {
	result, err := retryableExec(db.mainDB,
		`INSERT INTO groups (title, slug, description) VALUES (?, ?, ?)`,
		title, slug, description)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group '%s': %w", slug, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Group{ID: id, Title: title, Slug: slug, Description: description}, nil
}

// GetGroupBySlug returns the group with the given slug
func (db *Database) GetGroupBySlug(slug string) (*models.Group, error) {
	row := db.mainDB.QueryRow(
		`SELECT id, title, slug, description FROM groups WHERE slug = ?`, slug)
	return scanGroup(row.Scan)
}

// GetAllGroups returns all groups ordered by title, for the post form selector
func (db *Database) GetAllGroups() ([]*models.Group, error) {
	rows, err := retryableQuery(db.mainDB,
		`SELECT id, title, slug, description FROM groups ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows.Scan)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// DeleteGroup removes a group. Its posts are detached (group_id set NULL),
// never deleted.
func (db *Database) DeleteGroup(id int64) error {
	_, err := retryableExec(db.mainDB, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group %d: %w", id, err)
	}
	return nil
}
