package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoonet/zoonet/internal/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, db *Database, username string) *models.User {
	t.Helper()
	user, err := db.InsertUser(username, username+"@example.com", "x")
	require.NoError(t, err)
	return user
}

func TestUserLookup(t *testing.T) {
	db := openTestDB(t)

	panda := mustUser(t, db, "panda")

	got, err := db.GetUserByUsername("panda")
	require.NoError(t, err)
	assert.Equal(t, panda.ID, got.ID)
	assert.Equal(t, "panda@example.com", got.Email)

	_, err = db.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := db.UsernameExists("panda")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")

	sessionID, err := db.CreateUserSession(panda.ID)
	require.NoError(t, err)
	require.Len(t, sessionID, SessionIDLength)

	user, err := db.ValidateUserSession(sessionID)
	require.NoError(t, err)
	assert.Equal(t, panda.ID, user.ID)

	require.NoError(t, db.InvalidateUserSession(panda.ID))
	_, err = db.ValidateUserSession(sessionID)
	assert.Error(t, err)

	_, err = db.ValidateUserSession("")
	assert.Error(t, err)
}

func TestPostCompositeLookup(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")
	mustUser(t, db, "bear")

	post, err := db.InsertPost("A panda story", panda.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "A panda story", post.Text)
	assert.Equal(t, "panda", post.AuthorName)
	assert.False(t, post.CreatedAt.IsZero())

	got, err := db.GetPostByAuthorAndID("panda", post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	// Right id, wrong author: the composite key must miss
	_, err = db.GetPostByAuthorAndID("bear", post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostPreservesCreation(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")

	post, err := db.InsertPost("before", panda.ID, nil, "")
	require.NoError(t, err)

	require.NoError(t, db.UpdatePost(post.ID, "after", nil, "cat.gif"))

	got, err := db.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	assert.Equal(t, "cat.gif", got.Image)
	assert.Equal(t, post.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, post.AuthorID, got.AuthorID)
}

func TestFeedPagination(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")
	bear := mustUser(t, db, "bear")

	for i := 1; i <= 11; i++ {
		_, err := db.InsertPost(fmt.Sprintf("panda story %d", i), panda.ID, nil, "")
		require.NoError(t, err)
	}

	// Global feed page 1 holds 10 posts, newest first
	posts, total, page, err := db.GetPostsPaginated(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Equal(t, 1, page)
	require.Len(t, posts, 10)
	assert.Equal(t, "panda story 11", posts[0].Text)

	// Page 2 holds the single remaining post
	posts, total, page, err = db.GetPostsPaginated(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Equal(t, 2, page)
	require.Len(t, posts, 1)
	assert.Equal(t, "panda story 1", posts[0].Text)

	// Overrunning the last page clamps instead of erroring
	posts, _, page, err = db.GetPostsPaginated(99, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Len(t, posts, 1)

	// Author feed only sees the author's posts
	_, err = db.InsertPost("bear story", bear.ID, nil, "")
	require.NoError(t, err)

	posts, total, _, err = db.GetAuthorPostsPaginated(panda.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, posts, 10)
	for _, post := range posts {
		assert.Equal(t, "panda", post.AuthorName)
	}
}

func TestGroupFeedAndDetach(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")

	group, err := db.InsertGroup("pandas group", "pandas", "Pandas stories")
	require.NoError(t, err)

	_, err = db.GetGroupBySlug("nothing")
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := db.InsertPost("grouped", panda.ID, &group.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "pandas", post.GroupSlug)

	posts, total, _, err := db.GetGroupPostsPaginated(group.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)

	// Deleting the group detaches the post instead of deleting it
	require.NoError(t, db.DeleteGroup(group.ID))

	got, err := db.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, "", got.GroupSlug)
}

func TestAuthorDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")
	bear := mustUser(t, db, "bear")

	post, err := db.InsertPost("doomed", panda.ID, nil, "")
	require.NoError(t, err)
	_, err = db.InsertComment("first", bear.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, db.DeleteUser(panda.ID))

	_, err = db.GetPostByID(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := db.GetCommentsByPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentsCreationOrder(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")
	bear := mustUser(t, db, "bear")

	post, err := db.InsertPost("discussed", panda.ID, nil, "")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := db.InsertComment(fmt.Sprintf("comment %d", i), bear.ID, post.ID)
		require.NoError(t, err)
	}

	comments, err := db.GetCommentsByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "comment 1", comments[0].Text)
	assert.Equal(t, "comment 3", comments[2].Text)
	assert.Equal(t, "bear", comments[0].AuthorName)

	count, err := db.CountComments(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFollowEdgeIdempotent(t *testing.T) {
	db := openTestDB(t)
	wolf := mustUser(t, db, "wolf")
	rabbit := mustUser(t, db, "rabbit")

	require.NoError(t, db.InsertFollow(wolf.ID, rabbit.ID))
	require.NoError(t, db.InsertFollow(wolf.ID, rabbit.ID))

	count, err := db.CountFollowers(rabbit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	following, err := db.IsFollowing(wolf.ID, rabbit.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Unfollowing an absent edge is a no-op
	require.NoError(t, db.DeleteFollow(rabbit.ID, wolf.ID))
	require.NoError(t, db.DeleteFollow(wolf.ID, rabbit.ID))

	following, err = db.IsFollowing(wolf.ID, rabbit.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowingFeed(t *testing.T) {
	db := openTestDB(t)
	panda := mustUser(t, db, "panda")
	wolf := mustUser(t, db, "wolf")
	rabbit := mustUser(t, db, "rabbit")

	_, err := db.InsertPost("from rabbit", rabbit.ID, nil, "")
	require.NoError(t, err)
	_, err = db.InsertPost("from panda", panda.ID, nil, "")
	require.NoError(t, err)

	require.NoError(t, db.InsertFollow(wolf.ID, rabbit.ID))

	posts, total, _, err := db.GetFollowingPostsPaginated(wolf.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "from rabbit", posts[0].Text)

	// A user following nobody has an empty feed
	posts, total, _, err = db.GetFollowingPostsPaginated(panda.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, posts)
}
