package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// addComment handles POST "/posts/:username/:id/comment". A valid comment
// is stamped with the current identity and the parent post, then the
// request redirects to the detail view. An invalid comment redirects to
// the same detail view with a flash error instead of inline field errors.
func (s *WebServer) addComment(c *gin.Context) {
	post, ok := s.resolvePost(c)
	if !ok {
		return
	}

	user := currentUser(c)
	form := bindCommentForm(c)

	if !form.Valid() {
		if session := s.getWebSession(c); session != nil {
			SetFlashError(session.SessionID, "Your comment was empty and has not been saved.")
		}
		c.Redirect(http.StatusSeeOther, postDetailPath(post))
		return
	}

	comment, err := s.DB.InsertComment(form.Text, user.ID, post.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	log.Printf("User '%s' commented on post %d (comment %d)", user.Username, post.ID, comment.ID)
	s.FeedCache.InvalidateAll()
	c.Redirect(http.StatusSeeOther, postDetailPath(post))
}
