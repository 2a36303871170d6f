package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// profileFollow handles GET "/profile/:username/follow". Creating an edge
// is idempotent; following yourself is refused without error. Either way
// the request redirects to the target's profile.
func (s *WebServer) profileFollow(c *gin.Context) {
	username := c.Param("username")

	target, err := s.DB.GetUserByUsername(username)
	if err != nil {
		if notFoundErr(err) {
			s.renderError(c, http.StatusNotFound, "Profile not found", "No such user.")
		} else {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		}
		return
	}

	user := currentUser(c)
	if user.ID != target.ID {
		if err := s.DB.InsertFollow(user.ID, target.ID); err != nil {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
			return
		}
		log.Printf("User '%s' follows '%s'", user.Username, target.Username)
	}

	c.Redirect(http.StatusSeeOther, "/profile/"+target.Username)
}

// profileUnfollow handles GET "/profile/:username/unfollow". Removing an
// absent edge is a no-op; the request always redirects to the profile.
func (s *WebServer) profileUnfollow(c *gin.Context) {
	username := c.Param("username")

	target, err := s.DB.GetUserByUsername(username)
	if err != nil {
		if notFoundErr(err) {
			s.renderError(c, http.StatusNotFound, "Profile not found", "No such user.")
		} else {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		}
		return
	}

	user := currentUser(c)
	if err := s.DB.DeleteFollow(user.ID, target.ID); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/profile/"+target.Username)
}
