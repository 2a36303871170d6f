package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zoonet/zoonet/internal/models"
)

// indexPage handles the global feed ("/"). Rendered pages are cached for
// anonymous viewers and dropped on every post or comment write.
func (s *WebServer) indexPage(c *gin.Context) {
	page := parsePageParam(c)

	anonymous := s.getWebSession(c) == nil
	if anonymous {
		if body, ok := s.FeedCache.Get("index", page); ok {
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			return
		}
	}

	posts, totalCount, page, err := s.DB.GetPostsPaginated(page, s.Config.PageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := FeedPageData{
		TemplateData: s.getBaseTemplateData(c, "Latest posts"),
		Posts:        posts,
		Pagination:   models.NewPaginationInfo(page, s.Config.PageSize, totalCount),
	}

	if anonymous {
		body, err := s.renderTemplateToBytes(data, "index.html", "pagination.html")
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
			return
		}
		s.FeedCache.Set("index", page, body)
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
		return
	}

	s.renderTemplate(c, data, "index.html", "pagination.html")
}

// groupPage handles "/group/:slug", the feed scoped to one group
func (s *WebServer) groupPage(c *gin.Context) {
	slug := c.Param("slug")

	group, err := s.DB.GetGroupBySlug(slug)
	if err != nil {
		if notFoundErr(err) {
			s.renderError(c, http.StatusNotFound, "Group not found", "The requested group does not exist.")
		} else {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		}
		return
	}

	page := parsePageParam(c)
	posts, totalCount, page, err := s.DB.GetGroupPostsPaginated(group.ID, page, s.Config.PageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := FeedPageData{
		TemplateData: s.getBaseTemplateData(c, group.Title),
		Posts:        posts,
		Pagination:   models.NewPaginationInfo(page, s.Config.PageSize, totalCount),
		Group:        group,
	}

	s.renderTemplate(c, data, "group.html", "pagination.html")
}

// profilePage handles "/profile/:username", the feed scoped to one author.
// It also exposes whether the viewing identity already follows the author;
// anonymous viewers never follow anyone.
func (s *WebServer) profilePage(c *gin.Context) {
	username := c.Param("username")

	author, err := s.DB.GetUserByUsername(username)
	if err != nil {
		if notFoundErr(err) {
			s.renderError(c, http.StatusNotFound, "Profile not found", "No such user.")
		} else {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		}
		return
	}

	following := false
	if session := s.getWebSession(c); session != nil {
		following, err = s.DB.IsFollowing(session.UserID, author.ID)
		if err != nil {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
			return
		}
	}

	page := parsePageParam(c)
	posts, totalCount, page, err := s.DB.GetAuthorPostsPaginated(author.ID, page, s.Config.PageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := FeedPageData{
		TemplateData: s.getBaseTemplateData(c, author.Username),
		Posts:        posts,
		Pagination:   models.NewPaginationInfo(page, s.Config.PageSize, totalCount),
		Author:       author,
		Following:    following,
	}

	s.renderTemplate(c, data, "profile.html", "pagination.html")
}

// followFeedPage handles "/follow", posts authored by anyone the current
// identity follows. Authentication is enforced by the route middleware.
func (s *WebServer) followFeedPage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, "/login?redirect=/follow")
		return
	}

	page := parsePageParam(c)
	posts, totalCount, page, err := s.DB.GetFollowingPostsPaginated(user.ID, page, s.Config.PageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := FeedPageData{
		TemplateData: s.getBaseTemplateData(c, "Your subscriptions"),
		Posts:        posts,
		Pagination:   models.NewPaginationInfo(page, s.Config.PageSize, totalCount),
	}

	s.renderTemplate(c, data, "follow.html", "pagination.html")
}
