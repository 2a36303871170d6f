package web

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zoonet/zoonet/internal/models"
)

// resolvePost loads a post by its composite key from the route parameters.
// Both the id and the author username must match, otherwise a 404 page is
// rendered and ok is false.
func (s *WebServer) resolvePost(c *gin.Context) (*models.Post, bool) {
	username := c.Param("username")
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.renderError(c, http.StatusNotFound, "Post not found", "Invalid post id.")
		return nil, false
	}

	post, err := s.DB.GetPostByAuthorAndID(username, postID)
	if err != nil {
		if notFoundErr(err) {
			s.renderError(c, http.StatusNotFound, "Post not found", "No such post by this author.")
		} else {
			s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		}
		return nil, false
	}
	return post, true
}

func postDetailPath(post *models.Post) string {
	return fmt.Sprintf("/posts/%s/%d", post.AuthorName, post.ID)
}

// postPage handles "/posts/:username/:id", the post detail view with its
// full comment list in creation order and an empty comment form
func (s *WebServer) postPage(c *gin.Context) {
	post, ok := s.resolvePost(c)
	if !ok {
		return
	}

	author, err := s.DB.GetUserByID(post.AuthorID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	comments, err := s.DB.GetCommentsByPost(post.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := PostPageData{
		TemplateData: s.getBaseTemplateData(c, post.Preview()),
		Post:         post,
		Author:       author,
		Comments:     comments,
		Form:         &CommentForm{Errors: make(map[string]string)},
	}

	s.renderTemplate(c, data, "post.html")
}

// newPostPage handles GET "/posts/new", the empty post form
func (s *WebServer) newPostPage(c *gin.Context) {
	groups, err := s.DB.GetAllGroups()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	data := PostFormPageData{
		TemplateData: s.getBaseTemplateData(c, "New post"),
		Form:         &PostForm{Errors: make(map[string]string)},
		Groups:       groups,
	}

	s.renderTemplate(c, data, "new_post.html")
}

// newPostSubmit handles POST "/posts/new". On success the server stamps
// the author and creation time and redirects to the global feed; on
// validation failure the form redisplays with field errors.
func (s *WebServer) newPostSubmit(c *gin.Context) {
	user := currentUser(c)
	form := s.bindPostForm(c, "")

	if !form.Valid() {
		groups, _ := s.DB.GetAllGroups()
		data := PostFormPageData{
			TemplateData: s.getBaseTemplateData(c, "New post"),
			Form:         form,
			Groups:       groups,
		}
		s.renderTemplate(c, data, "new_post.html")
		return
	}

	var groupID *int64
	if form.GroupID != 0 {
		groupID = &form.GroupID
	}

	post, err := s.DB.InsertPost(form.Text, user.ID, groupID, form.ImageName)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	log.Printf("User '%s' created post %d", user.Username, post.ID)
	s.FeedCache.InvalidateAll()
	c.Redirect(http.StatusSeeOther, "/")
}

// editPostPage handles GET "/posts/:username/:id/edit". Only the author
// may edit; anyone else is silently redirected to the post detail view.
func (s *WebServer) editPostPage(c *gin.Context) {
	post, ok := s.resolvePost(c)
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil || user.ID != post.AuthorID {
		c.Redirect(http.StatusSeeOther, postDetailPath(post))
		return
	}

	groups, err := s.DB.GetAllGroups()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	form := &PostForm{
		Text:      post.Text,
		ImageName: post.Image,
		Errors:    make(map[string]string),
	}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}

	data := PostFormPageData{
		TemplateData: s.getBaseTemplateData(c, "Edit post"),
		Form:         form,
		Groups:       groups,
		Post:         post,
		IsEdit:       true,
	}

	s.renderTemplate(c, data, "new_post.html")
}

// editPostSubmit handles POST "/posts/:username/:id/edit". The creation
// timestamp is preserved; only the content fields are rebound.
func (s *WebServer) editPostSubmit(c *gin.Context) {
	post, ok := s.resolvePost(c)
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil || user.ID != post.AuthorID {
		c.Redirect(http.StatusSeeOther, postDetailPath(post))
		return
	}

	form := s.bindPostForm(c, post.Image)

	if !form.Valid() {
		groups, _ := s.DB.GetAllGroups()
		data := PostFormPageData{
			TemplateData: s.getBaseTemplateData(c, "Edit post"),
			Form:         form,
			Groups:       groups,
			Post:         post,
			IsEdit:       true,
		}
		s.renderTemplate(c, data, "new_post.html")
		return
	}

	var groupID *int64
	if form.GroupID != 0 {
		groupID = &form.GroupID
	}

	if err := s.DB.UpdatePost(post.ID, form.Text, groupID, form.ImageName); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	log.Printf("User '%s' edited post %d", user.Username, post.ID)
	s.FeedCache.InvalidateAll()
	c.Redirect(http.StatusSeeOther, postDetailPath(post))
}
