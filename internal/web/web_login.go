package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// loginPage renders the login form. The redirect query parameter carries
// the protected path the visitor originally asked for.
func (s *WebServer) loginPage(c *gin.Context) {
	if s.getWebSession(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := AuthPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		Redirect:     c.Query("redirect"),
	}
	s.renderTemplate(c, data, "login.html")
}

// loginSubmit validates credentials and establishes a session
func (s *WebServer) loginSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	renderFailure := func(msg string) {
		data := AuthPageData{
			TemplateData: s.getBaseTemplateData(c, "Login"),
			Username:     username,
			Redirect:     redirect,
			Error:        msg,
		}
		c.Status(http.StatusUnauthorized)
		s.renderTemplate(c, data, "login.html")
	}

	if username == "" || password == "" {
		renderFailure("Username and password are required.")
		return
	}

	user, err := s.DB.GetUserByUsername(username)
	if err != nil || !checkPassword(password, user.PasswordHash) {
		log.Printf("Failed login attempt for '%s'", username)
		renderFailure("Invalid username or password.")
		return
	}

	if err := s.createWebSession(c, user.ID); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Session error", err.Error())
		return
	}

	log.Printf("User '%s' logged in", user.Username)
	c.Redirect(http.StatusSeeOther, safeRedirectPath(redirect))
}

// registerPage renders the account registration form
func (s *WebServer) registerPage(c *gin.Context) {
	if s.getWebSession(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := AuthPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
	}
	s.renderTemplate(c, data, "register.html")
}

// registerSubmit creates a new account and logs it in
func (s *WebServer) registerSubmit(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	renderFailure := func(msg string) {
		data := AuthPageData{
			TemplateData: s.getBaseTemplateData(c, "Register"),
			Username:     username,
			Error:        msg,
		}
		c.Status(http.StatusBadRequest)
		s.renderTemplate(c, data, "register.html")
	}

	if err := validateUsername(username); err != nil {
		renderFailure(err.Error())
		return
	}
	if err := validatePassword(password); err != nil {
		renderFailure(err.Error())
		return
	}

	exists, err := s.DB.UsernameExists(username)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	if exists {
		renderFailure("That username is already taken.")
		return
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Registration error", err.Error())
		return
	}

	user, err := s.DB.InsertUser(username, email, passwordHash)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database error", err.Error())
		return
	}

	if err := s.createWebSession(c, user.ID); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Session error", err.Error())
		return
	}

	log.Printf("Registered new user '%s'", user.Username)
	c.Redirect(http.StatusSeeOther, "/")
}

// logout invalidates the current session and clears the cookie
func (s *WebServer) logout(c *gin.Context) {
	if session := s.getWebSession(c); session != nil {
		if err := s.DB.InvalidateUserSession(session.UserID); err != nil {
			log.Printf("Failed to invalidate session for user %d: %v", session.UserID, err)
		}
	}
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}
