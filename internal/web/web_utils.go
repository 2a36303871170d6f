package web

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zoonet/zoonet/internal/config"
)

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	StatusCode int
	Message    string
	Details    string
}

// getBaseTemplateData creates a TemplateData struct with common information including user auth
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:       title,
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		AppVersion:  config.AppVersion,
	}

	if session := s.getWebSession(c); session != nil {
		data.User = session.User
		data.FlashSuccess, data.FlashError = GetAndClearFlash(session.SessionID)
	}

	return data
}

// templatePaths returns the full paths of base.html plus the given page templates
func (s *WebServer) templatePaths(names ...string) []string {
	paths := []string{filepath.Join(s.Config.TemplateDir, "base.html")}
	for _, name := range names {
		paths = append(paths, filepath.Join(s.Config.TemplateDir, name))
	}
	return paths
}

// renderTemplate renders a page template wrapped in base.html
// Templates are loaded individually per handler to avoid name conflicts
func (s *WebServer) renderTemplate(c *gin.Context, data interface{}, names ...string) {
	tmpl, err := template.ParseFiles(s.templatePaths(names...)...)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
	}
}

// renderTemplateToBytes renders a page into memory so the result can be cached
func (s *WebServer) renderTemplateToBytes(data interface{}, names ...string) ([]byte, error) {
	tmpl, err := template.ParseFiles(s.templatePaths(names...)...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderError renders the error page with consistent formatting
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, details string) {
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData(c, message),
		StatusCode:   statusCode,
		Message:      message,
		Details:      details,
	}

	tmpl, err := template.ParseFiles(s.templatePaths("error.html")...)
	if err != nil {
		c.String(statusCode, "%d %s", statusCode, message)
		return
	}
	c.Status(statusCode)
	c.Header("Content-Type", "text/html; charset=utf-8")
	tmpl.ExecuteTemplate(c.Writer, "base.html", data)
}

// parsePageParam reads the ?page= query value. Missing or non-numeric
// values fall back to page 1; clamping to the last page happens later,
// once the total count is known.
func parsePageParam(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

// safeRedirectPath only accepts local absolute paths as post-login
// destinations, everything else falls back to the front page
func safeRedirectPath(redirect string) string {
	if redirect == "" || !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		return "/"
	}
	return redirect
}
