// Package web provides the HTTP server and web interface for zoonet
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/zoonet/zoonet/internal/cache"
	"github.com/zoonet/zoonet/internal/config"
	"github.com/zoonet/zoonet/internal/database"
	"github.com/zoonet/zoonet/internal/models"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	FeedCache *cache.FeedCache
	StartTime time.Time // Track server start time for uptime calculations
}

// TemplateData represents common template data
type TemplateData struct {
	Title        string
	CurrentTime  string
	AppVersion   string
	User         *models.User
	FlashError   string
	FlashSuccess string
}

// FeedPageData represents data for the paginated feed pages
type FeedPageData struct {
	TemplateData
	Posts      []*models.Post
	Pagination *models.PaginationInfo

	// Scope of the feed, set by the handler that owns the page
	Group     *models.Group
	Author    *models.User
	Following bool
}

// PostPageData represents data for the post detail page
type PostPageData struct {
	TemplateData
	Post     *models.Post
	Author   *models.User
	Comments []*models.Comment
	Form     *CommentForm
}

// PostFormPageData represents data for the new/edit post form page
type PostFormPageData struct {
	TemplateData
	Form   *PostForm
	Groups []*models.Group
	Post   *models.Post // set when editing
	IsEdit bool
}

// AuthPageData represents data for the login/register pages
type AuthPageData struct {
	TemplateData
	Username string
	Redirect string
	Error    string
}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig, feedCache *cache.FeedCache) *WebServer {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	router.Use(secure.New(secureConfig))

	server := &WebServer{
		DB:        db,
		Router:    router,
		Config:    webconfig,
		FeedCache: feedCache,
		StartTime: time.Now(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Uploaded post images
	s.Router.Static("/uploads", s.Config.UploadsDir)

	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Authentication routes (high priority)
	s.Router.GET("/login", s.loginPage)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.GET("/logout", s.logout)

	// Public feed and detail pages
	s.Router.GET("/", s.indexPage)
	s.Router.GET("/group/:slug", s.groupPage)
	s.Router.GET("/profile/:username", s.profilePage)
	s.Router.GET("/posts/:username/:id", s.postPage)

	// Authenticated routes
	auth := s.Router.Group("/")
	auth.Use(s.WebAuthRequired())
	{
		auth.GET("/posts/new", s.newPostPage)
		auth.POST("/posts/new", s.newPostSubmit)
		auth.GET("/posts/:username/:id/edit", s.editPostPage)
		auth.POST("/posts/:username/:id/edit", s.editPostSubmit)
		auth.POST("/posts/:username/:id/comment", s.addComment)
		auth.GET("/follow", s.followFeedPage)
		auth.GET("/profile/:username/follow", s.profileFollow)
		auth.GET("/profile/:username/unfollow", s.profileUnfollow)
	}
}

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// Start runs the HTTP server until the listener fails or is shut down
func (s *WebServer) Start() error {
	addr := fmt.Sprintf(":%d", s.Config.ListenPort)
	if s.Config.SSL {
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	}
	return s.Router.Run(addr)
}
