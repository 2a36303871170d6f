// Web server entry point for zoonet
package main

import (
	"flag"
	"log"
	"time"

	"github.com/zoonet/zoonet/internal/cache"
	"github.com/zoonet/zoonet/internal/config"
	"github.com/zoonet/zoonet/internal/database"
	"github.com/zoonet/zoonet/internal/web"
)

var appVersion = "-unset-" // set at build time

var (
	// command-line flags
	dbPath           string
	webport          int
	webssl           bool
	webcertFile      string
	webkeyFile       string
	templateDir      string
	uploadsDir       string
	feedCacheEntries int
	feedCacheExpiry  int
	debugFlag        bool
)

func main() {
	config.AppVersion = appVersion

	cfg := config.NewDefaultConfig()
	cfg.LoadFromEnv()

	flag.StringVar(&dbPath, "db", cfg.Database.DBPath, "path to the sqlite database file")
	flag.IntVar(&webport, "webport", cfg.Web.ListenPort, "web server listen port")
	flag.BoolVar(&webssl, "webssl", cfg.Web.SSL, "serve HTTPS directly (use behind a reverse proxy instead if you can)")
	flag.StringVar(&webcertFile, "webcertfile", cfg.Web.CertFile, "path to TLS certificate")
	flag.StringVar(&webkeyFile, "webkeyfile", cfg.Web.KeyFile, "path to TLS key")
	flag.StringVar(&templateDir, "templates", cfg.Web.TemplateDir, "path to the HTML template directory")
	flag.StringVar(&uploadsDir, "uploads", cfg.Web.UploadsDir, "directory for uploaded post images")
	flag.IntVar(&feedCacheEntries, "maxfeedcache", config.DefaultFeedCacheEntries, "maximum number of cached feed pages")
	flag.IntVar(&feedCacheExpiry, "maxfeedcacheexpiry", config.DefaultFeedCacheExpiry, "expiry of cached feed pages in minutes")
	flag.BoolVar(&debugFlag, "debug", cfg.Web.Debug, "enable debug logging")
	flag.Parse()

	cfg.Database.DBPath = dbPath
	cfg.Web.ListenPort = webport
	cfg.Web.SSL = webssl
	cfg.Web.CertFile = webcertFile
	cfg.Web.KeyFile = webkeyFile
	cfg.Web.TemplateDir = templateDir
	cfg.Web.UploadsDir = uploadsDir
	cfg.Web.Debug = debugFlag

	log.Printf("Starting zoonet web server (version: %s)", appVersion)

	db, err := database.OpenDatabase(cfg.Database.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	feedCache := cache.NewFeedCache(feedCacheEntries, time.Duration(feedCacheExpiry)*time.Minute)
	defer feedCache.Close()

	server := web.NewServer(db, &cfg.Web, feedCache)

	log.Printf("Listening on :%d", server.GetPort())
	if err := server.Start(); err != nil {
		log.Fatalf("Web server failed: %v", err)
	}
}
