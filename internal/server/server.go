// Package server exposes a running capture session over HTTP: health
// and stats endpoints, the filtered buffer as JSON, and a websocket
// stream of live entries.
package server

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/nitr-himanshu/adb-util/internal/session"
	"github.com/nitr-himanshu/adb-util/internal/stats"
)

// Server holds the Gin engine and its dependencies.
type Server struct {
	engine *gin.Engine
	sess   *session.Session
	stats  *stats.Collector
	port   string
}

// New creates the HTTP surface for a session.
func New(sess *session.Session, collector *stats.Collector, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		sess:   sess,
		stats:  collector,
		port:   port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		snap := s.stats.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"state":      s.sess.State().String(),
			"uptime":     snap.Uptime,
			"per_second": snap.PerSecond,
			"dropped":    snap.Dropped,
		})
	})

	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot())
	})

	// The buffered history, filtered by the active spec.
	s.engine.GET("/api/entries", func(c *gin.Context) {
		entries := s.sess.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"format":  s.sess.Format().String(),
			"count":   len(entries),
			"filter":  s.sess.Filter().Describe(),
			"entries": entries,
		})
	})

	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.port)
}
