package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/notes/internal/config"
	"github.com/alkime/notes/internal/note"
	"github.com/alkime/notes/internal/store"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	notes  store.Store
	now    func() time.Time
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, notes store.Store) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	// Configure proxy trust for production (Fly.io)
	if cfg.IsProduction() {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		notes:  notes,
		now:    time.Now,
	}

	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/notes", s.handleListNotes)
		api.POST("/notes", s.handleCreateNote)
	}

	// Added after the API routes, so it only serves paths no route matched.
	if s.config.PublicDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
		s.logger.Debug("Serving static files", "dir", s.config.PublicDir)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "notes",
	})
}

func (s *Server) handleListNotes(c *gin.Context) {
	notes, err := s.notes.List(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list notes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})

		return
	}

	if notes == nil {
		notes = []note.Note{}
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

type createNoteRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	n, err := note.New(req.Content, s.now())
	if errors.Is(err, note.ErrEmptyContent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.notes.Add(c.Request.Context(), n); err != nil {
		s.logger.Error("Failed to store note", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store note"})

		return
	}

	s.logger.Info("Note created", "id", n.ID)
	c.JSON(http.StatusCreated, n)
}
