package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/store"
	"github.com/existflow/daygrid/internal/token"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds server settings, supplied via environment by the
// entrypoint.
type Config struct {
	DatabaseURL string
	Secret      string // shared secret for signing bearer tokens
	UploadDir   string // managed upload area for task images
}

// Server is the calendar API server
type Server struct {
	store     *store.Store
	tokens    *token.Service
	uploadDir string
	echo      *echo.Echo
}

// New creates a new server
func New(cfg Config) (*Server, error) {
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewService(cfg.Secret)
	if err != nil {
		st.Close()
		return nil, err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	s := &Server{
		store:     st,
		tokens:    tokens,
		uploadDir: cfg.UploadDir,
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("size", res.Size),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	// Oversized uploads are rejected per-file with 400; this is an
	// outer cap on request bodies as a whole.
	e.Use(middleware.BodyLimit("16M"))

	// Health check
	e.GET("/health", s.handleHealth)

	// Uploaded images are also served statically by path
	e.Static("/uploads", s.uploadDir)

	api := e.Group("/api")

	// Auth endpoints (public)
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)

	protected.GET("/auth/profile", s.handleProfile)
	protected.PUT("/auth/profile", s.handleUpdateProfile)
	protected.PUT("/auth/change-password", s.handleChangePassword)
	protected.DELETE("/auth/delete", s.handleDeleteAccount)

	protected.GET("/tasks", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.PUT("/tasks/reset-colors", s.handleResetColors)
	protected.PUT("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.GET("/tasks/:id/image", s.handleGetTaskImage)
	protected.DELETE("/tasks/:id/image", s.handleDeleteTaskImage)
	protected.POST("/tasks/:id/duplicate", s.handleDuplicateTask)

	protected.GET("/usercolors", s.handleListColors)
	protected.POST("/usercolors", s.handleCreateColor)
	protected.PUT("/usercolors/:id", s.handleUpdateColor)
	protected.DELETE("/usercolors/:id", s.handleDeleteColor)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.store.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
