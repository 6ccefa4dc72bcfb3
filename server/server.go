// Package server exposes the task store over HTTP and relays contact form
// messages by email.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifeinfocus/focus/store"
)

// Server is the focus HTTP API.
type Server struct {
	store  store.TaskStore
	mailer Mailer
	logger *slog.Logger
	engine *gin.Engine
	secret []byte
}

// Option configures a Server.
type Option func(*Server)

// WithMailer enables the contact form relay.
func WithMailer(m Mailer) Option {
	return func(s *Server) {
		s.mailer = m
	}
}

// WithJWTSecret requires a bearer token signed with secret on every task
// route and scopes tasks to the token's subject.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithLogger sets the logger for requests and failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New builds the API on top of a task store.
func New(ts store.TaskStore, opts ...Option) *Server {
	s := &Server{
		store:  ts,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = s.routes()

	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(s.requestLogger, gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.POST("/send-email", s.sendEmail)

	tasks := engine.Group("/")
	if s.secret != nil {
		tasks.Use(s.authenticate)
	}

	tasks.POST("/task", s.createTask)
	tasks.GET("/latest-session", s.latestSessions)
	tasks.GET("/tasks", s.listTasks)
	tasks.GET("/task/:id", s.getTask)
	tasks.PUT("/task/:id", s.updateTask)
	tasks.DELETE("/task/:id", s.deleteTask)

	return engine
}

// requestLogger logs every request once it has been served.
func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()

	c.Next()

	status := c.Writer.Status()

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	s.logger.LogAttrs(
		c.Request.Context(),
		level,
		"request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Int("status", status),
		slog.Duration("latency", time.Since(start)),
		slog.String("client_ip", c.ClientIP()),
	)
}
