// Package httpserver exposes the session engine over a local JSON API.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pomoplayer/internal/core/model"
	"pomoplayer/internal/core/timekeeper"
)

// DefaultAddr is the loopback address the API binds when none is given.
const DefaultAddr = "127.0.0.1:7426"

const (
	defaultDays  = 7
	maxStatsDays = 366
)

// Engine is the control surface driven by the API.
type Engine interface {
	Snapshot() timekeeper.Snapshot
	Settings() model.Settings
	Title() string
	Toggle() error
	Reset() error
	Skip() error
	ChangeSessionType(sessionType model.SessionType) error
	PromptAction(action timekeeper.PromptAction) error
	ApplySettings(settings model.Settings) error
}

// Stats reports per-day session history.
type Stats interface {
	Summary(ctx context.Context, days int, now time.Time) ([]model.DaySummary, error)
}

// Server provides the HTTP control API.
type Server struct {
	addr      string
	engine    Engine
	stats     Stats
	logger    *slog.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. stats may be nil when history
// is disabled.
func NewServer(addr string, engine Engine, stats Stats, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		engine:    engine,
		stats:     stats,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/state", s.handleState)
	api.POST("/toggle", s.handleCommand(Engine.Toggle))
	api.POST("/reset", s.handleCommand(Engine.Reset))
	api.POST("/skip", s.handleCommand(Engine.Skip))
	api.POST("/session/:type", s.handleSession)
	api.POST("/prompt/:action", s.handlePrompt)
	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handlePutSettings)
	api.GET("/stats", s.handleStats)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.startTime = time.Now()
	s.logger.Info("http api listening", "addr", listener.Addr().String())

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http api stopped", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	s.writeState(c)
}

func (s *Server) handleCommand(command func(Engine) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := command(s.engine); err != nil {
			s.writeError(c, err)
			return
		}
		s.writeState(c)
	}
}

func (s *Server) handleSession(c *gin.Context) {
	sessionType, err := model.ParseSessionType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.engine.ChangeSessionType(sessionType); err != nil {
		s.writeError(c, err)
		return
	}
	s.writeState(c)
}

func (s *Server) handlePrompt(c *gin.Context) {
	action := timekeeper.PromptAction(c.Param("action"))
	if err := s.engine.PromptAction(action); err != nil {
		s.writeError(c, err)
		return
	}
	s.writeState(c)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Settings())
}

// handlePutSettings merges the request body onto the current settings, so
// clients may send only the fields they change.
func (s *Server) handlePutSettings(c *gin.Context) {
	settings := s.engine.Settings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			s.writeError(c, &model.ValidationError{Fields: []model.FieldError{typeFieldError(typeErr)}})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if err := s.engine.ApplySettings(settings); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.engine.Settings())
}

// settingsFields maps JSON paths of Settings onto validation field names.
var settingsFields = map[string]string{
	"durations.work":                  model.FieldWork,
	"durations.short_break":           model.FieldShortBreak,
	"durations.long_break":            model.FieldLongBreak,
	"cycle.sessions_until_long_break": model.FieldSessionsUntilLongBreak,
	"pause_prompt.delay_minutes":      model.FieldPausePromptDelay,
}

func typeFieldError(typeErr *json.UnmarshalTypeError) model.FieldError {
	field, ok := settingsFields[typeErr.Field]
	if !ok {
		field = typeErr.Field
	}
	message := "has the wrong type"
	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		message = "must be a whole number"
	case reflect.Bool:
		message = "must be true or false"
	case reflect.String:
		message = "must be a string"
	}
	return model.FieldError{Field: field, Message: message}
}

func (s *Server) handleStats(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session history is disabled"})
		return
	}
	days := defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxStatsDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		days = parsed
	}

	summary, err := s.stats.Summary(c.Request.Context(), days, time.Now())
	if err != nil {
		s.logger.Warn("read session stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session history"})
		return
	}
	if summary == nil {
		summary = []model.DaySummary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"days":    days,
		"summary": summary,
	})
}

func (s *Server) writeState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state": s.engine.Snapshot(),
		"title": s.engine.Title(),
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	var validation *model.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "invalid settings",
			"fields": validation.Fields,
		})
	case errors.Is(err, timekeeper.ErrNoPrompt):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, timekeeper.ErrUnknownPromptAction), errors.Is(err, model.ErrUnknownSessionType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, timekeeper.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.logger.Error("api command failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
