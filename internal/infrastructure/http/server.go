// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/domain/usecases"
)

//go:embed static/*
var staticFS embed.FS

// DatasetStatus reports the currently published dataset generation.
type DatasetStatus interface {
	Current() *usecases.Knowledge
}

// Server is the HTTP server for the chat widget and its API.
type Server struct {
	app      *fiber.App
	chatbot  *usecases.Chatbot
	dataset  DatasetStatus
	session  *usecases.SessionUseCase
	validate *validator.Validate
	logger   *zap.Logger
	addr     string
}

// NewServer creates a new HTTP server and registers every route.
// metrics may be nil, in which case /metrics is not served.
func NewServer(
	chatbot *usecases.Chatbot,
	dataset DatasetStatus,
	session *usecases.SessionUseCase,
	metrics http.Handler,
	addr string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		chatbot:  chatbot,
		dataset:  dataset,
		session:  session,
		validate: validator.New(),
		logger:   logger,
		addr:     addr,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "faqbot",
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/", s.handleIndex)
	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(staticFS),
		PathPrefix: "static",
	}))
	if metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)

	api.Post("/chat", s.widgetClient, s.handleChat)
	api.Get("/session", s.widgetClient, s.handleSessionStatus)
	api.Post("/session/login", s.widgetClient, s.handleLogin)
	api.Post("/session/logout", s.widgetClient, s.handleLogout)
	api.Get("/theme", s.widgetClient, s.handleTheme)
	api.Post("/theme/toggle", s.widgetClient, s.handleToggleTheme)

	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("faqbot server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	return s.app.Listen(s.addr)
}

// handleError renders every error as {"error": "..."}.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// requestLogger logs method, path, status and latency for every request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	s.logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)))
	return err
}
