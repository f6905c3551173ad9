// Package httpapi serves the REST API: Google login, the task endpoints and
// the chat assistant, all behind a cookie session.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"taskflow/internal/chatbot"
	"taskflow/internal/service"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "taskflow_session"

// DefaultTimeout bounds the store calls made while serving one request.
const DefaultTimeout = 5 * time.Second

// Identity is the OAuth identity provider used for login.
type Identity interface {
	// AuthCodeURL returns the provider consent URL for state and the PKCE verifier.
	AuthCodeURL(state, verifier string) string

	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code, verifier string) (service.Profile, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the HTTP surface settings.
type Config struct {
	// FrontendURL is the allowed CORS origin and the base of login redirects.
	FrontendURL string

	// Timeout bounds store calls per request. Zero means DefaultTimeout.
	Timeout time.Duration

	SessionExpiration time.Duration
	CookieSecure      bool

	// SessionStorage keeps session data. Nil keeps sessions in memory.
	SessionStorage fiber.Storage

	// RequestLog receives one line per request. Nil disables request logging.
	RequestLog io.Writer
}

// Deps are the collaborators of the server.
type Deps struct {
	Tasks      *service.TaskService
	Principals service.PrincipalStore
	Identity   Identity
	Bot        *chatbot.Bot
	Health     Pinger
	Logger     *slog.Logger
}

// Server is the HTTP surface.
type Server struct {
	app        *fiber.App
	sessions   *session.Store
	tasks      *service.TaskService
	principals service.PrincipalStore
	identity   Identity
	bot        *chatbot.Bot
	health     Pinger
	logger     *slog.Logger

	frontendURL string
	timeout     time.Duration
}

// New creates a Server with all routes registered.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		tasks:       deps.Tasks,
		principals:  deps.Principals,
		identity:    deps.Identity,
		bot:         deps.Bot,
		health:      deps.Health,
		logger:      deps.Logger,
		frontendURL: cfg.FrontendURL,
		timeout:     cfg.Timeout,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.bot == nil {
		s.bot = chatbot.New(chatbot.DefaultDelay)
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}

	s.sessions = session.New(session.Config{
		Expiration:     cfg.SessionExpiration,
		Storage:        cfg.SessionStorage,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	if cfg.RequestLog != nil {
		s.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
			Output: cfg.RequestLog,
		}))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	s.routes()
	return s
}

// routes registers all endpoints.
func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	auth := s.app.Group("/auth")
	auth.Get("/google", s.handleLogin)
	auth.Get("/google/callback", s.handleCallback)
	auth.Get("/logout", s.handleLogout)
	auth.Get("/current", s.handleCurrent)

	api := s.app.Group("/api", s.requireAuth)
	api.Get("/tasks", s.handleListTasks)
	api.Post("/tasks", s.handleCreateTask)
	api.Get("/tasks/:id", s.handleGetTask)
	api.Put("/tasks/:id", s.handleUpdateTask)
	api.Delete("/tasks/:id", s.handleDeleteTask)
	api.Patch("/tasks/:id/toggle", s.handleToggleTask)
	api.Get("/chat", s.handleChatGreeting)
	api.Post("/chat", s.handleChat)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections, waits for in-flight requests
// and closes the session storage.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	if cerr := s.sessions.Storage.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close session storage: %w", cerr))
	}
	return err
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	if s.health != nil {
		ctx, cancel := s.requestContext(c)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Error("health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// requestContext derives the per-request context for store calls.
func (s *Server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), s.timeout)
}
