package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"taskflow/internal/backend/googleauth"
	"taskflow/internal/backend/gormstore"
	"taskflow/internal/chatbot"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/httpapi"
	"taskflow/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

// SetAddr overrides the listen address (for testing).
func (c *ServeCmd) SetAddr(addr string) {
	c.addr = addr
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the HTTP API until interrupted" }
func (c *ServeCmd) Usage() string     { return "taskflow serve [--config <file>] [--addr <host:port>]" }
func (c *ServeCmd) NeedsConfig() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	log := newLogger(cfg.LogLevel, cfg.Debug, errOut)

	identity, err := googleauth.NewFromConfig(cfg.OAuth)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	store, err := gormstore.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.RuntimeError
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.RuntimeError
	}

	storage, err := httpapi.NewSessionStorage(cfg.Session.RedisURL)
	if err != nil {
		store.Close()
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.RuntimeError
	}

	srv := httpapi.New(httpapi.Config{
		FrontendURL:       strings.TrimRight(cfg.FrontendURL, "/"),
		Timeout:           cfg.HTTP.Timeout,
		SessionExpiration: cfg.Session.Expiration,
		CookieSecure:      cfg.Session.CookieSecure,
		SessionStorage:    storage,
		RequestLog:        errOut,
	}, httpapi.Deps{
		Tasks:      service.NewTaskService(store),
		Principals: store,
		Identity:   identity,
		Bot:        chatbot.New(cfg.Chat.Delay),
		Health:     store,
		Logger:     log,
	})

	addr := cfg.HTTP.Address
	if c.addr != "" {
		addr = c.addr
	}

	// stop shuts the HTTP surface down before the database goes away
	stop := func(ctx context.Context) error {
		return errors.Join(srv.Shutdown(ctx), store.Close())
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.Listen(addr)
	}()
	log.Info("server started", "addr", addr, "database", cfg.Database.Path, "redis_sessions", cfg.UsesRedisSessions())

	wait := gfshutdown.GracefulShutdown(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.Info("graceful shutdown initiated")
			return stop(ctx)
		},
	})

	select {
	case code := <-wait:
		return stopped(log, code)
	case err := <-listenErr:
		if err == nil {
			// Listen returns nil once the graceful shutdown closed it
			return stopped(log, <-wait)
		}
		log.Error("server failed", "addr", addr, "error", err)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := stop(shutdownCtx); err != nil {
			log.Warn("cleanup after failure", "error", err)
		}
		return exitcode.RuntimeError
	}
}

// stopped maps the graceful shutdown result to an exit code.
func stopped(log *slog.Logger, code int) int {
	if code != 0 {
		log.Error("shutdown incomplete", "exit_code", code)
		return exitcode.RuntimeError
	}
	log.Info("server stopped")
	return exitcode.Success
}

var _ httpapi.Pinger = (*gormstore.Store)(nil)
