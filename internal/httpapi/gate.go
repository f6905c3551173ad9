package httpapi

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/service"
)

// requireAuth admits only requests whose session names a known principal.
// The principal is stored in c.Locals for the handlers.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	p, err := s.authenticate(c)
	if errors.Is(err, service.ErrUnauthenticated) {
		return jsonError(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	c.Locals(localsPrincipal, p)
	return c.Next()
}

// authenticate resolves the session to a principal. It returns
// service.ErrUnauthenticated when there is none and a store failure when
// the lookup itself fails.
func (s *Server) authenticate(c *fiber.Ctx) (service.Principal, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return service.Principal{}, fmt.Errorf("%w: load session: %w", service.ErrStoreFailure, err)
	}

	id, _ := sess.Get(keyPrincipal).(string)
	if id == "" {
		return service.Principal{}, service.ErrUnauthenticated
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	p, err := s.principals.FindPrincipal(ctx, id)
	if errors.Is(err, service.ErrPrincipalNotFound) {
		return service.Principal{}, service.ErrUnauthenticated
	}
	if err != nil {
		return service.Principal{}, fmt.Errorf("%w: find principal: %w", service.ErrStoreFailure, err)
	}
	return p, nil
}

// principal returns the principal stored by requireAuth.
func principal(c *fiber.Ctx) service.Principal {
	p, _ := c.Locals(localsPrincipal).(service.Principal)
	return p
}
