package httpapi

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/backend/googleauth"
	"taskflow/internal/service"
)

// Session keys.
const (
	keyState     = "oauth_state"
	keyVerifier  = "oauth_verifier"
	keyPrincipal = "principal_id"
)

// localsPrincipal is the c.Locals key holding the authenticated principal.
const localsPrincipal = "principal"

// userResponse is the public view of a principal.
type userResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// handleLogin starts the authorization-code flow. The state and PKCE
// verifier are kept in the session for the callback.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		s.logger.Error("cannot load session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Error starting login")
	}

	state := googleauth.NewState()
	verifier := googleauth.NewVerifier()
	sess.Set(keyState, state)
	sess.Set(keyVerifier, verifier)
	if err := sess.Save(); err != nil {
		s.logger.Error("cannot save session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Error starting login")
	}

	return c.Redirect(s.identity.AuthCodeURL(state, verifier))
}

// handleCallback completes the login. Any failure sends the browser back
// to the login page.
func (s *Server) handleCallback(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot load session: %w", err))
	}

	want, _ := sess.Get(keyState).(string)
	verifier, _ := sess.Get(keyVerifier).(string)
	if want == "" {
		return s.loginFailed(c, errors.New("no login in progress"))
	}

	// The state is single use
	sess.Delete(keyState)
	sess.Delete(keyVerifier)
	if err := sess.Save(); err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot save session: %w", err))
	}

	if reason := c.Query("error"); reason != "" {
		return s.loginFailed(c, fmt.Errorf("provider returned %s", reason))
	}
	if c.Query("state") != want {
		return s.loginFailed(c, errors.New("state mismatch"))
	}
	code := c.Query("code")
	if code == "" {
		return s.loginFailed(c, errors.New("missing authorization code"))
	}

	profile, err := s.identity.Exchange(c.UserContext(), code, verifier)
	if err != nil {
		return s.loginFailed(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()
	principal, err := s.principals.UpsertPrincipal(ctx, profile)
	if err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot store principal: %w", err))
	}

	// A fresh session id after login; the pre-login id is discarded
	sess, err = s.sessions.Get(c)
	if err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot load session: %w", err))
	}
	if err := sess.Regenerate(); err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot regenerate session: %w", err))
	}
	sess.Set(keyPrincipal, principal.ID)
	if err := sess.Save(); err != nil {
		return s.loginFailed(c, fmt.Errorf("cannot save session: %w", err))
	}

	s.logger.Info("principal logged in", "principal", principal.ID)
	return c.Redirect(s.frontendURL + "/dashboard")
}

func (s *Server) loginFailed(c *fiber.Ctx, err error) error {
	s.logger.Warn("login failed", "error", err)
	return c.Redirect(s.frontendURL + "/login")
}

// handleLogout destroys the session in storage and expires the cookie.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		s.logger.Error("cannot load session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Error logging out")
	}
	if err := sess.Destroy(); err != nil {
		s.logger.Error("cannot destroy session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Error destroying session")
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// handleCurrent reports the principal behind the session, if any.
func (s *Server) handleCurrent(c *fiber.Ctx) error {
	p, err := s.authenticate(c)
	if errors.Is(err, service.ErrUnauthenticated) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"authenticated": false})
	}
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user": userResponse{
			ID:     p.ID,
			Name:   p.Name,
			Email:  p.Email,
			Avatar: p.Avatar,
		},
	})
}
