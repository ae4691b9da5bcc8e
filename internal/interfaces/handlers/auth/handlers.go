package auth

import (
	authsvc "wealthdesk-backend/internal/application/auth"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/middleware"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Auth   *authsvc.Service
	Rdb    *redis.Client
	Config middleware.SessionConfig
}

func advisorView(a *domain.Advisor) fiber.Map {
	return fiber.Map{
		"advisor_id": a.AdvisorID.String(),
		"name":       a.Name,
		"email":      a.Email,
	}
}

// Register POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	a, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Advisor registered successfully", fiber.Map{"user": advisorView(a)}, nil)
}

// Login POST /api/v1/auth/login: authenticate, start a fresh session, track it
// under advisor_sessions:<id> and set the cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, authsvc.ErrEmailPasswordRequired.Message, fiber.StatusBadRequest, nil)
	}
	a, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		AdvisorID: a.AdvisorID.String(),
		Name:      a.Name,
		Email:     a.Email,
	})
	if err := h.Rdb.SAdd(c.UserContext(), middleware.AdvisorSessionsPrefix+a.AdvisorID.String(), sessionID).Err(); err != nil {
		log.Error().Err(err).Msg("failed to track advisor session")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = middleware.SessionCookieValue(h.Config.Secret, sessionID)
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{"user": advisorView(a)}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		if middleware.GetSessionID(c) == "" {
			log.Debug().Str("path", c.Path()).Msg("auth/me: no session cookie")
		}
		return response.FromError(c, err)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout: drop the session from Redis and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sessionID := middleware.GetSessionID(c)

	if sessionID != "" {
		if user, err := authsvc.VerifyUser(middleware.GetUser(c)); err == nil {
			_ = h.Rdb.SRem(ctx, middleware.AdvisorSessionsPrefix+user.AdvisorID, sessionID).Err()
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

// LogoutAll DELETE /api/v1/auth/sessions: end every session of the current
// advisor, on all devices.
func (h *Handlers) LogoutAll(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.FromError(c, err)
	}
	middleware.DestroyAdvisorSessions(c.UserContext(), h.Rdb, user.AdvisorID)
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.Success(c, "All sessions ended", nil, nil)
}
