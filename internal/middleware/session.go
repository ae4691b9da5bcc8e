package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionConfig controls the session cookie. Secret signs the cookie value.
type SessionConfig struct {
	Secret            string
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName     = "wealthdesk.sid"
	SessionRedisPrefix    = "session:"
	AdvisorSessionsPrefix = "advisor_sessions:" // set of live session ids per advisor
	sessionMaxAge         = 24 * time.Hour
)

// SessionUser is the advisor identity stored in the session under "user".
type SessionUser struct {
	AdvisorID string `json:"advisor_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func signSessionID(secret, sid string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sid))
	return base64.RawStdEncoding.EncodeToString(mac.Sum(nil))
}

// SessionCookieValue renders sid as "s:<id>.<signature>", or "s:<id>" when no
// secret is configured.
func SessionCookieValue(secret, sid string) string {
	if secret == "" {
		return "s:" + sid
	}
	return "s:" + sid + "." + signSessionID(secret, sid)
}

// sessionIDFromCookie extracts the session id. With a secret, only
// "s:<id>.<signature>" values with a valid signature are accepted.
func sessionIDFromCookie(v, secret string) string {
	if secret == "" {
		if strings.HasPrefix(v, "s:") {
			v = strings.SplitN(v[2:], ".", 2)[0]
		}
		return v
	}
	if !strings.HasPrefix(v, "s:") {
		return ""
	}
	parts := strings.SplitN(v[2:], ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ""
	}
	if !hmac.Equal([]byte(parts[1]), []byte(signSessionID(secret, parts[0]))) {
		return ""
	}
	return parts[0]
}

// Session loads the session from Redis before the handler runs and saves it
// afterwards when the request carries (or created) a session id. Cookies with
// a bad signature are treated as absent.
func Session(rdb *redis.Client, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		sessionID := sessionIDFromCookie(c.Cookies(SessionCookieName), secret)

		var data map[string]interface{}
		if sessionID != "" {
			b, err := rdb.Get(ctx, SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, &data)
			} else if err != redis.Nil {
				log.Warn().Err(err).Msg("session load failed")
			}
		}
		if data == nil {
			data = make(map[string]interface{})
		}

		c.Locals("session_data", data)
		c.Locals(userLocal, data["user"])
		c.Locals("session_id", sessionID)

		if err := c.Next(); err != nil {
			return err
		}

		if sid, _ := c.Locals("session_id").(string); sid != "" {
			updated, _ := c.Locals("session_data").(map[string]interface{})
			if len(updated) > 0 {
				b, _ := json.Marshal(updated)
				if err := rdb.Set(ctx, SessionRedisPrefix+sid, b, sessionMaxAge).Err(); err != nil {
					log.Warn().Err(err).Msg("session save failed")
				}
			}
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context (for login/logout).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("session_id").(string)
	return sid
}

// SetSessionUser stores user in the session. Call RegenerateSessionID first.
func SetSessionUser(c *fiber.Ctx, user SessionUser) {
	data, _ := c.Locals("session_data").(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
	}
	data["user"] = map[string]interface{}{
		"advisor_id": user.AdvisorID,
		"name":       user.Name,
		"email":      user.Email,
	}
	c.Locals("session_data", data)
	c.Locals(userLocal, data["user"])
}

// RegenerateSessionID creates a new session ID and sets it in Locals (cookie set by handler).
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals("session_id", newID)
	return newID
}

// DestroySession clears user and session data from Locals; caller must clear cookie and Redis.
func DestroySession(c *fiber.Ctx) {
	c.Locals("session_data", make(map[string]interface{}))
	c.Locals(userLocal, nil)
	c.Locals("session_id", "")
}

// SessionCookieConfig returns the cookie options used to set and clear the session.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	secure := cfg.IsProduction || cfg.AllowCrossSiteDev
	return fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

// DestroyAdvisorSessions deletes every session recorded for the advisor and
// the tracking set itself.
func DestroyAdvisorSessions(ctx context.Context, rdb *redis.Client, advisorID string) {
	if advisorID == "" {
		return
	}
	key := AdvisorSessionsPrefix + advisorID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err == nil {
		for _, sid := range sessionIDs {
			rdb.Del(ctx, SessionRedisPrefix+sid)
		}
	}
	rdb.Del(ctx, key)
}
