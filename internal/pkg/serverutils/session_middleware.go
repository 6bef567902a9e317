// FILE: internal/pkg/serverutils/session_middleware.go
package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookieName carries the opaque session id between calls.
const SessionCookieName = "docchat_session"

const (
	sessionLocalsKey     = "session_id"
	sessionFromClientKey = "session_from_client"

	sessionCookieMaxAge = 24 * time.Hour
)

// SessionMiddleware guarantees every request has a session id. A cookie sent
// by the client is reused as-is; otherwise a fresh uuid is minted and set so
// the next call round-trips it. Handlers read the result via SessionID.
func SessionMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		fromClient := ctx.Cookies(SessionCookieName)

		sessionID := fromClient
		if sessionID == "" {
			sessionID = uuid.NewString()
			ctx.Cookie(&fiber.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		ctx.Locals(sessionLocalsKey, sessionID)
		ctx.Locals(sessionFromClientKey, fromClient != "")
		return ctx.Next()
	}
}

// SessionID resolves the acting session for a request. A cookie the client
// actually sent takes precedence; otherwise an explicit id from the request
// body or query wins over the freshly minted one, since it names a session
// that already exists server-side.
func SessionID(ctx *fiber.Ctx, fallback string) string {
	id, _ := ctx.Locals(sessionLocalsKey).(string)
	fromClient, _ := ctx.Locals(sessionFromClientKey).(bool)

	if fromClient || fallback == "" {
		return id
	}
	return fallback
}
