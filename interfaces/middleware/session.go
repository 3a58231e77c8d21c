package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trending-videos/usecase"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"
	sessionKey    = "searchSession"
)

// Session attaches the caller's search session to the request. The id comes
// from the X-Session-ID header or the session_id cookie; a new one is issued
// when neither is present or the value is not a uuid.
func Session(registry *usecase.SessionRegistry, ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(SessionHeader)
		if id == "" {
			id, _ = ctx.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx.Header(SessionHeader, id)
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
		ctx.Set(sessionKey, registry.Session(id))
		ctx.Next()
	}
}

// SearchSession returns the session attached by Session, if any
func SearchSession(ctx *gin.Context) (*usecase.SearchSession, bool) {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*usecase.SearchSession)
	return session, ok
}
