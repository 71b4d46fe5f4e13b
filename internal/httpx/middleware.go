package httpx

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gostorefront/storefront/internal/session"
)

const sessionKey = "session"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.Printf("[http] rid=%v %s %s status=%d dur=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Sessions decodes the session cookie on every request and attaches the
// result to the context. A missing, expired or tampered token yields an
// anonymous session rather than an error.
func Sessions(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Session{Cart: map[string]int{}}
		if tok, err := c.Cookie(session.CookieName); err == nil && tok != "" {
			if dec, err := codec.Decode(tok); err == nil {
				s = dec
			}
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(session.Session); ok {
			return s
		}
	}
	return session.Session{Cart: map[string]int{}}
}

// SaveSession reissues the signed cookie and updates the context so
// later reads within the same request see the new state.
func SaveSession(c *gin.Context, codec *session.Codec, s session.Session) error {
	tok, err := codec.Encode(s)
	if err != nil {
		return err
	}
	c.Set(sessionKey, s)
	c.SetCookie(session.CookieName, tok, codec.CookieMaxAge(s), "/", "", false, true)
	return nil
}

// RequireUser fails closed: no session identity means 401, regardless of
// what the route would otherwise do.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !s.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
