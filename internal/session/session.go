// Package session encodes the per-visitor session credential. The whole
// session (identity plus cart) travels in a signed token held by the
// browser; the server keeps no session row.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "storefront_session"

var ErrInvalid = errors.New("invalid session token")

// Session is what a request carries about its visitor. An empty UserID
// means anonymous; the cart lives here so it survives across requests
// without touching the store.
type Session struct {
	UserID   string
	Admin    bool
	Remember bool
	Cart     map[string]int
}

func (s Session) Authenticated() bool { return s.UserID != "" }

type claims struct {
	jwt.RegisteredClaims
	Admin    bool           `json:"adm,omitempty"`
	Remember bool           `json:"rem,omitempty"`
	Cart     map[string]int `json:"cart,omitempty"`
}

// Codec signs and verifies session tokens with HS256. The signature is
// what makes the cookie tamper-evident.
type Codec struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
}

func NewCodec(secret string, ttl, rememberTTL time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, rememberTTL: rememberTTL}
}

func (c *Codec) Encode(s Session) (string, error) {
	ttl := c.ttl
	if s.Remember {
		ttl = c.rememberTTL
	}
	now := time.Now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Admin:    s.Admin,
		Remember: s.Remember,
		Cart:     s.Cart,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
}

func (c *Codec) Decode(token string) (Session, error) {
	var cl claims
	t, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !t.Valid {
		return Session{}, ErrInvalid
	}
	s := Session{
		UserID:   cl.Subject,
		Admin:    cl.Admin,
		Remember: cl.Remember,
		Cart:     cl.Cart,
	}
	if s.Cart == nil {
		s.Cart = map[string]int{}
	}
	return s, nil
}

// CookieMaxAge is 0 (browser-session cookie) unless the visitor asked to
// be remembered, in which case the cookie outlives the browser session.
func (c *Codec) CookieMaxAge(s Session) int {
	if s.Remember {
		return int(c.rememberTTL / time.Second)
	}
	return 0
}
