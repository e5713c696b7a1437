package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the pages need from the session token. The payload is read
// without signature verification: it gates UI only, the backend authorizes
// every mutating call on its own.
type Claims struct {
	UserID  string
	IsAdmin bool
}

// Decode reads the claims out of a compact JWT. Any malformed input yields
// (Claims{}, false) and is treated as "not authenticated".
func Decode(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}
	var c Claims
	switch sub := mc["sub"].(type) {
	case string:
		c.UserID = sub
	case map[string]any:
		// some backends nest the subject as {"id": "..."}
		if id, ok := sub["id"].(string); ok {
			c.UserID = id
		}
	}
	if admin, ok := mc["is_admin"].(bool); ok {
		c.IsAdmin = admin
	}
	if c.UserID == "" {
		return Claims{}, false
	}
	return c, true
}

// CookieStore keeps the raw bearer token in a browser cookie. Pages differ
// only in cookie name and lifetime (the public pages use "token" for 7 days,
// the admin panel "admin_token" for 1 day).
type CookieStore struct {
	name   string
	ttl    time.Duration
	secure bool
}

func NewCookieStore(name string, ttl time.Duration, secure bool) *CookieStore {
	return &CookieStore{name: name, ttl: ttl, secure: secure}
}

func (s *CookieStore) Token(r *http.Request) string {
	c, err := r.Cookie(s.name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieStore) SetToken(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Claims is a convenience for handlers: token from the request, decoded.
func (s *CookieStore) Claims(r *http.Request) (string, Claims, bool) {
	tok := s.Token(r)
	c, ok := Decode(tok)
	if !ok {
		return "", Claims{}, false
	}
	return tok, c, true
}
