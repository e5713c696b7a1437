package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hbnb_web/internal/auth"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestDecode_AdminClaims(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u1", "is_admin": true})

	c, ok := auth.Decode(tok)
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if c.UserID != "u1" || !c.IsAdmin {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestDecode_MissingAdminFlagDefaultsFalse(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u2"})

	c, ok := auth.Decode(tok)
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if c.IsAdmin {
		t.Fatalf("is_admin should default to false")
	}
}

func TestDecode_GarbageIsUnauthenticated(t *testing.T) {
	for _, in := range []string{"", "not-a-jwt", "a.b", "a.%%%.c", "x.y.z.w"} {
		if _, ok := auth.Decode(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestCookieStore_RoundTrip(t *testing.T) {
	st := auth.NewCookieStore("token", 7*24*time.Hour, false)

	rr := httptest.NewRecorder()
	st.SetToken(rr, "abc")

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "token" || ck.Value != "abc" || ck.Path != "/" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if !ck.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	if got := st.Token(req); got != "abc" {
		t.Fatalf("Token() = %q", got)
	}
}

func TestCookieStore_Clear(t *testing.T) {
	st := auth.NewCookieStore("admin_token", 24*time.Hour, false)

	rr := httptest.NewRecorder()
	st.Clear(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}
