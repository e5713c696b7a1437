package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"hbnb_web/internal/adapters/hbnb"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/app"
	"hbnb_web/internal/auth"
	"hbnb_web/internal/domain"
)

// ---- fake HBnB API ----

type fakeAPI struct {
	mu sync.Mutex

	places    []map[string]any
	reviews   map[string][]map[string]any // keyed by place id
	users     map[string]map[string]any
	amenities []map[string]any

	loginStatus int // 0 means 200
	loginBody   map[string]any

	listPlacesStatus int // forced status for GET /places/, 0 means ok

	placeGets      int
	reviewCreates  int
	amenityCreates int
}

func (f *fakeAPI) handler() http.Handler {
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()

	r.Post("/users/login", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		status, body := f.loginStatus, f.loginBody
		f.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		writeJSON(w, status, body)
	})

	r.Get("/places/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		status, places := f.listPlacesStatus, f.places
		f.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, places)
	})
	r.Get("/places/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.placeGets++
		places := f.places
		f.mu.Unlock()
		id := chi.URLParam(req, "id")
		for _, p := range places {
			if p["id"] == id {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Place not found"})
	})
	r.Get("/places/{id}/reviews", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		revs := f.reviews[chi.URLParam(req, "id")]
		f.mu.Unlock()
		if revs == nil {
			revs = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, revs)
	})

	r.Get("/users/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		out := make([]map[string]any, 0, len(f.users))
		for _, u := range f.users {
			out = append(out, u)
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		u, ok := f.users[chi.URLParam(req, "id")]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})

	r.Get("/reviews/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		out := []map[string]any{}
		for _, revs := range f.reviews {
			out = append(out, revs...)
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/reviews/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.reviewCreates++
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": "r-new"})
	})

	r.Get("/amenities/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		am := f.amenities
		f.mu.Unlock()
		if am == nil {
			am = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, am)
	})
	r.Post("/amenities/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.amenityCreates++
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": "a-new"})
	})

	return r
}

// ---- harness ----

type harness struct {
	api   *fakeAPI
	cache *redisad.UserInfoCache
	srv   *Server
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()

	ts := httptest.NewServer(api.handler())
	t.Cleanup(ts.Close)

	client, err := hbnb.New(ts.URL, 100, 2*time.Second)
	if err != nil {
		t.Fatalf("client init: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0, time.Minute)

	tmpl, err := NewTemplates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	srv := New()
	srv.MountHandlers(&Handlers{
		Listings:      app.NewListingService(client, cache, 2),
		Account:       app.NewAccountService(client, cache),
		Admin:         app.NewAdminService(client),
		Sessions:      auth.NewCookieStore("token", time.Hour, false),
		AdminSessions: auth.NewCookieStore("admin_token", time.Hour, false),
		Tmpl:          tmpl,
	})
	return &harness{api: api, cache: cache, srv: srv}
}

func (h *harness) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.srv.Mux().ServeHTTP(rec, req)
	return rec
}

func (h *harness) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.srv.Mux().ServeHTTP(rec, req)
	return rec
}

func signedToken(t *testing.T, userID string, admin bool) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID, "is_admin": admin})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func sessionCookie(v string) *http.Cookie      { return &http.Cookie{Name: "token", Value: v} }
func adminSessionCookie(v string) *http.Cookie { return &http.Cookie{Name: "admin_token", Value: v} }

func clearedCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) bool {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

// ---- index ----

func TestIndexRendersPlaceCards(t *testing.T) {
	api := &fakeAPI{places: []map[string]any{
		{"id": "p1", "title": "Beach House", "price": 80.0, "description": "Sea view"},
		{"id": "p2", "title": "Cabin"}, // no price, no description
	}}
	h := newHarness(t, api)

	rec := h.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Beach House", "Cabin", "$80.00", "N/A", "No description available", `href="/login"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestIndexFilterByMaxPrice(t *testing.T) {
	api := &fakeAPI{places: []map[string]any{
		{"id": "p1", "title": "Cheap", "price": 40.0},
		{"id": "p2", "title": "Posh", "price": 120.0},
	}}
	h := newHarness(t, api)

	rec := h.get(t, "/?max_price=50")
	body := rec.Body.String()
	if !strings.Contains(body, "Cheap") {
		t.Error("place under threshold was filtered out")
	}
	if strings.Contains(body, "Posh") {
		t.Error("place over threshold survived the filter")
	}

	rec = h.get(t, "/?max_price=10")
	if !strings.Contains(rec.Body.String(), "No places match your filter") {
		t.Error("narrowed-to-nothing message missing")
	}
}

func TestIndexEmptyCollection(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.get(t, "/")
	if !strings.Contains(rec.Body.String(), "No places found") {
		t.Error("empty-collection message missing")
	}
}

func TestIndexExpiredSessionGoesAnonymous(t *testing.T) {
	api := &fakeAPI{listPlacesStatus: http.StatusUnauthorized}
	h := newHarness(t, api)

	tok := signedToken(t, "u1", false)
	if err := h.cache.Set(context.Background(), domain.UserInfo{ID: "u1", FirstName: "Ann"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	rec := h.get(t, "/", sessionCookie(tok))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Your session has expired. Please log in again.") {
		t.Error("expiry message missing")
	}
	if !strings.Contains(body, `href="/login"`) {
		t.Error("expired render should be anonymous")
	}
	if !clearedCookie(t, rec, "token") {
		t.Error("session cookie was not cleared")
	}
	if info, _ := h.cache.Get(context.Background(), "u1"); info != nil {
		t.Error("cached display info survived expiry")
	}
}

// ---- place detail ----

func TestPlaceDetailMissingID(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)

	rec := h.get(t, "/place")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Place ID not found in URL.") {
		t.Error("missing-id message absent")
	}
	if api.placeGets != 0 {
		t.Errorf("backend fetched %d times for a missing id", api.placeGets)
	}
}

func TestPlaceDetailRendersReviewsWithAuthors(t *testing.T) {
	api := &fakeAPI{
		places: []map[string]any{{"id": "p1", "title": "Loft", "price": 95.0}},
		reviews: map[string][]map[string]any{
			"p1": {{"id": "r1", "user_id": "u1", "text": "Great stay", "rating": 4}},
		},
		users: map[string]map[string]any{
			"u1": {"id": "u1", "first_name": "Ann", "last_name": "Lee"},
		},
	}
	h := newHarness(t, api)

	rec := h.get(t, "/place?id=p1", sessionCookie(signedToken(t, "u1", false)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Loft", "$95.00", "No description available", "Ann Lee", "Great stay", "★★★★", `action="/reviews"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestPlaceDetailNotFound(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.get(t, "/place?id=nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Place not found") {
		t.Error("backend message not surfaced")
	}
}

func TestPlaceDetailAcceptsLegacyParam(t *testing.T) {
	api := &fakeAPI{places: []map[string]any{{"id": "p1", "title": "Loft"}}}
	h := newHarness(t, api)
	rec := h.get(t, "/place?place_id=p1")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Loft") {
		t.Fatalf("legacy place_id param not honored: status %d", rec.Code)
	}
}

// ---- reviews ----

func TestSubmitReviewValidation(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)
	cookie := sessionCookie(signedToken(t, "u1", false))

	cases := []struct {
		name   string
		form   url.Values
		expect string
	}{
		{"rating out of range", url.Values{
			"place_id": {"p1"}, "rating": {"6"}, "text": {"long enough review text"},
		}, "Rating must be between 1 and 5."},
		{"text too short", url.Values{
			"place_id": {"p1"}, "rating": {"5"}, "text": {"meh"},
		}, "Review text must be at least 10 characters long."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.postForm(t, "/reviews", tc.form, cookie)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.expect) {
				t.Errorf("body missing %q", tc.expect)
			}
		})
	}
	if api.reviewCreates != 0 {
		t.Errorf("validation failures reached the backend %d times", api.reviewCreates)
	}
}

func TestSubmitReviewSuccessRedirects(t *testing.T) {
	api := &fakeAPI{places: []map[string]any{{"id": "p1", "title": "Loft"}}}
	h := newHarness(t, api)

	rec := h.postForm(t, "/reviews", url.Values{
		"place_id": {"p1"}, "rating": {"5"}, "text": {"a perfectly lovely stay"},
	}, sessionCookie(signedToken(t, "u1", false)))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/place?id=p1" {
		t.Errorf("Location = %q", loc)
	}
	if api.reviewCreates != 1 {
		t.Errorf("reviewCreates = %d, want 1", api.reviewCreates)
	}
}

func TestSubmitReviewAnonymousRedirectsToLogin(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)
	rec := h.postForm(t, "/reviews", url.Values{
		"place_id": {"p1"}, "rating": {"5"}, "text": {"a perfectly lovely stay"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if api.reviewCreates != 0 {
		t.Error("anonymous submit reached the backend")
	}
}

// ---- login ----

func TestLoginSuccessSetsCookie(t *testing.T) {
	tok := signedToken(t, "u1", false)
	api := &fakeAPI{loginBody: map[string]any{
		"access_token": tok,
		"user":         map[string]any{"id": "u1", "first_name": "Ann"},
	}}
	h := newHarness(t, api)

	rec := h.postForm(t, "/login", url.Values{"email": {"ann@example.com"}, "password": {"secret1"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303, body %s", rec.Code, rec.Body.String())
	}
	var got string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			got = c.Value
		}
	}
	if got != tok {
		t.Errorf("session cookie = %q, want the issued token", got)
	}
	info, err := h.cache.Get(context.Background(), "u1")
	if err != nil || info == nil || info.DisplayName() != "Ann" {
		t.Errorf("display info not cached after login: %v %v", info, err)
	}
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	api := &fakeAPI{
		loginStatus: http.StatusUnauthorized,
		loginBody:   map[string]any{"error": "Invalid credentials"},
	}
	h := newHarness(t, api)

	rec := h.postForm(t, "/login", url.Values{"email": {"ann@example.com"}, "password": {"wrongpw"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Login failed: Invalid credentials") {
		t.Errorf("backend message not surfaced: %s", rec.Body.String())
	}
}

func TestLoginValidationBeforeNetwork(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.postForm(t, "/login", url.Values{"email": {"not-an-email"}, "password": {"secret1"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.get(t, "/logout", sessionCookie(signedToken(t, "u1", false)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if !clearedCookie(t, rec, "token") {
		t.Error("logout did not clear the session cookie")
	}
}

// ---- admin ----

func TestAdminPanelAnonymousShowsLogin(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.get(t, "/admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/admin/login"`) {
		t.Error("anonymous admin page should show the login form")
	}
}

func TestAdminPanelRejectsNonAdminToken(t *testing.T) {
	h := newHarness(t, &fakeAPI{})
	rec := h.get(t, "/admin", adminSessionCookie(signedToken(t, "u1", false)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied: admin privileges required") {
		t.Error("refusal message missing")
	}
	if !clearedCookie(t, rec, "admin_token") {
		t.Error("non-admin token should be discarded on sight")
	}
}

func TestAdminPanelRendersSections(t *testing.T) {
	api := &fakeAPI{
		places:    []map[string]any{{"id": "p1", "title": "Loft", "price": 95.0}},
		amenities: []map[string]any{{"id": "a1", "name": "Wi-Fi"}},
		users: map[string]map[string]any{
			"u1": {"id": "u1", "first_name": "Ann", "last_name": "Lee", "email": "ann@example.com", "is_admin": true},
		},
		reviews: map[string][]map[string]any{
			"p1": {{"id": "r1", "user_id": "u1", "text": "Great stay", "rating": 4}},
		},
	}
	h := newHarness(t, api)

	rec := h.get(t, "/admin", adminSessionCookie(signedToken(t, "u1", true)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Admin Panel", "Ann Lee", "Wi-Fi", "Loft", "Great stay"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAdminLoginWrongPrivilege(t *testing.T) {
	api := &fakeAPI{loginBody: map[string]any{"access_token": signedToken(t, "u1", false)}}
	h := newHarness(t, api)

	rec := h.postForm(t, "/admin/login", url.Values{"email": {"ann@example.com"}, "password": {"secret1"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied: admin privileges required") {
		t.Error("refusal message missing")
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_token" && c.Value != "" {
			t.Error("non-admin login must not mint an admin session")
		}
	}
}

func TestAdminCreateAmenity(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)

	rec := h.postForm(t, "/admin/amenities", url.Values{"name": {"Pool"}},
		adminSessionCookie(signedToken(t, "u1", true)))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/admin?notice=") {
		t.Errorf("Location = %q", loc)
	}
	if api.amenityCreates != 1 {
		t.Errorf("amenityCreates = %d, want 1", api.amenityCreates)
	}
}

func TestAdminMutationRequiresSession(t *testing.T) {
	api := &fakeAPI{}
	h := newHarness(t, api)

	rec := h.postForm(t, "/admin/amenities", url.Values{"name": {"Pool"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
	if api.amenityCreates != 0 {
		t.Error("unauthenticated mutation reached the backend")
	}
}
