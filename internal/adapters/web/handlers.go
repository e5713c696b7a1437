// internal/adapters/web/handlers.go
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/hbnb"
	"hbnb_web/internal/app"
	"hbnb_web/internal/auth"
	"hbnb_web/internal/domain"
)

type Handlers struct {
	Listings *app.ListingService
	Account  *app.AccountService
	Admin    *app.AdminService

	Sessions      *auth.CookieStore // public pages: "token"
	AdminSessions *auth.CookieStore // admin panel: "admin_token"

	Tmpl *Templates
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	s.mux.Get("/", h.index)
	s.mux.Get("/place", h.placeDetail)
	s.mux.Get("/login", h.loginPage)
	s.mux.Post("/login", h.login)
	s.mux.Get("/logout", h.logout)
	s.mux.Get("/add-review", h.addReviewPage)
	s.mux.Post("/reviews", h.submitReview)

	h.mountAdmin(s)
}

// ---- shared view state ----

type Viewer struct {
	LoggedIn bool
	Welcome  string
}

func (h *Handlers) viewerFor(ctx context.Context, r *http.Request) (string, auth.Claims, Viewer) {
	token, claims, ok := h.Sessions.Claims(r)
	if !ok {
		return "", auth.Claims{}, Viewer{}
	}
	v := Viewer{LoggedIn: true}
	if info := h.Account.DisplayInfo(ctx, claims.UserID); info != nil {
		if n := info.DisplayName(); n != "" {
			v.Welcome = "Welcome, " + n + "!"
		}
	}
	return token, claims, v
}

// expire clears the cookie and the cached display info; the next render is
// anonymous.
func (h *Handlers) expire(w http.ResponseWriter, ctx context.Context, store *auth.CookieStore, userID string) {
	store.Clear(w)
	h.Account.Logout(ctx, userID)
}

// userMessage maps the error taxonomy to the literal shown inside the view
// that issued the failing request.
func userMessage(err error) string {
	var se *hbnb.StatusError
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return "Connection error. Please check that the service is reachable and try again."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.As(err, &se):
		return se.Message
	}
	return "Something went wrong. Please try again later."
}

// ---- index (list view + price filter) ----

type indexData struct {
	Viewer
	Places   []domain.Place
	MaxPrice string
	Message  string
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, claims, v := h.viewerFor(ctx, r)

	data := indexData{Viewer: v, MaxPrice: r.URL.Query().Get("max_price")}

	places, err := h.Listings.Places(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.expire(w, ctx, h.Sessions, claims.UserID)
			data.Viewer = Viewer{}
		}
		data.Message = userMessage(err)
		h.Tmpl.Render(w, http.StatusOK, "index", data)
		return
	}

	data.Places = app.FilterByMaxPrice(places, data.MaxPrice)
	switch {
	case len(places) == 0:
		data.Message = "No places found"
	case len(data.Places) == 0:
		// non-empty collection narrowed to nothing: distinct message
		data.Message = "No places match your filter"
	}
	h.Tmpl.Render(w, http.StatusOK, "index", data)
}

// ---- place detail ----

type placeData struct {
	Viewer
	HasPlace bool
	Place    domain.Place
	Reviews  []domain.Review
	Message  string
}

func (h *Handlers) placeDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, claims, v := h.viewerFor(ctx, r)
	data := placeData{Viewer: v}

	id := placeIDParam(r)
	if id == "" {
		// terminal for the page: no fetch, no guessing
		data.Message = "Place ID not found in URL."
		h.Tmpl.Render(w, http.StatusBadRequest, "place", data)
		return
	}

	place, reviews, err := h.Listings.PlaceDetail(ctx, token, id)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, domain.ErrUnauthorized) {
			h.expire(w, ctx, h.Sessions, claims.UserID)
			data.Viewer = Viewer{}
		}
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		data.Message = userMessage(err)
		h.Tmpl.Render(w, status, "place", data)
		return
	}

	data.HasPlace = true
	data.Place = place
	data.Reviews = reviews
	h.Tmpl.Render(w, http.StatusOK, "place", data)
}

// placeIDParam accepts both ?id= and the legacy ?place_id= spelling.
func placeIDParam(r *http.Request) string {
	if id := r.URL.Query().Get("id"); id != "" {
		return id
	}
	return r.URL.Query().Get("place_id")
}

// ---- login / logout ----

type loginData struct {
	Message string
	Email   string
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.Sessions.Claims(r); ok {
		// already logged in
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Tmpl.Render(w, http.StatusOK, "login", loginData{})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.Tmpl.Render(w, http.StatusBadRequest, "login", loginData{Message: "Invalid form submission."})
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if msg := form.check(); msg != "" {
		h.Tmpl.Render(w, http.StatusBadRequest, "login", loginData{Message: msg, Email: form.Email})
		return
	}

	token, _, err := h.Account.Login(ctx, form.Email, form.Password)
	if err != nil {
		h.Tmpl.Render(w, http.StatusUnauthorized, "login", loginData{Message: loginFailureMessage(err), Email: form.Email})
		return
	}
	h.Sessions.SetToken(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginFailureMessage prefers the backend's own wording (wrong credentials
// arrive as a 401 whose message should not read like an expired session).
func loginFailureMessage(err error) string {
	var se *hbnb.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" || msg == "session expired" {
			msg = "Invalid email or password."
		}
		return "Login failed: " + msg
	}
	if errors.Is(err, domain.ErrUnavailable) {
		return "Connection error. Please check that the service is reachable and try again."
	}
	return "Login failed. Please try again later."
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, claims, ok := h.Sessions.Claims(r); ok {
		h.Account.Logout(ctx, claims.UserID)
	}
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ---- review form (detail page + standalone add-review page) ----

type addReviewData struct {
	Viewer
	PlaceID   string
	PlaceName string
	Text      string
	Rating    string
	Message   string
}

func (h *Handlers) addReviewPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, _, v := h.viewerFor(ctx, r)
	if !v.LoggedIn {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := addReviewData{Viewer: v, PlaceID: placeIDParam(r)}
	if data.PlaceID == "" {
		data.Message = "Place ID not found in URL."
		h.Tmpl.Render(w, http.StatusBadRequest, "add_review", data)
		return
	}
	data.PlaceName = h.Listings.PlaceName(ctx, token, data.PlaceID)
	h.Tmpl.Render(w, http.StatusOK, "add_review", data)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, claims, v := h.viewerFor(ctx, r)
	if !v.LoggedIn {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Tmpl.Render(w, http.StatusBadRequest, "add_review", addReviewData{Viewer: v, Message: "Invalid form submission."})
		return
	}

	form := reviewForm{
		PlaceID: strings.TrimSpace(r.PostFormValue("place_id")),
		Rating:  parseRating(r.PostFormValue("rating")),
		Text:    strings.TrimSpace(r.PostFormValue("text")),
	}
	data := addReviewData{
		Viewer:  v,
		PlaceID: form.PlaceID,
		Text:    form.Text,
		Rating:  r.PostFormValue("rating"),
	}
	if msg := form.check(); msg != "" {
		// validation failure: nothing was sent over the wire
		data.Message = msg
		h.Tmpl.Render(w, http.StatusBadRequest, "add_review", data)
		return
	}

	if err := h.Listings.SubmitReview(ctx, token, form.PlaceID, form.Text, form.Rating); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.expire(w, ctx, h.Sessions, claims.UserID)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data.Message = userMessage(err)
		h.Tmpl.Render(w, http.StatusBadGateway, "add_review", data)
		return
	}

	// create completed; only now route onward (page-level configuration:
	// the form says where to go next, defaulting to the place's detail page)
	next := r.PostFormValue("next")
	if !isLocalPath(next) {
		next = "/place?id=" + url.QueryEscape(form.PlaceID)
	}
	log.Info().Str("place_id", form.PlaceID).Msg("review submitted")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// isLocalPath rejects redirect targets that could leave the site.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}
