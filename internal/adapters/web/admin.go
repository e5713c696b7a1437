// internal/adapters/web/admin.go
package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hbnb_web/internal/app"
	"hbnb_web/internal/auth"
	"hbnb_web/internal/domain"
)

func (h *Handlers) mountAdmin(s *Server) {
	s.mux.Get("/admin", h.adminPanel)
	s.mux.Post("/admin/login", h.adminLogin)
	s.mux.Get("/admin/logout", h.adminLogout)

	s.mux.Post("/admin/users", h.adminCreateUser)
	s.mux.Post("/admin/amenities", h.adminCreateAmenity)
	s.mux.Post("/admin/amenities/{id}", h.adminUpdateAmenity)
	s.mux.Post("/admin/places", h.adminCreatePlace)
	s.mux.Post("/admin/places/{id}", h.adminUpdatePlace)
	s.mux.Post("/admin/places/{id}/delete", h.adminDeletePlace)
	s.mux.Post("/admin/reviews", h.adminCreateReview)
	s.mux.Post("/admin/reviews/{id}", h.adminUpdateReview)
	s.mux.Post("/admin/reviews/{id}/delete", h.adminDeleteReview)
}

// The panel has exactly two states: Anonymous (login form) and
// Authenticated-Admin. A token without the admin claim is discarded on
// sight; there is no logged-in-but-not-admin state here.

type adminLoginData struct {
	Message string
	Email   string
}

type adminSection[T any] struct {
	Items   []T
	Message string
}

type adminPanelData struct {
	Notice  string
	Problem string

	Users     adminSection[domain.User]
	Amenities adminSection[domain.Amenity]
	Places    adminSection[domain.Place]
	Reviews   adminSection[domain.Review]
}

// requireAdmin returns the admin token, or renders/redirects and reports false.
func (h *Handlers) requireAdmin(w http.ResponseWriter, r *http.Request) (string, auth.Claims, bool) {
	token, claims, ok := h.AdminSessions.Claims(r)
	if !ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return "", auth.Claims{}, false
	}
	if !claims.IsAdmin {
		// non-admin tokens never linger on this page
		h.expire(w, r.Context(), h.AdminSessions, claims.UserID)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return "", auth.Claims{}, false
	}
	return token, claims, true
}

func (h *Handlers) adminPanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, claims, ok := h.AdminSessions.Claims(r)
	if !ok {
		h.Tmpl.Render(w, http.StatusOK, "admin_login", adminLoginData{})
		return
	}
	if !claims.IsAdmin {
		h.expire(w, ctx, h.AdminSessions, claims.UserID)
		h.Tmpl.Render(w, http.StatusForbidden, "admin_login",
			adminLoginData{Message: "Access denied: admin privileges required"})
		return
	}

	data := adminPanelData{
		Notice:  r.URL.Query().Get("notice"),
		Problem: r.URL.Query().Get("problem"),
	}

	var expired bool
	loadUsers := func() {
		users, err := h.Admin.Users(ctx, token)
		if err != nil {
			expired = expired || errors.Is(err, domain.ErrUnauthorized)
			data.Users.Message = userMessage(err)
			return
		}
		if len(users) == 0 {
			data.Users.Message = "No users found"
		}
		data.Users.Items = users
	}
	loadAmenities := func() {
		amenities, err := h.Admin.Amenities(ctx)
		if err != nil {
			data.Amenities.Message = userMessage(err)
			return
		}
		if len(amenities) == 0 {
			data.Amenities.Message = "No amenities found"
		}
		data.Amenities.Items = amenities
	}
	loadPlaces := func() {
		places, err := h.Admin.Places(ctx, token)
		if err != nil {
			expired = expired || errors.Is(err, domain.ErrUnauthorized)
			data.Places.Message = userMessage(err)
			return
		}
		if len(places) == 0 {
			data.Places.Message = "No places found"
		}
		data.Places.Items = places
	}
	loadReviews := func() {
		reviews, err := h.Admin.Reviews(ctx, token)
		if err != nil {
			expired = expired || errors.Is(err, domain.ErrUnauthorized)
			data.Reviews.Message = userMessage(err)
			return
		}
		if len(reviews) == 0 {
			data.Reviews.Message = "No reviews found"
		}
		data.Reviews.Items = reviews
	}

	loadUsers()
	loadAmenities()
	loadPlaces()
	loadReviews()

	if expired {
		h.expire(w, ctx, h.AdminSessions, claims.UserID)
		h.Tmpl.Render(w, http.StatusUnauthorized, "admin_login",
			adminLoginData{Message: "Your session has expired. Please log in again."})
		return
	}
	h.Tmpl.Render(w, http.StatusOK, "admin", data)
}

func (h *Handlers) adminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.Tmpl.Render(w, http.StatusBadRequest, "admin_login", adminLoginData{Message: "Invalid form submission."})
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if msg := form.check(); msg != "" {
		h.Tmpl.Render(w, http.StatusBadRequest, "admin_login", adminLoginData{Message: msg, Email: form.Email})
		return
	}

	token, claims, err := h.Account.Login(ctx, form.Email, form.Password)
	if err != nil {
		h.Tmpl.Render(w, http.StatusUnauthorized, "admin_login",
			adminLoginData{Message: loginFailureMessage(err), Email: form.Email})
		return
	}
	if !claims.IsAdmin {
		// valid account, wrong privilege: back to Anonymous, token dropped
		h.Account.Logout(ctx, claims.UserID)
		h.Tmpl.Render(w, http.StatusForbidden, "admin_login",
			adminLoginData{Message: "Access denied: admin privileges required", Email: form.Email})
		return
	}
	h.AdminSessions.SetToken(w, token)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handlers) adminLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, claims, ok := h.AdminSessions.Claims(r); ok {
		h.Account.Logout(ctx, claims.UserID)
	}
	h.AdminSessions.Clear(w)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// afterMutation routes back to the panel, re-fetching the affected list on
// the redirected render. A 401 tears the session down first; a 403 keeps it
// and only reports the refusal.
func (h *Handlers) afterMutation(w http.ResponseWriter, r *http.Request, claims auth.Claims, err error, notice string) {
	if err == nil {
		http.Redirect(w, r, "/admin?notice="+url.QueryEscape(notice), http.StatusSeeOther)
		return
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		h.expire(w, r.Context(), h.AdminSessions, claims.UserID)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin?problem="+url.QueryEscape(userMessage(err)), http.StatusSeeOther)
}

func (h *Handlers) redirectProblem(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin?problem="+url.QueryEscape(msg), http.StatusSeeOther)
}

// ---- users ----

func (h *Handlers) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	form := adminUserForm{
		FirstName: strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:  strings.TrimSpace(r.PostFormValue("last_name")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
	}
	if msg := form.check(); msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	isAdmin := r.PostFormValue("is_admin") == "on" || r.PostFormValue("is_admin") == "true"
	err := h.Admin.CreateUser(r.Context(), token, form.FirstName, form.LastName, form.Email, form.Password, isAdmin)
	h.afterMutation(w, r, claims, err, "User created successfully!")
}

// ---- amenities ----

func (h *Handlers) adminCreateAmenity(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	form := amenityForm{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if msg := form.check(); msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	err := h.Admin.CreateAmenity(r.Context(), token, form.Name)
	h.afterMutation(w, r, claims, err, "Amenity created successfully!")
}

func (h *Handlers) adminUpdateAmenity(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	form := amenityForm{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if msg := form.check(); msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	err := h.Admin.UpdateAmenity(r.Context(), token, chi.URLParam(r, "id"), form.Name)
	h.afterMutation(w, r, claims, err, "Amenity updated successfully!")
}

// ---- places ----

func placeInputFromForm(r *http.Request) (app.PlaceInput, string) {
	lat, _ := strconv.ParseFloat(r.PostFormValue("latitude"), 64)
	lon, _ := strconv.ParseFloat(r.PostFormValue("longitude"), 64)
	price, perr := strconv.ParseFloat(r.PostFormValue("price"), 64)

	in := app.PlaceInput{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Latitude:    lat,
		Longitude:   lon,
		Price:       price,
		OwnerID:     r.PostFormValue("owner_id"),
		AmenityIDs:  r.PostForm["amenities"],
	}
	form := placeForm{Title: in.Title, Price: in.Price, OwnerID: in.OwnerID}
	if msg := form.check(); msg != "" {
		return in, msg
	}
	if perr != nil {
		return in, "Price must be a number."
	}
	return in, ""
}

func (h *Handlers) adminCreatePlace(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	in, msg := placeInputFromForm(r)
	if msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	err := h.Admin.CreatePlace(r.Context(), token, in)
	h.afterMutation(w, r, claims, err, "Place created successfully!")
}

func (h *Handlers) adminUpdatePlace(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	in, msg := placeInputFromForm(r)
	if msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	err := h.Admin.UpdatePlace(r.Context(), token, chi.URLParam(r, "id"), in)
	h.afterMutation(w, r, claims, err, "Place updated successfully!")
}

func (h *Handlers) adminDeletePlace(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	err := h.Admin.DeletePlace(r.Context(), token, chi.URLParam(r, "id"))
	h.afterMutation(w, r, claims, err, "Place deleted successfully!")
}

// ---- reviews ----

func (h *Handlers) adminCreateReview(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	form := reviewForm{
		PlaceID: strings.TrimSpace(r.PostFormValue("place_id")),
		Rating:  parseRating(r.PostFormValue("rating")),
		Text:    strings.TrimSpace(r.PostFormValue("text")),
	}
	if msg := form.check(); msg != "" {
		h.redirectProblem(w, r, msg)
		return
	}
	err := h.Admin.CreateReview(r.Context(), token, form.PlaceID, form.Text, form.Rating)
	h.afterMutation(w, r, claims, err, "Review created successfully!")
}

func (h *Handlers) adminUpdateReview(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.redirectProblem(w, r, "Invalid form submission.")
		return
	}
	rating := parseRating(r.PostFormValue("rating"))
	text := strings.TrimSpace(r.PostFormValue("text"))
	if rating < 1 || rating > 5 {
		h.redirectProblem(w, r, "Rating must be between 1 and 5.")
		return
	}
	if text == "" {
		h.redirectProblem(w, r, "Review text cannot be empty.")
		return
	}
	err := h.Admin.UpdateReview(r.Context(), token, chi.URLParam(r, "id"), text, rating)
	h.afterMutation(w, r, claims, err, "Review updated successfully!")
}

func (h *Handlers) adminDeleteReview(w http.ResponseWriter, r *http.Request) {
	token, claims, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	err := h.Admin.DeleteReview(r.Context(), token, chi.URLParam(r, "id"))
	h.afterMutation(w, r, claims, err, "Review deleted successfully!")
}
