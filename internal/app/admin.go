package app

import (
	"context"
	"fmt"

	"hbnb_web/internal/domain"
)

// AdminService backs the management panel: list/create/update/delete for the
// four entity types, always through the backend's own authorization. The
// panel re-fetches the affected list after every mutation.
type AdminService struct {
	backend domain.Backend
}

func NewAdminService(b domain.Backend) *AdminService {
	return &AdminService{backend: b}
}

// ---- users ----

func (s *AdminService) Users(ctx context.Context, token string) ([]domain.User, error) {
	raw, err := s.backend.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	return MapUsers(raw), nil
}

func (s *AdminService) CreateUser(ctx context.Context, token string, firstName, lastName, email, password string, isAdmin bool) error {
	_, err := s.backend.CreateUser(ctx, token, map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
		"is_admin":   isAdmin,
	})
	return err
}

// ---- amenities ----

func (s *AdminService) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	raw, err := s.backend.ListAmenities(ctx)
	if err != nil {
		return nil, err
	}
	return MapAmenities(raw), nil
}

func (s *AdminService) CreateAmenity(ctx context.Context, token, name string) error {
	_, err := s.backend.CreateAmenity(ctx, token, map[string]any{"name": name})
	return err
}

func (s *AdminService) UpdateAmenity(ctx context.Context, token, id, name string) error {
	return s.backend.UpdateAmenity(ctx, token, id, map[string]any{"name": name})
}

// ---- places ----

func (s *AdminService) Places(ctx context.Context, token string) ([]domain.Place, error) {
	raw, err := s.backend.ListPlaces(ctx, token)
	if err != nil {
		return nil, err
	}
	return MapPlaces(raw), nil
}

type PlaceInput struct {
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	Price       float64
	OwnerID     string
	AmenityIDs  []string
}

func (i PlaceInput) payload() map[string]any {
	amenities := i.AmenityIDs
	if amenities == nil {
		amenities = []string{}
	}
	return map[string]any{
		"title":       i.Title,
		"description": i.Description,
		"latitude":    i.Latitude,
		"longitude":   i.Longitude,
		"price":       i.Price,
		"owner_id":    i.OwnerID,
		"amenities":   amenities,
	}
}

func (s *AdminService) CreatePlace(ctx context.Context, token string, in PlaceInput) error {
	_, err := s.backend.CreatePlace(ctx, token, in.payload())
	return err
}

func (s *AdminService) UpdatePlace(ctx context.Context, token, id string, in PlaceInput) error {
	return s.backend.UpdatePlace(ctx, token, id, in.payload())
}

func (s *AdminService) DeletePlace(ctx context.Context, token, id string) error {
	return s.backend.DeletePlace(ctx, token, id)
}

func (s *AdminService) Place(ctx context.Context, token, id string) (domain.Place, error) {
	raw, err := s.backend.GetPlace(ctx, token, id)
	if err != nil {
		return domain.Place{}, err
	}
	return MapPlace(raw), nil
}

// ---- reviews ----

func (s *AdminService) Reviews(ctx context.Context, token string) ([]domain.Review, error) {
	raw, err := s.backend.ListReviews(ctx, token)
	if err != nil {
		return nil, err
	}
	return MapReviews(raw), nil
}

func (s *AdminService) CreateReview(ctx context.Context, token, placeID, text string, rating int) error {
	_, err := s.backend.CreateReview(ctx, token, map[string]any{
		"place_id": placeID,
		"text":     text,
		"rating":   rating,
	})
	return err
}

// UpdateReview round-trips the existing review first: the backend's PUT
// requires user_id and place_id, which the edit form does not carry.
func (s *AdminService) UpdateReview(ctx context.Context, token, id, text string, rating int) error {
	raw, err := s.backend.GetReview(ctx, token, id)
	if err != nil {
		return fmt.Errorf("load review %s: %w", id, err)
	}
	current := MapReview(raw)
	payload := map[string]any{
		"text":   text,
		"rating": rating,
	}
	if current.UserID != nil {
		payload["user_id"] = *current.UserID
	}
	if current.PlaceID != nil {
		payload["place_id"] = *current.PlaceID
	}
	return s.backend.UpdateReview(ctx, token, id, payload)
}

func (s *AdminService) DeleteReview(ctx context.Context, token, id string) error {
	return s.backend.DeleteReview(ctx, token, id)
}
