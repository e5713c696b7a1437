package domain

import "context"

// Backend is the consumed HBnB REST surface. Payloads pass through as raw
// JSON objects; the app layer maps them with alias-tolerant field access so
// divergent backend versions keep rendering.
type Backend interface {
	Login(ctx context.Context, email, password string) (map[string]any, error)

	ListPlaces(ctx context.Context, token string) ([]map[string]any, error)
	GetPlace(ctx context.Context, token, id string) (map[string]any, error)
	CreatePlace(ctx context.Context, token string, payload map[string]any) (map[string]any, error)
	UpdatePlace(ctx context.Context, token, id string, payload map[string]any) error
	DeletePlace(ctx context.Context, token, id string) error

	ListPlaceReviews(ctx context.Context, id string) ([]map[string]any, error)
	ListReviews(ctx context.Context, token string) ([]map[string]any, error)
	GetReview(ctx context.Context, token, id string) (map[string]any, error)
	CreateReview(ctx context.Context, token string, payload map[string]any) (map[string]any, error)
	UpdateReview(ctx context.Context, token, id string, payload map[string]any) error
	DeleteReview(ctx context.Context, token, id string) error

	ListUsers(ctx context.Context, token string) ([]map[string]any, error)
	GetUser(ctx context.Context, token, id string) (map[string]any, error)
	CreateUser(ctx context.Context, token string, payload map[string]any) (map[string]any, error)

	ListAmenities(ctx context.Context) ([]map[string]any, error)
	CreateAmenity(ctx context.Context, token string, payload map[string]any) (map[string]any, error)
	UpdateAmenity(ctx context.Context, token, id string, payload map[string]any) error
}

// UserInfoCache is the server-side stand-in for the original client's
// user_info read cache. Nil result means absent; failures are soft.
type UserInfoCache interface {
	Get(ctx context.Context, userID string) (*UserInfo, error)
	Set(ctx context.Context, info UserInfo) error
	Del(ctx context.Context, userID string) error
}
