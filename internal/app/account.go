package app

import (
	"context"
	"errors"

	"hbnb_web/internal/auth"
	"hbnb_web/internal/domain"
)

// ErrBadLoginResponse covers a 2xx login response that carries no usable token.
var ErrBadLoginResponse = errors.New("login response carried no token")

// AccountService owns login/logout and the cached display snapshot.
type AccountService struct {
	backend domain.Backend
	cache   domain.UserInfoCache
}

func NewAccountService(b domain.Backend, cache domain.UserInfoCache) *AccountService {
	return &AccountService{backend: b, cache: cache}
}

// Login exchanges credentials for a bearer token and caches the user's
// display fields. The returned claims are decoded locally, without
// signature verification; they gate UI only.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, auth.Claims, error) {
	out, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return "", auth.Claims{}, err
	}
	token, _ := out["access_token"].(string)
	if token == "" {
		token, _ = out["token"].(string)
	}
	claims, ok := auth.Decode(token)
	if token == "" || !ok {
		return "", auth.Claims{}, ErrBadLoginResponse
	}

	info := domain.UserInfo{ID: claims.UserID, IsAdmin: claims.IsAdmin}
	if um, ok := out["user"].(map[string]any); ok {
		info = userInfoFrom(MapUser(um))
		if info.ID == "" {
			info.ID = claims.UserID
		}
		info.IsAdmin = info.IsAdmin || claims.IsAdmin
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, info) // best-effort, cache is never authoritative
	}
	return token, claims, nil
}

// Logout drops the cached display snapshot. The cookie itself is the
// handler's to clear.
func (s *AccountService) Logout(ctx context.Context, userID string) {
	if s.cache != nil && userID != "" {
		_ = s.cache.Del(ctx, userID)
	}
}

// DisplayInfo returns the cached snapshot for the welcome line, or nil.
func (s *AccountService) DisplayInfo(ctx context.Context, userID string) *domain.UserInfo {
	if s.cache == nil || userID == "" {
		return nil
	}
	info, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil
	}
	return info
}
