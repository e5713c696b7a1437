package app

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/semaphore"

	"hbnb_web/internal/domain"
)

// ListingService drives the public pages: the place list, the detail view
// and review-author resolution. Collections are fetched per page view and
// never held across requests.
type ListingService struct {
	backend domain.Backend
	cache   domain.UserInfoCache
	workers int64
}

func NewListingService(b domain.Backend, cache domain.UserInfoCache, workers int) *ListingService {
	if workers <= 0 {
		workers = 4
	}
	return &ListingService{backend: b, cache: cache, workers: int64(workers)}
}

func (s *ListingService) Places(ctx context.Context, token string) ([]domain.Place, error) {
	raw, err := s.backend.ListPlaces(ctx, token)
	if err != nil {
		return nil, err
	}
	return MapPlaces(raw), nil
}

// FilterByMaxPrice narrows an already-fetched list; no network involved.
// "all" (or empty, or garbage input) keeps everything, so applying the same
// threshold twice yields the same visible set.
func FilterByMaxPrice(places []domain.Place, max string) []domain.Place {
	if max == "" || max == "all" {
		return places
	}
	limit, err := strconv.ParseFloat(max, 64)
	if err != nil {
		return places
	}
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if p.PriceValue() <= limit {
			out = append(out, p)
		}
	}
	return out
}

// PlaceDetail fetches one place and its reviews, then resolves review
// authors. Review fetch failures degrade to an empty review list rather than
// failing the page; only the place fetch itself is fatal.
func (s *ListingService) PlaceDetail(ctx context.Context, token, id string) (domain.Place, []domain.Review, error) {
	raw, err := s.backend.GetPlace(ctx, token, id)
	if err != nil {
		return domain.Place{}, nil, err
	}
	place := MapPlace(raw)

	rawReviews, err := s.backend.ListPlaceReviews(ctx, id)
	if err != nil {
		return place, nil, nil
	}
	reviews := MapReviews(rawReviews)
	s.resolveAuthors(ctx, token, reviews)
	return place, reviews, nil
}

// SubmitReview posts a new review from the detail or add-review page. The
// create call completes before any caller-triggered reload; validation
// happens at the form layer before this is reached.
func (s *ListingService) SubmitReview(ctx context.Context, token, placeID, text string, rating int) error {
	_, err := s.backend.CreateReview(ctx, token, map[string]any{
		"place_id": placeID,
		"text":     text,
		"rating":   rating,
	})
	return err
}

// PlaceName is a best-effort lookup for page headings; failures yield "".
func (s *ListingService) PlaceName(ctx context.Context, token, id string) string {
	raw, err := s.backend.GetPlace(ctx, token, id)
	if err != nil {
		return ""
	}
	return MapPlace(raw).DisplayName()
}

// resolveAuthors fills Review.Author for reviews that reference a user by id
// without embedding the user object. Each distinct user is fetched once,
// bounded by a semaphore, with the display cache consulted first. Missing or
// unreachable users leave "Anonymous" in place; the page never fails on it.
func (s *ListingService) resolveAuthors(ctx context.Context, token string, reviews []domain.Review) {
	pending := map[string][]int{}
	for i, r := range reviews {
		if r.User != nil || r.UserID == nil || *r.UserID == "" {
			continue
		}
		pending[*r.UserID] = append(pending[*r.UserID], i)
	}
	if len(pending) == 0 {
		return
	}

	var mu sync.Mutex
	names := map[string]string{}
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for userID := range pending {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			defer sem.Release(1)
			if name, ok := s.lookupName(ctx, token, userID); ok {
				mu.Lock()
				names[userID] = name
				mu.Unlock()
			}
		}(userID)
	}
	wg.Wait()

	for userID, idxs := range pending {
		name, ok := names[userID]
		if !ok {
			continue
		}
		for _, i := range idxs {
			reviews[i].Author = name
		}
	}
}

func (s *ListingService) lookupName(ctx context.Context, token, userID string) (string, bool) {
	if s.cache != nil {
		if info, err := s.cache.Get(ctx, userID); err == nil && info != nil {
			if n := info.DisplayName(); n != "" {
				return n, true
			}
		}
	}
	raw, err := s.backend.GetUser(ctx, token, userID)
	if err != nil {
		return "", false
	}
	u := MapUser(raw)
	name := u.DisplayName()
	if name == "" {
		return "", false
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, userInfoFrom(u))
	}
	return name, true
}
