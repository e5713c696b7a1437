package app

import (
	"strconv"
	"strings"

	"hbnb_web/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Endpoint versions disagree on field names; each concept lists every
// spelling seen in the wild, first match wins.

var placeAliases = map[string][]string{
	"name":        {"title", "name", "place_name"},
	"description": {"description", "about"},
	"price":       {"price", "price_per_night", "price_by_night"},
	"latitude":    {"latitude", "lat"},
	"longitude":   {"longitude", "lon", "lng"},
	"city":        {"city", "city_name", "address.city"},
	"country":     {"country", "country_name", "address.country"},
	"owner_id":    {"owner_id", "user_id", "owner.id"},
}

var reviewAliases = map[string][]string{
	"text":     {"text", "comment", "review_text", "body"},
	"place_id": {"place_id", "placeId"},
	"user_id":  {"user_id", "userId", "user.id"},
}

var userAliases = map[string][]string{
	"first_name": {"first_name", "firstname", "firstName"},
	"last_name":  {"last_name", "lastname", "lastName"},
	"email":      {"email"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path, rendering numeric ids as strings.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstFloatAlias: number from several paths (float64/int/string like "80,5").
func firstFloatAlias(m map[string]any, aliases map[string][]string, key string) *float64 {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func intAt(m map[string]any, path string) *int {
	switch v := lookupAny(m, path).(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
	}
	return nil
}

func boolAt(m map[string]any, path string) bool {
	b, _ := lookupAny(m, path).(bool)
	return b
}

/********** mappers **********/

func MapPlace(m map[string]any) domain.Place {
	p := domain.Place{
		ID:          lookupStr(m, "id"),
		Name:        firstNonEmptyAlias(m, placeAliases, "name"),
		Description: firstNonEmptyAlias(m, placeAliases, "description"),
		Price:       firstFloatAlias(m, placeAliases, "price"),
		Latitude:    firstFloatAlias(m, placeAliases, "latitude"),
		Longitude:   firstFloatAlias(m, placeAliases, "longitude"),
		City:        firstNonEmptyAlias(m, placeAliases, "city"),
		Country:     firstNonEmptyAlias(m, placeAliases, "country"),
		OwnerID:     firstNonEmptyAlias(m, placeAliases, "owner_id"),
	}
	if owner, ok := lookupAny(m, "owner").(map[string]any); ok {
		u := MapUser(owner)
		p.Owner = &u
	}
	if raw, ok := lookupAny(m, "amenities").([]any); ok {
		for _, a := range raw {
			switch av := a.(type) {
			case map[string]any:
				p.Amenities = append(p.Amenities, MapAmenity(av))
			case string:
				// some endpoints return bare amenity names
				p.Amenities = append(p.Amenities, domain.Amenity{Name: av})
			}
		}
	}
	return p
}

func MapPlaces(ms []map[string]any) []domain.Place {
	out := make([]domain.Place, 0, len(ms))
	for _, m := range ms {
		out = append(out, MapPlace(m))
	}
	return out
}

func MapReview(m map[string]any) domain.Review {
	r := domain.Review{
		ID:      lookupStr(m, "id"),
		Text:    firstNonEmptyAlias(m, reviewAliases, "text"),
		Rating:  intAt(m, "rating"),
		PlaceID: firstNonEmptyAlias(m, reviewAliases, "place_id"),
		UserID:  firstNonEmptyAlias(m, reviewAliases, "user_id"),
		Author:  "Anonymous",
	}
	if um, ok := lookupAny(m, "user").(map[string]any); ok {
		u := MapUser(um)
		r.User = &u
		if n := u.DisplayName(); n != "" {
			r.Author = n
		}
	}
	return r
}

func MapReviews(ms []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(ms))
	for _, m := range ms {
		out = append(out, MapReview(m))
	}
	return out
}

func MapUser(m map[string]any) domain.User {
	return domain.User{
		ID:        lookupStr(m, "id"),
		FirstName: firstNonEmptyAlias(m, userAliases, "first_name"),
		LastName:  firstNonEmptyAlias(m, userAliases, "last_name"),
		Email:     firstNonEmptyAlias(m, userAliases, "email"),
		IsAdmin:   boolAt(m, "is_admin"),
	}
}

func MapUsers(ms []map[string]any) []domain.User {
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, MapUser(m))
	}
	return out
}

func MapAmenity(m map[string]any) domain.Amenity {
	return domain.Amenity{ID: lookupStr(m, "id"), Name: lookupStr(m, "name")}
}

func MapAmenities(ms []map[string]any) []domain.Amenity {
	out := make([]domain.Amenity, 0, len(ms))
	for _, m := range ms {
		out = append(out, MapAmenity(m))
	}
	return out
}

func userInfoFrom(u domain.User) domain.UserInfo {
	info := domain.UserInfo{ID: u.ID, IsAdmin: u.IsAdmin}
	if u.FirstName != nil {
		info.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		info.LastName = *u.LastName
	}
	if u.Email != nil {
		info.Email = *u.Email
	}
	return info
}
