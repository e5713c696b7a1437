package domain

import "strings"

type Review struct {
	ID      string
	PlaceID *string
	UserID  *string
	Text    *string
	Rating  *int
	User    *User

	// Author is the resolved display name; "Anonymous" when the
	// referenced user cannot be loaded.
	Author string
}

func (r Review) Body() string {
	if r.Text != nil && strings.TrimSpace(*r.Text) != "" {
		return *r.Text
	}
	return "No comment"
}

func (r Review) RatingValue() int {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
