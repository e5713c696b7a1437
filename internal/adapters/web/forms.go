package web

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validation always runs before any backend call, and a
// failing form sends nothing over the wire.
var validate = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (f loginForm) check() string {
	return firstMessage(validate.Struct(f), map[string]string{
		"Email.required":    "Please enter both email and password.",
		"Email.email":       "Please enter a valid email address.",
		"Password.required": "Please enter both email and password.",
		"Password.min":      "Password must be at least 6 characters long.",
	})
}

type reviewForm struct {
	PlaceID string `validate:"required"`
	Rating  int    `validate:"min=1,max=5"`
	Text    string `validate:"required,min=10,max=1000"`
}

func (f reviewForm) check() string {
	return firstMessage(validate.Struct(f), map[string]string{
		"PlaceID.required": "Missing place id.",
		"Rating.min":       "Rating must be between 1 and 5.",
		"Rating.max":       "Rating must be between 1 and 5.",
		"Text.required":    "Review text must be at least 10 characters long.",
		"Text.min":         "Review text must be at least 10 characters long.",
		"Text.max":         "Review text must not exceed 1000 characters.",
	})
}

type adminUserForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
}

func (f adminUserForm) check() string {
	return firstMessage(validate.Struct(f), map[string]string{
		"FirstName.required": "First name is required.",
		"LastName.required":  "Last name is required.",
		"Email.required":     "Email is required.",
		"Email.email":        "Please enter a valid email address.",
		"Password.required":  "Password is required.",
		"Password.min":       "Password must be at least 6 characters long.",
	})
}

type amenityForm struct {
	Name string `validate:"required"`
}

func (f amenityForm) check() string {
	return firstMessage(validate.Struct(f), map[string]string{
		"Name.required": "Amenity name is required.",
	})
}

type placeForm struct {
	Title   string  `validate:"required"`
	Price   float64 `validate:"gte=0"`
	OwnerID string  `validate:"required"`
}

func (f placeForm) check() string {
	return firstMessage(validate.Struct(f), map[string]string{
		"Title.required":   "Place title is required.",
		"Price.gte":        "Price must not be negative.",
		"OwnerID.required": "Please select an owner.",
	})
}

// firstMessage maps the first failing rule to its literal user message.
func firstMessage(err error, messages map[string]string) string {
	if err == nil {
		return ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		return "Invalid value for " + fe.Field() + "."
	}
	return "Invalid form submission."
}

// parseRating turns the raw select/prompt value into an int; anything that
// is not a whole number in range reads as 0 and fails the range rule.
func parseRating(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
