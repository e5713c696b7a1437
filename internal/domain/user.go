package domain

import "strings"

type User struct {
	ID        string
	FirstName *string
	LastName  *string
	Email     *string
	IsAdmin   bool
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(deref(u.FirstName) + " " + deref(u.LastName))
	if name != "" {
		return name
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}

// UserInfo is the cached display snapshot of a logged-in user. It mirrors
// what the backend returned at login time and is a read cache only:
// authorization always re-derives from the token claims, never from here.
type UserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

func (i UserInfo) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name != "" {
		return name
	}
	return i.Email
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
