// Package auth describes who is signed in.
package auth

import (
	"context"
	"strings"
	"unicode/utf8"
)

type User struct {
	ID        string `yaml:"id" json:"id"`
	FullName  string `yaml:"fullName" json:"fullName"`
	Firstname string `yaml:"firstname" json:"firstname"`
	Lastname  string `yaml:"lastname" json:"lastname"`
}

// Initials returns the upper-cased first letters of the first and last name.
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.Firstname, u.Lastname} {
		r, size := utf8.DecodeRuneInString(strings.TrimSpace(part))
		if size == 0 || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// DisplayName prefers the full name and falls back to first and last name.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// Status is the authentication state. The zero value is signed out.
type Status struct {
	LoggedIn bool
	User     *User
}

func LoggedOut() Status { return Status{} }

func LoggedInAs(u User) Status { return Status{LoggedIn: true, User: &u} }

// Resolver determines the current status, e.g. from a stored login or a
// remote profile query.
type Resolver interface {
	Status(ctx context.Context) (Status, error)
}

// Static always reports the same status.
type Static Status

func (s Static) Status(context.Context) (Status, error) {
	return Status(s), nil
}
