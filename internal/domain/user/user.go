package user

import (
	"errors"
	"fmt"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // stored as received, never exposed in JSON
}

// CreateUserRequest is read from JSON or urlencoded bodies without validation.
// Password is nil when the body does not carry the field at all.
type CreateUserRequest struct {
	Name     string  `json:"name" form:"name"`
	Email    string  `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

// PlainPassword returns the password as sent. "" is a valid password,
// a missing one is ErrPasswordMissing.
func (r CreateUserRequest) PlainPassword() (string, error) {
	if r.Password == nil {
		return "", ErrPasswordMissing
	}
	return *r.Password, nil
}

// with pointers if optional, a nil field matches everything
type Filter struct {
	ID    *string
	Email *string
}

func ByID(id string) Filter {
	return Filter{ID: &id}
}

func ByEmail(email string) Filter {
	return Filter{Email: &email}
}

func (f Filter) Matches(u User) bool {
	if f.ID != nil && u.ID != *f.ID {
		return false
	}
	if f.Email != nil && u.Email != *f.Email {
		return false
	}
	return true
}

var ErrEmailTaken = errors.New("user email is already taken")

// ErrPasswordMissing keeps the hasher's message for a body without a password.
var ErrPasswordMissing = errors.New("data and salt arguments required")

const (
	MsgEmailTaken = "User email is already taken"
	MsgCreated    = "New user successfully created, check your email"
)

func DeletedMessage(id string) string {
	return fmt.Sprintf("User %s successfully deleted", id)
}
