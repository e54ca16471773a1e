package user

import (
	"fmt"
	"net/http"

	"github.com/geocoder89/usershub/internal/apperr"
)

const (
	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Projection lists the fields a query returns. Empty means all fields.
type Projection []string

var PublicProjection = Projection{FieldID, FieldName, FieldEmail}

var allFields = Projection{FieldID, FieldName, FieldEmail, FieldPassword}

// Fields returns the validated field list in canonical order.
func (p Projection) Fields() ([]string, error) {
	if len(p) == 0 {
		return allFields, nil
	}

	want := make(map[string]bool, len(p))
	for _, f := range p {
		switch f {
		case FieldID, FieldName, FieldEmail, FieldPassword:
			want[f] = true
		default:
			return nil, apperr.New(http.StatusBadRequest, fmt.Sprintf("unknown projection field %q", f))
		}
	}

	out := make([]string, 0, len(want))
	for _, f := range allFields {
		if want[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Apply returns a copy of u holding only the projected fields.
func (p Projection) Apply(u User) (User, error) {
	fields, err := p.Fields()
	if err != nil {
		return User{}, err
	}

	var out User
	for _, f := range fields {
		switch f {
		case FieldID:
			out.ID = u.ID
		case FieldName:
			out.Name = u.Name
		case FieldEmail:
			out.Email = u.Email
		case FieldPassword:
			out.Password = u.Password
		}
	}
	return out, nil
}
