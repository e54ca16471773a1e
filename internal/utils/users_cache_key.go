package utils

import (
	"net/url"
	"strings"

	"github.com/geocoder89/usershub/internal/domain/user"
)

// BuildUsersFindCacheKey is stable for equal filters and projections.
// Values are query-escaped so ids or emails containing ':' cannot collide.
func BuildUsersFindCacheKey(f user.Filter, fields []string) string {
	id := "*"
	if f.ID != nil {
		id = "=" + url.QueryEscape(*f.ID)
	}
	email := "*"
	if f.Email != nil {
		email = "=" + url.QueryEscape(*f.Email)
	}

	return "users:find:v1:id" + id +
		":email" + email +
		":fields=" + strings.Join(fields, ",")
}
