package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/geocoder89/usershub/internal/http/handlers"
	"github.com/geocoder89/usershub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func bindRouter(captured *user.CreateUserRequest) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(64))
	r.POST("/users", func(ctx *gin.Context) {
		if err := handlers.BindBody(ctx, captured); err != nil {
			handlers.RespondFault(ctx, err)
			return
		}
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func strPtr(s string) *string { return &s }

func sameRequest(a, b user.CreateUserRequest) bool {
	if a.Name != b.Name || a.Email != b.Email {
		return false
	}
	if a.Password == nil || b.Password == nil {
		return a.Password == b.Password
	}
	return *a.Password == *b.Password
}

func describe(r user.CreateUserRequest) string {
	pw := "<missing>"
	if r.Password != nil {
		pw = fmt.Sprintf("%q", *r.Password)
	}
	return fmt.Sprintf("{name:%q email:%q password:%s}", r.Name, r.Email, pw)
}

func TestBindBody(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		contentType    string
		wantStatusCode int
		wantMessage    string
		want           user.CreateUserRequest
	}{
		{
			name:           "json",
			body:           `{"name":"Ann","email":"a@x.io","password":"pw"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusNoContent,
			want:           user.CreateUserRequest{Name: "Ann", Email: "a@x.io", Password: strPtr("pw")},
		},
		{
			name:           "form",
			body:           "name=Ann&email=a%40x.io&password=",
			contentType:    "application/x-www-form-urlencoded",
			wantStatusCode: http.StatusNoContent,
			want:           user.CreateUserRequest{Name: "Ann", Email: "a@x.io", Password: strPtr("")},
		},
		{
			name:           "unknown_fields_ignored",
			body:           `{"name":"Ann","role":"admin"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusNoContent,
			want:           user.CreateUserRequest{Name: "Ann"},
		},
		{
			name:           "syntax_error",
			body:           `{"name" "Ann"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid JSON body",
		},
		{
			name:           "type_mismatch_uses_json_name",
			body:           `{"password":123}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "password must be of type string",
		},
		{
			name:           "array_body",
			body:           `[]`,
			contentType:    "application/json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "request body must be a JSON object",
		},
		{
			name:           "too_large",
			body:           `{"name":"` + strings.Repeat("a", 100) + `"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusRequestEntityTooLarge,
			wantMessage:    "request entity too large",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var got user.CreateUserRequest
			r := bindRouter(&got)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				if msg := readMessage(t, w); msg != tt.wantMessage {
					t.Fatalf("got message %q, want %q", msg, tt.wantMessage)
				}
				return
			}

			if !sameRequest(got, tt.want) {
				t.Fatalf("bound %s, want %s", describe(got), describe(tt.want))
			}
		})
	}
}
