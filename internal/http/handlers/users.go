package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/usershub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersStore interface {
	Find(ctx context.Context, f user.Filter, p user.Projection) ([]user.User, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Remove(ctx context.Context, f user.Filter) (int64, error)
}

type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
}

type UsersHandler struct {
	store  UsersStore
	hasher PasswordHasher
}

func NewUsersHandler(store UsersStore, hasher PasswordHasher) *UsersHandler {
	return &UsersHandler{store: store, hasher: hasher}
}

func (h *UsersHandler) Hello(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello world")
}

func (h *UsersHandler) FindAllUsers(ctx *gin.Context) {
	users, err := h.store.Find(ctx.Request.Context(), user.Filter{}, user.PublicProjection)

	if err != nil {
		RespondFault(ctx, err)
		return
	}

	respondUsers(ctx, users)
}

// FindUserByID answers with a list of zero or one users, never a 404.
func (h *UsersHandler) FindUserByID(ctx *gin.Context) {
	id := ctx.Param("id")

	users, err := h.store.Find(ctx.Request.Context(), user.ByID(id), user.PublicProjection)

	if err != nil {
		RespondFault(ctx, err)
		return
	}

	respondUsers(ctx, users)
}

func respondUsers(ctx *gin.Context, users []user.User) {
	if users == nil {
		users = []user.User{}
	}
	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) InsertUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if err := BindBody(ctx, &req); err != nil {
		RespondFault(ctx, err)
		return
	}

	rctx := ctx.Request.Context()

	// check if email is already taken
	existing, err := h.store.Find(rctx, user.ByEmail(req.Email), user.Projection{user.FieldID})

	if err != nil {
		RespondFault(ctx, err)
		return
	}

	if len(existing) > 0 {
		h.emailTaken(ctx)
		return
	}

	password, err := req.PlainPassword()
	if err != nil {
		RespondFault(ctx, err)
		return
	}

	// the hash is not stored: records keep the password as received
	if _, err := h.hasher.Hash(rctx, password); err != nil {
		RespondFault(ctx, err)
		return
	}

	_, err = h.store.Insert(rctx, user.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: password,
	})

	if err != nil {
		// lost the race against a concurrent insert of the same email
		if errors.Is(err, user.ErrEmailTaken) {
			h.emailTaken(ctx)
			return
		}

		RespondFault(ctx, err)
		return
	}

	RespondMessage(ctx, http.StatusOK, user.MsgCreated)
}

func (h *UsersHandler) emailTaken(ctx *gin.Context) {
	RespondMessage(ctx, http.StatusOK, user.MsgEmailTaken)
	ctx.Next()
}

// RemoveUser reports success whether or not a record matched.
func (h *UsersHandler) RemoveUser(ctx *gin.Context) {
	id := ctx.Param("id")

	if _, err := h.store.Remove(ctx.Request.Context(), user.ByID(id)); err != nil {
		RespondFault(ctx, err)
		return
	}

	RespondMessage(ctx, http.StatusOK, user.DeletedMessage(id))
}
