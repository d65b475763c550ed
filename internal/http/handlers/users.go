package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/askhub/internal/auth"
	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/domain/user"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/geocoder89/askhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserStore interface {
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
}

type UsersHandler struct {
	users UserStore
	jwt   *auth.Manager
}

func NewUsersHandler(users UserStore, jwtManager *auth.Manager) *UsersHandler {
	return &UsersHandler{
		users: users,
		jwt:   jwtManager,
	}
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	taken, err := h.users.ExistsByUsernameOrEmail(cctx, req.Username, req.Email)

	if err != nil {
		slog.Error("registration uniqueness check failed", "err", err)
		RespondInternal(ctx, "Could not register user")
		return
	}

	if taken {
		RespondConflict(ctx, "user_exists", "User already registered")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not register user")
		return
	}

	u := user.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = h.users.Create(cctx, u)

	if err != nil {
		// the uniqueness probe can lose a race against a concurrent insert
		if errors.Is(err, user.ErrAlreadyExists) {
			RespondConflict(ctx, "user_exists", "User already registered")
			return
		}

		slog.Error("user insert failed", "err", err)
		RespondInternal(ctx, "Could not register user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"msg": "User registered successfully",
	})
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// same message as a bad password so emails can't be enumerated
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Username)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"msg":   "User login successful",
		"token": token,
		"user": gin.H{
			"username": foundUser.Username,
			"userid":   foundUser.ID,
		},
	})
}

// Check echoes the identity the auth middleware already verified. No store
// access.
func (h *UsersHandler) Check(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	username, _ := middlewares.UsernameFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"msg":      "Valid user",
		"username": username,
		"userid":   userID,
	})
}
