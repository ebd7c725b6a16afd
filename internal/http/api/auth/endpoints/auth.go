package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/evotodo/backend/internal/db"
	"github.com/evotodo/backend/internal/http/api"
	"github.com/evotodo/backend/internal/http/api/auth/packets"
	"github.com/evotodo/backend/internal/http/middleware"
)

// AuthModule mounts the public account endpoints (/auth/signup, /auth/signin,
// /auth/signout). Sign-out is a stateless no-op: tokens stay valid until they
// expire, the client just discards its copy.
func AuthModule(jwtSecret string, tokenTTL time.Duration, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, tokenTTL, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/signup", ctl.userSignup)
		c.PUBLIC_POST("/auth/signin", ctl.userSignin)
		c.PUBLIC_POST("/auth/signout", ctl.userSignout)
	})
}

type AccountManager struct {
	jwtSecret string
	tokenTTL  time.Duration
	store     db.Store
}

func newAccountManager(secret string, ttl time.Duration, store db.Store) *AccountManager {
	return &AccountManager{jwtSecret: secret, tokenTTL: ttl, store: store}
}

func (a *AccountManager) authResponse(id int, email string, createdAt time.Time, token string) packets.AuthResponse {
	return packets.AuthResponse{
		ID:          id,
		Email:       email,
		CreatedAt:   createdAt.Format(time.RFC3339),
		AccessToken: token,
	}
}

// POST /api/auth/signup
func (a *AccountManager) userSignup(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if existing, _ := a.store.GetUserByEmail(request.Email); existing != nil {
		log.Warn().Str("email", request.Email).Msg("signup email already registered")
		return nil, &api.APIError{Code: http.StatusConflict, Message: "email already registered"}
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not hash password"}
	}

	user, err := a.store.CreateUser(request.Email, hashed)
	if err != nil {
		// the unique constraint can still fire between the pre-check and insert
		if errors.Is(err, db.ErrDuplicateEmail) {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "email already registered"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create user"}
	}

	token, err := middleware.GenerateJWT(user.ID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return api.Created{Body: a.authResponse(user.ID, user.Email, user.CreatedAt, token)}, nil
}

// POST /api/auth/signin
func (a *AccountManager) userSignin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SigninRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// one generic message for unknown email and wrong password alike,
	// so responses never reveal which emails are registered
	foundUser, err := a.store.GetUserByEmail(request.Email)
	if err != nil || foundUser == nil || !middleware.CheckPassword(foundUser.HashedPassword, request.Password) {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(foundUser.ID, a.jwtSecret, a.tokenTTL)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return a.authResponse(foundUser.ID, foundUser.Email, foundUser.CreatedAt, token), nil
}

// POST /api/auth/signout
func (a *AccountManager) userSignout(ctx *gin.Context) (any, *api.APIError) {
	return api.NoContent{}, nil
}
