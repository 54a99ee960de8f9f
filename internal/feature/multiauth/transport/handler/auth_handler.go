// Package handler provides the HTTP handlers of the multiauth feature.
package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multiauth/internal/feature/multiauth/domain"
	"multiauth/internal/feature/multiauth/domain/entity"
	"multiauth/internal/feature/multiauth/transport/http/dto"
	jwtmw "multiauth/internal/platform/jwt"
)

// rememberTokenBytes yields a 64 character hex token.
const rememberTokenBytes = 32

const msgInvalidCredentials = "invalid credentials"

// UserProvider is the part of usecase.Provider the handlers need.
type UserProvider interface {
	Attempt(ctx context.Context, credentials map[string]string) (*entity.User, error)
	RetrieveByID(ctx context.Context, key string) (*entity.User, error)
	RetrieveByToken(ctx context.Context, key, token string) (*entity.User, error)
	UpdateRememberToken(ctx context.Context, user *entity.User, token string) error
	IdentifierAvailable(ctx context.Context, value, exceptKey string) (bool, error)
}

// AuthHandler handles the login and identity endpoints.
type AuthHandler struct {
	users         UserProvider
	tokens        jwtmw.Generator
	identifierKey string
	log           *zap.Logger

	newRememberToken func() (string, error)
}

// NewAuthHandler creates an AuthHandler. identifierKey names the credential
// field that the request's "identifier" value is passed under.
func NewAuthHandler(users UserProvider, tokens jwtmw.Generator, identifierKey string, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		users:            users,
		tokens:           tokens,
		identifierKey:    identifierKey,
		log:              log,
		newRememberToken: randomToken,
	}
}

// Login authenticates a user against every configured entity.
// Every rejected attempt gets the same 401 body; the cause is only logged.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("login validation failed", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "invalid request"})
		return
	}
	if !req.HasIdentifier() {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "identifier or email is required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.Attempt(ctx, req.Credentials(h.identifierKey))
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) || errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Info("login rejected", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: msgInvalidCredentials})
			return
		}
		h.internalError(c, "login failed", err)
		return
	}

	token, err := h.tokens.GenerateToken(user.Key)
	if err != nil {
		h.internalError(c, "token signing failed", err)
		return
	}

	resp := dto.LoginResp{Token: token, UserKey: user.Key}
	if req.Remember {
		remember, err := h.newRememberToken()
		if err != nil {
			h.internalError(c, "remember token generation failed", err)
			return
		}
		if err := h.users.UpdateRememberToken(ctx, user, remember); err != nil {
			h.internalError(c, "remember token update failed", err)
			return
		}
		resp.RememberToken = remember
	}

	h.log.Info("user login successful", zap.String("user_key", user.Key), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusOK, resp)
}

// LoginWithToken exchanges a remember token for a fresh access token.
func (h *AuthHandler) LoginWithToken(c *gin.Context) {
	var req dto.TokenLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "invalid request"})
		return
	}

	user, err := h.users.RetrieveByToken(c.Request.Context(), req.UserKey, req.RememberToken)
	if err != nil {
		h.internalError(c, "remember token lookup failed", err)
		return
	}
	if user == nil {
		h.log.Info("remember token rejected", zap.String("user_key", req.UserKey), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: msgInvalidCredentials})
		return
	}

	token, err := h.tokens.GenerateToken(user.Key)
	if err != nil {
		h.internalError(c, "token signing failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResp{Token: token, UserKey: user.Key})
}

// Me returns the user addressed by the access token's subject.
func (h *AuthHandler) Me(c *gin.Context) {
	key, ok := jwtmw.UserKeyFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: "unauthorized"})
		return
	}

	user, err := h.users.RetrieveByID(c.Request.Context(), key)
	switch {
	case errors.Is(err, domain.ErrMalformedKey), errors.Is(err, domain.ErrUnknownEntityType):
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: "unauthorized"})
		return
	case err != nil:
		h.internalError(c, "user lookup failed", err)
		return
	case user == nil:
		c.JSON(http.StatusUnauthorized, dto.ErrorResp{Error: "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, dto.MeResp{UserKey: user.Key, Type: user.Type()})
}

// IdentifierAvailable reports whether ?value= is unclaimed across all
// entities. ?except= names a user key allowed to already own it.
func (h *AuthHandler) IdentifierAvailable(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "value is required"})
		return
	}

	ok, err := h.users.IdentifierAvailable(c.Request.Context(), value, c.Query("except"))
	if errors.Is(err, domain.ErrMalformedKey) {
		c.JSON(http.StatusBadRequest, dto.ErrorResp{Error: "malformed except key"})
		return
	}
	if err != nil {
		h.internalError(c, "identifier lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResp{Available: ok})
}

func (h *AuthHandler) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusInternalServerError, dto.ErrorResp{Error: "internal error"})
}

func randomToken() (string, error) {
	b := make([]byte, rememberTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
