package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhandler "multiauth/internal/feature/multiauth/transport/handler"
	"multiauth/internal/platform/http/handler"
	"multiauth/internal/platform/http/middleware"
	jwtmw "multiauth/internal/platform/jwt"
)

// readyTimeout bounds the dependency pings of /readyz.
const readyTimeout = 2 * time.Second

// NewRouter registers every route on a new gin engine.
func NewRouter(authHandler *authhandler.AuthHandler, jwtSecret string, deps map[string]handler.Pinger, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))

	// no auth
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(readyTimeout, deps))
	r.POST("/login", authHandler.Login)
	r.POST("/login/token", authHandler.LoginWithToken)
	r.GET("/identifiers/available", authHandler.IdentifierAvailable)

	// JWT required
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.GET("/me", authHandler.Me)
	}

	return r
}
