package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/evotodo/backend/internal/config"
	"github.com/evotodo/backend/internal/db"
	"github.com/evotodo/backend/internal/http/api"
	authapi "github.com/evotodo/backend/internal/http/api/auth/endpoints"
	todoapi "github.com/evotodo/backend/internal/http/api/todos/endpoints"
	"github.com/evotodo/backend/internal/http/middleware"
)

const (
	appName = "Evolution of Todo"
	version = "0.1.0"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store) {
	r.Use(middleware.RequestLogger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-Request-ID",
		},
		AllowCredentials: true,
	}))

	// health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"app":     appName,
			"status":  "healthy",
			"version": version,
		})
	})

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		authapi.AuthModule(cfg.JWTSecret, tokenTTL, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		todoapi.TodoModule(store),
	)
}
