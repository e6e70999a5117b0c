// Package router wires handlers and middleware onto Echo instances,
// one registration function per API surface.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sokogo/sokogo-backend/internal/config"
	"github.com/sokogo/sokogo-backend/internal/handler"
	"github.com/sokogo/sokogo-backend/internal/middleware"
	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// MarketplaceDeps carries everything the marketplace routes need.
type MarketplaceDeps struct {
	Cfg       config.Config
	Redis     *redis.Client
	Users     *repository.UserRepo
	Auth      *handler.AuthHandler
	Items     *handler.ItemHandler
	Bookings  *handler.BookingHandler
	Contact   *handler.ContactHandler
	UploadDir string
}

// RegisterMarketplace mounts the marketplace API.  Protected routes
// accept either a bearer token or a raw userid header; every route
// passes the rate limiter.  Only the public listing reads ride the
// Redis response cache — per-user reads always hit the database, so a
// cached body can never cross users.
func RegisterMarketplace(e *echo.Echo, d MarketplaceDeps) {
	e.Use(echomw.Recover())
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis))
	cached := middleware.ResponseCache(config.LoadCacheConfig(), d.Redis)

	e.GET("/health", handler.Health)
	e.GET("/api", handler.APIRoot)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	auth := e.Group("/api/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/users", d.Auth.ListUsers,
		middleware.BearerOrHeader(d.Cfg.JWTSecret, d.Users),
		middleware.RequireRole(model.RoleAdmin))

	items := e.Group("/api/items")
	items.GET("", d.Items.List, cached)
	items.GET("/popular/:category", d.Items.Popular, cached)
	items.GET("/:id", d.Items.GetByID)

	protected := middleware.BearerOrHeader(d.Cfg.JWTSecret, d.Users)
	items.POST("", d.Items.Create, protected)
	items.POST("/bulk", d.Items.BulkCreate, protected)
	items.GET("/seller/my-items", d.Items.MyItems, protected)
	items.PUT("/:id", d.Items.Update, protected)
	items.DELETE("/:id", d.Items.Delete, protected)

	bookings := e.Group("/api/bookings", protected)
	bookings.POST("", d.Bookings.Create)
	bookings.GET("", d.Bookings.List)
	bookings.GET("/:id", d.Bookings.GetByID)
	bookings.PATCH("/:id/status", d.Bookings.UpdateStatus)
	bookings.POST("/:id/cancel", d.Bookings.Cancel)

	contact := e.Group("/api/contact")
	contact.POST("/inquiry", d.Contact.Inquiry, protected)
	contact.POST("/contact", d.Contact.ContactForm)
	contact.GET("/test-email", d.Contact.TestEmail)
}
