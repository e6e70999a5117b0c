package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sokogo/sokogo-backend/internal/config"
	"github.com/sokogo/sokogo-backend/internal/handler"
	"github.com/sokogo/sokogo-backend/internal/middleware"
	"github.com/sokogo/sokogo-backend/internal/repository"
)

// TicketingDeps carries everything the ticketing routes need.
type TicketingDeps struct {
	Redis    *redis.Client
	Users    *repository.UserRepo
	Auth     *handler.AuthHandler
	Theaters *handler.TheaterHandler
	Movies   *handler.MovieHandler
	Carts    *handler.CartHandler
	Tickets  *handler.TicketHandler
}

// RegisterTicketing mounts the ticketing API.  Identity comes from the
// raw userid header resolved against the users table; register and
// login are the only open routes besides the health check.  The Redis
// response cache covers theater and movie listings only: carts, ticket
// history and seat maps are never cached, so per-user reads stay
// private and a confirmed booking is visible on the very next seat
// read.
func RegisterTicketing(e *echo.Echo, d TicketingDeps) {
	e.Use(echomw.Recover())
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis))
	cached := middleware.ResponseCache(config.LoadCacheConfig(), d.Redis)

	e.GET("/health", handler.Health)

	user := e.Group("/user")
	user.POST("/register", d.Auth.Register)
	user.POST("/login", d.Auth.Login)

	authed := middleware.HeaderAuth(d.Users)

	theaters := e.Group("/theaters", authed)
	theaters.POST("/add", d.Theaters.Add)
	theaters.GET("/allTheater", d.Theaters.All, cached)
	theaters.GET("/oneTheater/:id", d.Theaters.One, cached)
	theaters.GET("/search", d.Theaters.Search, cached)

	movies := e.Group("/movie", authed)
	movies.POST("/add/:theaterId", d.Movies.Add)
	movies.POST("/addShowtime/:movieId", d.Movies.AddShowtime)
	movies.GET("/availableSeatDetails/:movieId", d.Movies.SeatDetails)
	movies.GET("/AllMovie/:theaterId", d.Movies.AllByTheater, cached)
	movies.GET("/OneMovie/:movieId/:showId", d.Movies.One)

	cart := e.Group("/cart", authed)
	cart.POST("/add/:movieId", d.Carts.Add)
	cart.GET("/get", d.Carts.Get)
	cart.DELETE("/remove/:cartId", d.Carts.Remove)

	bookings := e.Group("/bookings", authed)
	bookings.POST("/book/:movieId", d.Tickets.Confirm)
	bookings.GET("/get", d.Tickets.Get)
	bookings.GET("/search", d.Tickets.Search)
}
