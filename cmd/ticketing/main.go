// Command ticketing runs the cinema API: theaters, movies with
// per-showtime seat arrays, carts and the booking-confirmation core.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/config"
	"github.com/sokogo/sokogo-backend/internal/database"
	"github.com/sokogo/sokogo-backend/internal/handler"
	"github.com/sokogo/sokogo-backend/internal/queue"
	"github.com/sokogo/sokogo-backend/internal/repository"
	"github.com/sokogo/sokogo-backend/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("ticketing: database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("ticketing: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	theaters := repository.NewTheaterRepo(db)
	movies := repository.NewMovieRepo(db)
	carts := repository.NewCartRepo(db)
	tickets := repository.NewTicketRepo(db)

	// Consumer records confirmed bookings to logs/tickets.log; it runs
	// its own reconnect loop for the life of the process.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticketing: consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterTicketing(e, router.TicketingDeps{
		Redis:    rdb,
		Users:    users,
		Auth:     handler.NewAuthHandler(cfg, users),
		Theaters: handler.NewTheaterHandler(theaters),
		Movies:   handler.NewMovieHandler(movies, theaters),
		Carts:    handler.NewCartHandler(carts, movies, theaters),
		Tickets:  handler.NewTicketHandler(tickets, carts, movies),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Printf("ticketing: listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ticketing: server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("ticketing: shutdown: %v", err)
	}
	log.Printf("ticketing: stopped")
}
