// Command marketplace runs the classifieds API: auth, listings, item
// bookings, contact email and image upload.
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
	"github.com/sokogo/sokogo-backend/internal/mailer"
	"github.com/sokogo/sokogo-backend/internal/repository"
	"github.com/sokogo/sokogo-backend/internal/router"
	"github.com/sokogo/sokogo-backend/internal/upload"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("marketplace: database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("marketplace: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	images, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("marketplace: upload store: %v", err)
	}
	mail := mailer.New(cfg)

	users := repository.NewUserRepo(db)
	items := repository.NewItemRepo(db)
	bookings := repository.NewBookingRepo(db)

	e := echo.New()
	e.HideBanner = true
	router.RegisterMarketplace(e, router.MarketplaceDeps{
		Cfg:       cfg,
		Redis:     rdb,
		Users:     users,
		Auth:      handler.NewAuthHandler(cfg, users),
		Items:     handler.NewItemHandler(items, users, mail, images),
		Bookings:  handler.NewBookingHandler(bookings, items),
		Contact:   handler.NewContactHandler(items, users, mail),
		UploadDir: images.Dir(),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Printf("marketplace: listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("marketplace: server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("marketplace: shutdown: %v", err)
	}
	log.Printf("marketplace: stopped")
}
