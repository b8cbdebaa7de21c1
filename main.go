package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"gorm.io/gorm"

	"github.com/suaybkiraci/BlogSite/auth"
	"github.com/suaybkiraci/BlogSite/blog"
	"github.com/suaybkiraci/BlogSite/config"
	"github.com/suaybkiraci/BlogSite/constants"
	"github.com/suaybkiraci/BlogSite/database"
	"github.com/suaybkiraci/BlogSite/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.OpenWithDebug(cfg.DatabasePath, cfg.Debug)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	views := blog.NewViewTracker(constants.VIEW_COOLDOWN)
	go views.StartSweep(ctx, constants.VIEW_COOLDOWN)

	r := initRouter(db, views, cfg)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		log.Printf("Running on http://localhost%s", addr)
		if err := http.ListenAndServe(addr, r); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	// Block until a signal is received
	<-signals
	log.Println("Shutting down gracefully...")

	cancel()
	database.Close(db)
}

func initRouter(db *gorm.DB, views *blog.ViewTracker, cfg *config.Config) *chi.Mux {
	tokens := auth.NewTokenCodec(cfg.SecretKey, constants.ACCESS_TOKEN_TTL)
	authSvc := auth.NewService(db, tokens, cfg.AdminPanelSecret)
	blogSvc := blog.NewService(db, views)
	server := site.NewServer(db, authSvc, blogSvc, cfg.UploadDir)

	r := chi.NewRouter()

	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(site.RealIPMiddleware)
	r.Use(middleware.Logger)
	r.Use(httprate.LimitByIP(100, time.Minute)) // general rate limiter for all routes (shared across all routes)
	r.Use(middleware.Recoverer)

	server.Routes(r)

	return r
}
