package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/shuttergrid/shuttergrid/internal/config"
	"github.com/shuttergrid/shuttergrid/internal/database"
	postgresrepo "github.com/shuttergrid/shuttergrid/internal/repository/postgres"
	"github.com/shuttergrid/shuttergrid/internal/service"
	"github.com/shuttergrid/shuttergrid/internal/storage"
	"github.com/shuttergrid/shuttergrid/internal/transport/http/handlers"
	"github.com/shuttergrid/shuttergrid/internal/transport/http/middleware"
	"github.com/shuttergrid/shuttergrid/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal(err)
	}

	// Object storage
	store, err := storage.NewMinioStore(storage.MinioOptions{
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		UseSSL:        cfg.S3UseSSL,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Realtime hub
	hub := ws.NewHub()
	go hub.Run()
	notifier := ws.NewHubNotifier(hub)

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	resetRepo := postgresrepo.NewPasswordResetRepo(pool)
	imageRepo := postgresrepo.NewImageRepo(pool)
	likeRepo := postgresrepo.NewLikeRepo(pool)
	commentRepo := postgresrepo.NewCommentRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, resetRepo, cfg.JWTSecret)
	imageService := service.NewImageService(imageRepo, likeRepo, store, notifier)
	commentService := service.NewCommentService(commentRepo, imageRepo, notifier)
	followService := service.NewFollowService(followRepo, userRepo, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	imageHandler := handlers.NewImageHandler(imageService)
	commentHandler := handlers.NewCommentHandler(commentService)
	profileHandler := handlers.NewProfileHandler(followService)

	// Middleware
	auth := middleware.Auth(cfg.JWTSecret)
	optional := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", authHandler.ResetPassword)
	mux.Handle("GET /api/v1/auth/me", auth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/v1/profile", auth(http.HandlerFunc(authHandler.UpdateProfile)))

	// Images
	mux.Handle("GET /api/v1/images", optional(http.HandlerFunc(imageHandler.Feed)))
	mux.Handle("POST /api/v1/images", auth(http.HandlerFunc(imageHandler.Upload)))
	mux.Handle("GET /api/v1/images/{id}", optional(http.HandlerFunc(imageHandler.Get)))
	mux.Handle("POST /api/v1/images/{id}/like", auth(http.HandlerFunc(imageHandler.ToggleLike)))

	// Comments
	mux.Handle("GET /api/v1/images/{id}/comments", optional(http.HandlerFunc(commentHandler.List)))
	mux.Handle("POST /api/v1/images/{id}/comments", auth(http.HandlerFunc(commentHandler.Add)))

	// Profiles and follows
	mux.Handle("GET /api/v1/profiles/{username}", optional(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("GET /api/v1/users/{id}/images", optional(http.HandlerFunc(imageHandler.ListByUser)))
	mux.Handle("POST /api/v1/users/{id}/follow", auth(http.HandlerFunc(profileHandler.ToggleFollow)))
	mux.HandleFunc("GET /api/v1/users/{id}/followers", profileHandler.Followers)
	mux.HandleFunc("GET /api/v1/users/{id}/following", profileHandler.Following)

	// Realtime
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
