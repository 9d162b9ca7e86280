package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NizanHulq/portfolio-web/config"
	"github.com/NizanHulq/portfolio-web/database"
	"github.com/NizanHulq/portfolio-web/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database) (Server, error) {
	c := config.New()

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	cache := services.NewContextCache(db, services.DefaultContextTTL)

	llm, err := services.NewGroqModel(c)
	if err != nil {
		return Server{}, fmt.Errorf("initializing completion client: %w", err)
	}
	relay := services.NewChatRelay(llm, cache)

	uploader, err := services.NewS3Uploader(context.Background(),
		config.GetString(c, "S3_BUCKET", ""),
		config.GetString(c, "S3_PUBLIC_BASE_URL", ""))
	if err != nil {
		return Server{}, fmt.Errorf("initializing uploader: %w", err)
	}

	router := newRouter(db, cache, relay, uploader, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180*time.Second)
	writeTimeout := config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second)
	idleTimeout := config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db database.Database, cache *services.ContextCache, relay chatReplier, uploader services.Uploader, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := strings.Split(config.GetString(router.config, "ACCEPTED_ORIGINS", "*"), ",")
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := initializeHandlers(db, router.config, cache, relay, uploader)

	secret := []byte(config.GetString(router.config, "SESSION_SECRET", ""))
	authMiddleware := newAuthMiddleware(secret)

	startupTime := router.startupTime
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		NewResponder(log.Logger).WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(startupTime).String(),
		})
	})

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
