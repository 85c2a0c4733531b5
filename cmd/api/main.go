package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"survey-insights-go/internal/api"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/session"
	"survey-insights-go/internal/survey"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "survey-insights-go").Info("starting service")

	password := os.Getenv("DASHBOARD_PASSWORD")
	if password == "" {
		log.Warn("DASHBOARD_PASSWORD not set, logins will be rejected")
	}

	store := session.NewStore(password)
	cache := survey.NewCache()

	// Optionally preload a survey export so every session starts with data.
	if data, source := preloadBytes(log); data != nil {
		table, err := cache.Load(data)
		if err != nil {
			log.WithError(err).WithField("source", source).Fatal("failed to load survey export")
		}
		ds := session.NewDataset(table)
		store.SetPreload(ds)
		log.WithField("source", source).
			WithField("respondents", table.Len()).
			WithField("likert_columns", len(ds.Likert)).
			Info("survey export preloaded")
	}

	handler := api.NewHandler(log, store, cache)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	handler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// preloadBytes fetches the startup dataset from DATASET_URL or DATASET_PATH,
// if either is configured.
func preloadBytes(log *logger.Logger) ([]byte, string) {
	if url := os.Getenv("DATASET_URL"); url != "" {
		data, err := survey.Fetch(url)
		if err != nil {
			log.WithError(err).WithField("dataset_url", url).Fatal("failed to fetch survey export")
		}
		return data, url
	}
	if path := os.Getenv("DATASET_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("dataset_path", path).Fatal("failed to read survey export")
		}
		return data, path
	}
	return nil, ""
}

func allowedOrigins() []string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{"http://localhost:3000"}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
