package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	apphttp "pokedexapi/internal/http"
	"pokedexapi/internal/httpx"
	"pokedexapi/internal/platform/pokeapi"
	"pokedexapi/internal/pokedex"
	"pokedexapi/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	upstreamBaseURL := getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2")
	upstreamRPS := getEnvInt("POKEAPI_RPS", 20)

	adminUsername := getEnv("ADMIN_USERNAME", "admin")
	adminPassword := getEnv("ADMIN_PASSWORD", "admin")
	adminPasswordHash := os.Getenv("ADMIN_PASSWORD_BCRYPT")

	sessionTTL := getEnvDuration("SESSION_TTL", 24*time.Hour)
	sweepInterval := getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour)
	snapshotTTL := getEnvDuration("CATALOG_SNAPSHOT_TTL", time.Hour)
	indexCap := getEnvInt("CATALOG_INDEX_CAP", 2000)
	corsOrigins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	client := pokeapi.NewClient(upstreamBaseURL, "pokedexapi/1.0", upstreamRPS)
	pokedexService := pokedex.NewService(client, logger, pokedex.Config{
		IndexCap:    indexCap,
		SnapshotTTL: snapshotTTL,
	})

	var verifier session.CredentialVerifier
	if adminPasswordHash != "" {
		verifier = session.BcryptVerifier{Username: adminUsername, PasswordHash: adminPasswordHash}
	} else {
		verifier = session.PlainVerifier{Username: adminUsername, Password: adminPassword}
	}
	sessions := session.NewStore(verifier, sessionTTL, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sessions.SweepLoop(ctx, sweepInterval)

	authHandler := apphttp.NewAuthHandler(sessions)
	pokemonHandler := apphttp.NewPokemonHandler(pokedexService)
	requireAuth := apphttp.AuthMiddleware(sessions)

	router := http.NewServeMux()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.HandleFunc("/login", authHandler.Login)
	router.HandleFunc("/logout", authHandler.Logout)

	router.Handle("/pokemons", requireAuth(http.HandlerFunc(pokemonHandler.List)))
	router.Handle("/pokemons/", requireAuth(http.HandlerFunc(pokemonHandler.Get)))

	rateLimit := httpx.NewRateLimitMiddleware(10, 20)

	var handler http.Handler = router
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.CORSMiddleware(corsOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", "addr", serverAddress, "upstream", upstreamBaseURL)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
