package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	apphttp "libraryapi/internal/http"
	"libraryapi/internal/httpx"
	"libraryapi/internal/library"
	"libraryapi/internal/platform/googlebooks"
	"libraryapi/internal/platform/rtdb"
	"libraryapi/internal/store"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	rtdbURL := mustGetEnv("RTDB_URL")
	rtdbToken := getEnv("RTDB_AUTH_TOKEN", "")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	jwtSecret := mustGetEnv("JWT_SECRET")
	corsOrigins := getEnv("CORS_ORIGINS", "http://localhost:5173")

	db := rtdb.NewClient(rtdbURL, rtdbToken, getEnvInt("RTDB_RPS", 50))
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	loanStore := store.NewLoanRTDB(db)
	reservationStore := store.NewReservationRTDB(db)
	userStore := store.NewUserRTDB(db)
	blacklist := store.NewBlacklistRedis(rdb)

	service := library.NewService(loanStore, reservationStore, library.LogNotifier{})
	loadInitialData(service)

	books := googlebooks.NewClient(getEnvInt("BOOKS_API_RPS", 5), 2)

	loanHandler := apphttp.NewLoanHandler(service)
	reservationHandler := apphttp.NewReservationHandler(service)
	catalogHandler := apphttp.NewCatalogHandler(books)
	userHandler := apphttp.NewUserHandler(userStore, blacklist, jwtSecret)

	authRequired := httpx.AuthMiddleware(jwtSecret, blacklist)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "data store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /catalog/search", catalogHandler.Search)

	router.HandleFunc("POST /users/register", userHandler.Register)
	router.HandleFunc("POST /users/login", userHandler.Login)
	router.HandleFunc("POST /users/logout", userHandler.Logout)
	router.Handle("GET /me", authRequired(http.HandlerFunc(userHandler.Me)))

	router.Handle("GET /loans", authRequired(http.HandlerFunc(loanHandler.List)))
	router.Handle("POST /loans", authRequired(http.HandlerFunc(loanHandler.Create)))
	router.Handle("POST /loans/{id}/return", authRequired(http.HandlerFunc(loanHandler.Return)))
	router.Handle("POST /loans/{id}/notify", authRequired(http.HandlerFunc(loanHandler.Notify)))
	router.Handle("POST /reload", authRequired(http.HandlerFunc(loanHandler.Reload)))

	router.Handle("GET /reservations", authRequired(http.HandlerFunc(reservationHandler.List)))
	router.Handle("POST /reservations", authRequired(http.HandlerFunc(reservationHandler.Create)))
	router.Handle("POST /reservations/{id}/cancel", authRequired(http.HandlerFunc(reservationHandler.Cancel)))

	rateLimit := httpx.NewRateLimitMiddleware(20, 40)
	handler := httpx.RequestIDMiddleware(
		httpx.AccessLogMiddleware(
			httpx.RecoveryMiddleware(
				httpx.SecurityHeadersMiddleware(
					httpx.CORSMiddleware(splitOrigins(corsOrigins))(
						httpx.RequestSizeLimitMiddleware(1<<20)(
							rateLimit.Middleware(router)))))))

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// loadInitialData performs the one startup refresh. A failure is not
// fatal: the error sticks on the service and the first successful
// reload clears it.
func loadInitialData(service *library.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := service.LoadAll(ctx); err != nil {
		log.Printf("initial data load failed: %v", err)
		return
	}
	log.Printf("initial data load OK: loans=%d reservations=%d",
		len(service.Loans()), len(service.Reservations()))
}

func splitOrigins(origins string) []string {
	var out []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}
