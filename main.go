package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyagr/auth"
	"voyagr/live"
	"voyagr/mq"
	"voyagr/pay"
	"voyagr/places"
	"voyagr/plans"
	"voyagr/profile"
	"voyagr/ratelim"
	"voyagr/rdx"
	"voyagr/reviews"
	"voyagr/routes"
	"voyagr/store"
	"voyagr/trips"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := store.Connect(ctx, envOr("MONGO_URI", "mongodb://localhost:27017"), envOr("MONGO_DB", "voyagrdb"))
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient := rdx.New(envOr("REDIS_ADDR", "localhost:6379"))
	emitter := mq.NewEmitter(redisClient.Conn)

	mailer := &auth.Mailer{
		From: envOr("SMTP_FROM", "noreply@voyagr.app"),
		Pass: os.Getenv("SMTP_PASS"),
		Host: envOr("SMTP_HOST", "smtp.gmail.com"),
		Port: envOr("SMTP_PORT", "587"),
	}

	gateway := pay.NewRESTGateway(
		envOr("PAYGATE_URL", "https://api.paygate.local"),
		os.Getenv("PAYGATE_KEY"),
		os.Getenv("PAYGATE_SECRET"),
	)

	rateLimiter := ratelim.NewRateLimiter()

	hub := live.NewHub()
	go hub.Run()

	tripManager := trips.NewManager(db)
	engagement := reviews.NewEngagement(db)

	router := httprouter.New()
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Write([]byte("200"))
	})

	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, auth.NewHandler(db, redisClient, emitter, mailer), rateLimiter)
	routes.AddProfileRoutes(router, profile.NewHandler(db))
	routes.AddPlanRoutes(router, plans.NewHandler(db, emitter), rateLimiter)
	routes.AddPlaceRoutes(router, places.NewHandler(db, emitter), rateLimiter)
	routes.AddTripRoutes(router, trips.NewHandler(tripManager, emitter, hub), rateLimiter)
	routes.AddReviewsRoutes(router, reviews.NewHandler(db, engagement, emitter), rateLimiter)
	routes.AddPaymentRoutes(router, pay.NewHandler(db, gateway, emitter), rateLimiter)
	routes.AddLiveRoutes(router, hub)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down live hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
	}

	log.Println("Server stopped cleanly")
}
