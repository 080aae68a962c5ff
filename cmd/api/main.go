package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/provider"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/infra/token"
	"github.com/xavierca1/ligue-leads/internal/infra/worker"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ Database unavailable: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatalf("❌ RabbitMQ unavailable: %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	sendRepo := database.NewSendRecordRepository(db)
	suppressionRepo := database.NewSuppressionRepository(db)
	assetRepo := database.NewLibraryAssetRepository(db)

	// 2. Gateways and adapters
	mailer := newEmailService()
	renderer := mail.NewRenderer()
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	tokens := token.NewDownloadTokenService(os.Getenv("DOWNLOAD_TOKEN_SECRET"))

	// 3. Use cases
	createLeadUC := usecase.NewCreateLeadUseCase(
		leadRepo, assetRepo, sendRepo, renderer, mailer, tokens,
		envOr("PUBLIC_BASE_URL", "http://localhost:8080"),
	)
	maxLagDays, _ := strconv.Atoi(os.Getenv("NURTURE_MAX_LAG_DAYS"))
	nurtureUC := usecase.NewRunNurtureUseCase(leadRepo, sendRepo, renderer, mailer, maxLagDays)
	ingestUC := usecase.NewIngestEmailEventUseCase(sendRepo, leadRepo, suppressionRepo)

	// 4. Queue worker (consumes provider events)
	eventWorker := queue.NewWorker(rabbitMQ.Ch, ingestUC)
	go eventWorker.Start(queue.QueueName)

	// Optional in-process nurture trigger, for setups without a cron
	if raw := os.Getenv("NURTURE_TICK_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("❌ Invalid NURTURE_TICK_INTERVAL %q: %v", raw, err)
		}
		ticker := worker.NewNurtureTicker(nurtureUC, interval)
		go ticker.Start(context.Background())
	}

	// 5. Handlers
	submissionHandler := handlers.NewSubmissionHandler(createLeadUC)
	nurtureHandler := handlers.NewNurtureHandler(nurtureUC, os.Getenv("CRON_SECRET"))
	webhookHandler := handlers.NewWebhookHandler(producer)
	downloadHandler := handlers.NewDownloadHandler(tokens, assetRepo, leadRepo)
	validationHandler := handlers.NewValidationHandler(suppressionRepo)
	adminHandler := handlers.NewAdminHandler(leadRepo, suppressionRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Admin-Secret"},
	}))

	r.Post("/api/leads/{channel}", submissionHandler.Handle)
	r.Get("/api/library/download", downloadHandler.Handle)
	r.Get("/api/validate/email", validationHandler.HandleEmail)

	r.Post("/cron/nurture", nurtureHandler.Handle)
	r.Post("/webhook/email", webhookHandler.Handle)

	r.Route("/admin", func(r chi.Router) {
		r.Use(handlers.RequireSecret("X-Admin-Secret", os.Getenv("ADMIN_SECRET")))
		r.Get("/leads", adminHandler.HandleList)
		r.Get("/leads/{channel}/{id}", adminHandler.HandleGet)
		r.Patch("/leads/{channel}/{id}/status", adminHandler.HandleUpdateStatus)
		r.Get("/suppressions", adminHandler.HandleListSuppressions)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 ligue-leads API running on %s", port)
	http.ListenAndServe(port, r)
}

// newEmailService picks the dispatcher: the HTTP transactional provider in
// production, plain SMTP for development.
func newEmailService() usecase.EmailService {
	from := envOr("MAIL_FROM", "no-reply@liguemedicina.com")

	if os.Getenv("MAIL_PROVIDER_URL") != "" {
		return provider.NewClient(os.Getenv("MAIL_PROVIDER_KEY"), os.Getenv("MAIL_PROVIDER_URL"), from)
	}

	port, err := strconv.Atoi(envOr("MAIL_PORT", "587"))
	if err != nil {
		port = 587
	}
	return mail.NewSMTPSender(os.Getenv("MAIL_HOST"), port, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), from)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
