package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-compliance/internal/auth"
	"github.com/ukydev/fleet-compliance/internal/broker"
	"github.com/ukydev/fleet-compliance/internal/db"
	"github.com/ukydev/fleet-compliance/internal/handlers"
	"github.com/ukydev/fleet-compliance/internal/middleware"
	"github.com/ukydev/fleet-compliance/internal/poller"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "fleet_compliance"
	}
	store := db.NewStore(client.Database(dbName))

	// Catalog configuration defects are reported once at load time, not
	// per evaluation.
	for _, defect := range db.ValidateCatalog(context.Background(), store.Types) {
		log.WithError(defect).Error("maintenance type catalog defect")
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize auth service")
	}
	authMW := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	authHandler := handlers.NewAuthHandler(authService, store.Users)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	// Credential endpoints are unauthenticated; throttle them per IP.
	loginLimit := rateLimiter.RateLimit(10, 60)
	mux.Handle("/api/auth/login", loginLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("/api/auth/register", loginLimit(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)

	gate := func(actions map[string]string, h http.Handler) http.Handler {
		return authMW.RequireMethodPermission(actions)(h)
	}
	mux.Handle("/api/assets", gate(map[string]string{
		http.MethodGet:  "view_assets",
		http.MethodPost: "manage_assets",
	}, handlers.NewAssetHandler(store.Assets)))
	mux.Handle("/api/assets/usage", gate(map[string]string{
		http.MethodPost: "ingest_usage",
	}, handlers.NewUsageHandler(store.Assets)))
	mux.Handle("/api/maintenance-types", gate(map[string]string{
		http.MethodGet:  "view_maintenance",
		http.MethodPost: "manage_catalog",
	}, handlers.NewCatalogHandler(store.Types)))
	mux.Handle("/api/maintenance", gate(map[string]string{
		http.MethodGet:  "view_maintenance",
		http.MethodPost: "record_maintenance",
	}, handlers.NewRecordHandler(store.Records, store.Types, store.Assets)))
	mux.Handle("/api/directives", gate(map[string]string{
		http.MethodGet:  "view_directives",
		http.MethodPost: "manage_directives",
	}, handlers.NewDirectiveHandler(store.Directives, store.Assets)))
	mux.Handle("/api/directives/compliance", gate(map[string]string{
		http.MethodPost: "record_compliance",
	}, handlers.NewComplianceHandler(store.Directives)))
	mux.Handle("/api/worklist", gate(map[string]string{
		http.MethodGet: "view_worklist",
	}, handlers.NewWorklistHandler(store)))

	var publisher poller.WorklistPublisher
	var mqttPub *broker.Publisher
	if brokerURL := os.Getenv("MQTT_BROKER_URL"); brokerURL != "" {
		clientID := os.Getenv("MQTT_CLIENT_ID")
		if clientID == "" {
			clientID = "fleet-compliance"
		}
		mqttPub, err = broker.Connect(brokerURL, clientID)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to MQTT broker")
		}
		defer mqttPub.Disconnect()
		publisher = mqttPub
		log.WithField("broker", brokerURL).Info("publishing worklists over MQTT")
	}

	interval := 45 * time.Second
	if val := os.Getenv("POLL_INTERVAL"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			interval = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.New(store, publisher, interval).Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: authMW.Authenticate(mux),
	}

	go func() {
		log.WithField("port", port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
}
