package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "job-board/docs" // Swagger docs
	"job-board/internal/api"
	"job-board/internal/auth"
	"job-board/internal/config"
	"job-board/internal/events"
	"job-board/internal/media"
	"job-board/internal/resume"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

// @title Job Board API
// @version 1.0
// @description Job board with recruiter verification and resume scoring
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.Println("Connecting to database...")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx); err != nil {
		cancel()
		log.Fatal("db migrate:", err)
	}
	cancel()
	log.Println("Database connected successfully!")

	mediaStore, mediaDir := newMediaStore(cfg)

	cache := scoring.NewCache(cfg.RedisURL, cfg.ScoreCacheTTL)
	defer cache.Close()
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	cache.StartCleanup(cleanupCtx, 10*time.Minute)
	// Uploads score inline; finish before the write timeout.
	scoreClient := scoring.NewClient(cfg.ScoringURL, cfg.ScoringTimeout).WithBudget(cfg.WriteTimeout - 15*time.Second)
	scorer := scoring.NewCachingScorer(scoreClient, cache)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer amqpPub.Close()
			publisher = amqpPub
			log.Println("Publishing events to RabbitMQ")
		}
	}

	apiSrv := api.NewAPI(api.Deps{
		Store:    db,
		Tokens:   auth.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry),
		Uploader: resume.NewUploader(cfg.UploadsDir),
		Parser:   resume.NewParser(),
		Media:    mediaStore,
		Scorer:   scorer,
		Events:   publisher,
	}, api.Options{
		CookieSecure:   cfg.CookieSecure,
		CORSOrigin:     cfg.CORSOrigin,
		LoginRateLimit: cfg.LoginRateLimit,
		TrustedProxies: cfg.TrustedProxies,
		RescoreRate:    cfg.RescoreRate,
	})
	router := api.NewRouter(apiSrv, mediaDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // resume uploads
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		if err := apiSrv.Shutdown(ctx); err != nil {
			log.Println("background workers shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}

// newMediaStore picks the configured backend. The returned directory is
// served under /media/ and is empty for object storage.
func newMediaStore(cfg *config.Config) (media.Store, string) {
	if cfg.StorageDriver == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		store, err := media.NewS3Store(ctx, media.S3Settings{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			log.Fatal("s3 store:", err)
		}
		log.Printf("Storing media in bucket %s", cfg.S3.Bucket)
		return store, ""
	}

	store, err := media.NewLocalStore(cfg.MediaDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("media dir:", err)
	}
	log.Printf("Storing media under %s", store.Dir())
	return store, store.Dir()
}
