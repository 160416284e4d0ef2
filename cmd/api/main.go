package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"accidata/internal/catalog"
	"accidata/internal/config"
	"accidata/internal/db"
	"accidata/internal/email"
	apihttp "accidata/internal/http"
	"accidata/internal/repository"
	"accidata/internal/service"
	"accidata/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionRepo := repository.NewPgSessionRepository(pool)
	responseRepo := repository.NewPgResponseRepository(pool)
	documentRepo := repository.NewPgDocumentRepository(pool)

	var responseStore service.ResponseStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory response store", zap.Error(err))
		} else {
			responseStore = service.NewRedisResponseStore(redisClient, cfg.ResponseNamespace, logger)
		}
		cancel()
	}
	if responseStore == nil {
		responseStore = service.NewMemoryResponseStore(cfg.ResponseNamespace)
	}

	accidentCatalog := catalog.Accident()
	responseSvc := service.NewResponseService(responseStore, responseRepo, logger)
	sessionSvc := service.NewSessionService(sessionRepo, accidentCatalog, responseSvc, logger)

	var objectStore service.ObjectStore
	if cfg.S3Endpoint != "" {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Warn("object storage init failed, uploads disabled", zap.Error(err))
		} else {
			objectStore = s3Store
		}
	} else {
		logger.Warn("object storage not configured, uploads disabled")
	}
	attachmentSvc := service.NewAttachmentService(objectStore, documentRepo, logger)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}
	reportSvc := service.NewReportService(emailSender, logger)

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	voiceCfg := service.VoiceConfig{
		SilenceWindow: time.Duration(cfg.VoiceSilenceWindowMS) * time.Millisecond,
		RetryBackoff:  time.Duration(cfg.VoiceRetryBackoffMS) * time.Millisecond,
		AutoMode:      cfg.VoiceAutoMode,
	}

	sessionHandler := apihttp.NewSessionHandler(logger, sessionSvc, tokenSvc, reportSvc, attachmentSvc)
	questionnaireHandler := apihttp.NewQuestionnaireHandler(logger, accidentCatalog, sessionSvc, responseSvc)
	documentHandler := apihttp.NewDocumentHandler(logger, sessionSvc, attachmentSvc)
	voiceHandler := apihttp.NewVoiceHandler(logger, sessionSvc, voiceCfg)
	router := apihttp.NewRouter(logger, sessionHandler, questionnaireHandler, documentHandler, voiceHandler, tokenSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
