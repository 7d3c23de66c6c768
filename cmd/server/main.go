package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appemail "github.com/thca-multistore/backend/internal/application/email"
	"github.com/thca-multistore/backend/internal/application/intelligence"
	appstore "github.com/thca-multistore/backend/internal/application/store"
	"github.com/thca-multistore/backend/internal/infrastructure/config"
	"github.com/thca-multistore/backend/internal/infrastructure/email"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
	"github.com/thca-multistore/backend/internal/infrastructure/medusa"
	"github.com/thca-multistore/backend/internal/interfaces/http/handler"
	"github.com/thca-multistore/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync() //nolint:errcheck

	log.Info("starting server",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	platform, err := medusa.NewClient(&medusa.Config{
		BaseURL:        cfg.Medusa.BaseURL,
		APIToken:       cfg.Medusa.APIToken,
		TimeoutSeconds: cfg.Medusa.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("failed to create platform client", zap.Error(err))
	}
	if cfg.Medusa.APIToken == "" {
		log.Warn("medusa.api_token not set, platform reads will fail until configured")
	}

	intelligenceSvc := intelligence.NewService(platform, log)
	storeSvc := appstore.NewService(platform, platform, appstore.Fallbacks{
		LicenseNumber:   cfg.Compliance.BusinessLicense,
		BusinessState:   cfg.Compliance.BusinessState,
		BusinessType:    cfg.Compliance.BusinessType,
		ComplianceEmail: cfg.Compliance.ComplianceEmail,
		MaxOrderValue:   int64(cfg.Compliance.MaxOrderValue),
		COADir:          cfg.Compliance.COADir,
	}, log)

	// Email operations stay dark without a provider key; the endpoints
	// respond 503 instead of failing startup.
	var emailSvc *appemail.Service
	if cfg.Resend.APIKey != "" {
		sender, err := email.NewResendClient(email.ResendConfig{
			APIKey: cfg.Resend.APIKey,
			From:   cfg.Resend.From,
		})
		if err != nil {
			log.Fatal("failed to create email client", zap.Error(err))
		}
		emailSvc = appemail.NewService(sender, cfg.Resend.StoreDomains, log)
	} else {
		log.Warn("resend.api_key not set, email endpoints disabled")
	}

	engine := router.New(router.Config{
		Environment: cfg.App.Env,
		CORSOrigins: cfg.HTTP.CORSAllowOrigins,
		AppName:     cfg.App.Name,
		AppVersion:  version,
	}, log, router.Handlers{
		Intelligence: handler.NewIntelligenceHandler(intelligenceSvc),
		Store:        handler.NewStoreHandler(storeSvc),
		Email:        handler.NewEmailHandler(emailSvc),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
