package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-ops-api/internal/config"
	"github.com/jwalitptl/clinic-ops-api/internal/email"
	"github.com/jwalitptl/clinic-ops-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/auth"
	catalogHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/catalog"
	dashboardHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/dashboard"
	equipmentHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/equipment"
	patientHandler "github.com/jwalitptl/clinic-ops-api/internal/handler/patient"
	"github.com/jwalitptl/clinic-ops-api/internal/middleware"
	"github.com/jwalitptl/clinic-ops-api/internal/repository/postgres"
	"github.com/jwalitptl/clinic-ops-api/internal/router"
	appointmentService "github.com/jwalitptl/clinic-ops-api/internal/service/appointment"
	authService "github.com/jwalitptl/clinic-ops-api/internal/service/auth"
	catalogService "github.com/jwalitptl/clinic-ops-api/internal/service/catalog"
	dashboardService "github.com/jwalitptl/clinic-ops-api/internal/service/dashboard"
	equipmentService "github.com/jwalitptl/clinic-ops-api/internal/service/equipment"
	patientService "github.com/jwalitptl/clinic-ops-api/internal/service/patient"
	"github.com/jwalitptl/clinic-ops-api/pkg/auth"
	"github.com/jwalitptl/clinic-ops-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	equipmentRepo := postgres.NewEquipmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer := email.NewSender(email.Config{
		Enabled:  cfg.SMTP.Enabled,
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, serviceRepo, mailer)
	dashboardSvc := dashboardService.NewService(appointmentRepo, time.Duration(cfg.Dashboard.CacheTTLSeconds)*time.Second)
	patientSvc := patientService.NewService(patientRepo)
	catalogSvc := catalogService.NewService(serviceRepo)
	equipmentSvc := equipmentService.NewService(equipmentRepo)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler(db)
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		dashboardHandler.NewHandler(dashboardSvc),
		patientHandler.NewHandler(patientSvc),
		catalogHandler.NewHandler(catalogSvc),
		equipmentHandler.NewHandler(equipmentSvc),
		h,
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORSConfig: middleware.CORSConfig{
				AllowOrigins:     cfg.CORS.AllowedOrigins,
				AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           3600,
			},
			Timeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
