package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/agendou/agendou-api/internal/domain"
	"github.com/agendou/agendou-api/internal/handlers"
	httpmw "github.com/agendou/agendou-api/internal/http/middleware"
	"github.com/agendou/agendou-api/internal/repository"
	"github.com/agendou/agendou-api/internal/service"
	"github.com/agendou/agendou-api/pkg/config"
	"github.com/agendou/agendou-api/pkg/database"
	"github.com/agendou/agendou-api/pkg/events"
	"github.com/agendou/agendou-api/pkg/logger"
	mw "github.com/agendou/agendou-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	clock := domain.RealClock()

	// Repositories
	businessRepo := repository.NewBusinessRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	accessCodeRepo := repository.NewAccessCodeRepository(pool)
	idempotencyRepo := repository.NewIdempotencyRepository(pool)

	// Services
	businessService := service.NewBusinessService(businessRepo, accessCodeRepo, eventBus, clock, cfg)
	authService := service.NewAuthService(userRepo, accessCodeRepo, businessService, clock, cfg)
	catalogService := service.NewCatalogService(serviceRepo, businessService)
	availabilityService := service.NewAvailabilityService(availabilityRepo, appointmentRepo, serviceRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, serviceRepo, idempotencyRepo, availabilityService, eventBus, clock)

	h := handlers.New(authService, businessService, catalogService, availabilityService, appointmentService, cfg)

	// Idempotency records expire after a day; purge them in the background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := idempotencyRepo.CleanupExpired(ctx)
			if err != nil {
				logger.Error("Idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Purged expired idempotency records", "count", n)
			}
		}
	}()

	loginLimiter := httpmw.NewRateLimiter(httpmw.NewRedisCounter(redisClient), httpmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  httpmw.LoginKeys,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Business-Id", "X-Request-ID", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(loginLimiter.Middleware()).Post("/login", h.Login)
		r.With(h.RequireJWT()).Get("/me", h.Me)
	})

	// Public surface, scoped by the X-Business-Id header.
	r.Post("/leads", h.CreateLead)
	r.Get("/disponibilidades/horarios-disponiveis", h.AvailableTimes)
	r.Get("/profissionais/{id}/servicos", h.ListProfessionalServices)

	r.Route("/agendamentos", func(r chi.Router) {
		r.Route("/cliente", func(r chi.Router) {
			r.Use(h.RequireJWT(domain.RoleClient))
			r.Post("/", h.CreateAppointment)
			r.Get("/", h.ListMyAppointments)
		})
		r.With(h.RequireJWT(domain.RoleClient)).Patch("/{id}/cancelar", h.CancelAppointment)

		r.Route("/profissional", func(r chi.Router) {
			r.Use(h.RequireJWT(domain.RoleProfessional))
			r.Get("/", h.ListDayAgenda)
			r.Get("/faturamento", h.Revenue)
		})
		r.With(h.RequireJWT(domain.RoleProfessional)).Patch("/{id}/status", h.UpdateAppointmentStatus)
	})

	r.Route("/servicos", func(r chi.Router) {
		r.Use(h.RequireJWT(domain.RoleProfessional))
		r.Post("/", h.CreateService)
		r.Get("/", h.ListMyServices)
		r.Patch("/{id}", h.UpdateService)
		r.Delete("/{id}", h.DisableService)
	})

	r.Route("/disponibilidades", func(r chi.Router) {
		r.Use(h.RequireJWT(domain.RoleProfessional))
		r.Post("/", h.CreateAvailability)
		r.Get("/", h.ListAvailability)
		r.Delete("/{id}", h.DeleteAvailability)
	})

	r.Route("/admin/businesses", func(r chi.Router) {
		r.Use(h.RequireJWT(domain.RoleAdmin))
		r.Get("/", h.ListBusinesses)
		r.Post("/", h.CreateBusiness)
		r.Get("/{id}", h.GetBusiness)
		r.Get("/{id}/users", h.ListBusinessUsers)
		r.Patch("/{id}", h.UpdateBusiness)
		r.Post("/{id}/block", h.BlockBusiness)
		r.Post("/{id}/unblock", h.UnblockBusiness)
		r.Post("/{id}/payments", h.RegisterPayment)
		r.Post("/{id}/access-codes", h.CreateAccessCode)
		r.Get("/{id}/access-codes", h.ListAccessCodes)
		r.Delete("/{id}/access-codes/{codeId}", h.DeactivateAccessCode)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
