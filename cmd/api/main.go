package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/volunteer-service/internal/api/http"
	"github.com/spec-kit/volunteer-service/internal/api/http/handlers"
	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/observability"
	"github.com/spec-kit/volunteer-service/internal/persistence"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
	"github.com/spec-kit/volunteer-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	txRunner := repository.NewTxRunner(pool)
	userRepo := repository.NewUserRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)
	signupRepo := repository.NewSignupRepository(pool)
	achievementRepo := repository.NewAchievementRepository(pool)
	surveyRepo := repository.NewSurveyRepository(pool)
	friendRepo := repository.NewFriendRepository(pool)
	scheduleRepo := repository.NewRegularScheduleRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	signupService := service.NewSignupService(cfg.Signup, service.SignupDependencies{
		ShiftRepo:  shiftRepo,
		SignupRepo: signupRepo,
		UserRepo:   userRepo,
		TxRunner:   txRunner,
		Dispatcher: dispatcher,
	})
	shiftService := service.NewShiftService(service.ShiftDependencies{
		ShiftRepo:  shiftRepo,
		SignupRepo: signupRepo,
		Dispatcher: dispatcher,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:        userRepo,
		SignupRepo:      signupRepo,
		AchievementRepo: achievementRepo,
		SurveyRepo:      surveyRepo,
		FriendRepo:      friendRepo,
		TxRunner:        txRunner,
	})
	scheduleService := service.NewRegularScheduleService(cfg.Signup, service.RegularScheduleDependencies{
		ScheduleRepo: scheduleRepo,
		ShiftRepo:    shiftRepo,
		SignupRepo:   signupRepo,
		UserRepo:     userRepo,
		TxRunner:     txRunner,
	})
	achievementService := service.NewAchievementService(achievementRepo, signupRepo, dispatcher, logger)
	surveyService := service.NewSurveyService(surveyRepo)
	friendService := service.NewFriendService(friendRepo, userRepo)
	chatService := service.NewChatService(redis.Client, cfg.Chat, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	newsletterService := service.NewNewsletterService(dispatcher, logger, cfg.Newsletter)

	worker.StartEventWorkers(notificationService, newsletterService, achievementService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	cutoff := cfg.Signup.AMCutoffHour
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, signupService, achievementService, cutoff),
		Shifts:         handlers.NewShiftsHandler(shiftService, signupService, cutoff),
		Signups:        handlers.NewSignupsHandler(signupService),
		Admin:          handlers.NewAdminHandler(shiftService, signupService, adminService, scheduleService, cutoff),
		Surveys:        handlers.NewSurveysHandler(surveyService),
		Friends:        handlers.NewFriendsHandler(friendService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: authMiddleware,
		RateLimit:      httptransport.RateLimitMiddleware(cfg.App.RateLimitPerSecond, cfg.App.RateLimitBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
