package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/config"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/handlers"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/messaging"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/middleware"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	trioRepo := repository.NewTrioRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	taskRepo := repository.NewDailyTaskRepository(db)

	publisher, err := messaging.NewPublisher(cfg.NATSURL, "trinity-api")
	if err != nil {
		return err
	}

	queueService := services.NewQueueService(queueRepo)
	assembler := services.NewPgTrioAssembler(db)
	matchingService := services.NewMatchingService(userRepo, queueService, assembler, publisher)
	trioService := services.NewTrioService(db, trioRepo, userRepo, publisher)
	taskService := services.NewTaskService(db, taskRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	onboardingHandler := handlers.NewOnboardingHandler(userRepo)
	profileHandler := handlers.NewProfileHandler(userRepo)
	matchingHandler := handlers.NewMatchingHandler(matchingService, queueService)
	trioHandler := handlers.NewTrioHandler(trioService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	users := authProtected.Group("/users")
	users.Post("/onboarding", onboardingHandler.Onboarding)
	users.Get("/profile", profileHandler.GetProfile)
	users.Put("/profile", profileHandler.UpdateProfile)

	matching := authProtected.Group("/matching")
	matching.Post("/search", matchingHandler.Search)
	matching.Get("/queue-position", matchingHandler.QueuePosition)
	matching.Delete("", matchingHandler.Cancel)
	matching.Post("/queue/refresh-wait-times", matchingHandler.RefreshWaitTimes)

	trios := authProtected.Group("/trios")
	trios.Get("/me", trioHandler.GetMyTrio)
	trios.Post("/:id/complete", trioHandler.Complete)

	tasks := authProtected.Group("/tasks")
	tasks.Get("", taskHandler.GetDailyTasks)
	tasks.Put("/:id/status", taskHandler.UpdateTaskStatus)
	tasks.Get("/:id/history", taskHandler.GetTaskHistory)

	notifications := authProtected.Group("/notifications")
	notifications.Get("", notificationHandler.List)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	return nil
}
