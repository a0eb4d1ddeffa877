package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/volunteer-service/internal/api/http/handlers"
	"github.com/spec-kit/volunteer-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Shifts         *handlers.ShiftsHandler
	Signups        *handlers.SignupsHandler
	Admin          *handlers.AdminHandler
	Surveys        *handlers.SurveysHandler
	Friends        *handlers.FriendsHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimit      fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	api.Get("/shifts", cfg.Shifts.ListShifts)
	api.Get("/shifts/:id", cfg.Shifts.GetShift)
	api.Get("/shift-types", cfg.Shifts.ListTypes)
	api.Get("/shifts/:id/auto-approval-check", auth.RequireVolunteer(), cfg.Shifts.AutoApprovalCheck)
	api.Post("/shifts/:id/signup", auth.RequireVolunteer(), cfg.RateLimit, cfg.Shifts.SignUp)

	api.Post("/signups/:id/cancel", cfg.Signups.Cancel)

	api.Get("/me", cfg.Users.Me)
	api.Get("/me/signups", cfg.Users.MySignups)
	api.Get("/me/achievements", cfg.Users.MyAchievements)

	api.Get("/surveys", cfg.Surveys.ListOpen)
	api.Post("/surveys/:id/responses", auth.RequireVolunteer(), cfg.Surveys.Submit)

	api.Get("/friends", cfg.Friends.List)
	api.Post("/friends/requests", auth.RequireVolunteer(), cfg.Friends.Request)
	api.Post("/friends/requests/:id/accept", auth.RequireVolunteer(), cfg.Friends.Accept)

	api.Post("/chat", cfg.RateLimit, cfg.Chat.Ask)
	api.Get("/chat/:session_id", cfg.Chat.History)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Post("/shifts", cfg.Admin.CreateShift)
	admin.Put("/shifts/:id", cfg.Admin.UpdateShift)
	admin.Delete("/shifts/:id", cfg.Admin.DeleteShift)
	admin.Post("/shifts/:id/assign", cfg.Admin.AssignVolunteer)
	admin.Get("/shifts/:id/roster", cfg.Admin.ListRoster)
	admin.Post("/signups/:id/confirm", cfg.Admin.ConfirmSignup)
	admin.Post("/signups/:id/no-show", cfg.Admin.MarkNoShow)
	admin.Post("/signups/:id/cancel", cfg.Signups.Cancel)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users/merge/preview", cfg.Admin.MergePreview)
	admin.Post("/users/merge", cfg.Admin.MergeUsers)
	admin.Post("/surveys", cfg.Surveys.Create)
	admin.Post("/regular-schedules", cfg.Admin.CreateRegularSchedule)
	admin.Post("/regular-schedules/:id/generate", cfg.Admin.GenerateSchedule)
	admin.Post("/regular-schedules/:id/deactivate", cfg.Admin.DeactivateSchedule)
}
