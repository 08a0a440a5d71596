package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Attendance     *handlers.AttendanceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	protectedAuth := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protectedAuth.Post("/logout", cfg.Users.Logout)
	protectedAuth.Post("/password/change", cfg.Users.ChangePassword)

	attendanceGroup := app.Group("/attendance", cfg.AuthMiddleware.Handle)
	attendanceGroup.Post("/stamp", cfg.Attendance.Stamp)
	attendanceGroup.Post("/clock-out", cfg.Attendance.ClockOut)
	attendanceGroup.Get("/status", cfg.Attendance.Status)
	attendanceGroup.Get("/summary", cfg.Attendance.Summary)
}
