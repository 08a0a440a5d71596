package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/attendance"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/service"
)

// AttendanceHandler exposes the stamp, clock-out, status and summary
// endpoints for the authenticated user.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	env        string
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, env string) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendanceService, env: env}
}

// Stamp handles POST /attendance/stamp.
func (h *AttendanceHandler) Stamp(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	result, err := h.attendance.Stamp(c.Context(), principal.User.ID, h.now(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Message: result.Message, Status: string(result.Status)}})
}

// ClockOut handles POST /attendance/clock-out.
func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	result, err := h.attendance.ClockOut(c.Context(), principal.User.ID, h.now(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ActionResponse{Message: result.Message, Status: string(result.Status)}})
}

// Status handles GET /attendance/status.
func (h *AttendanceHandler) Status(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	result, err := h.attendance.GetStatus(c.Context(), principal.User.ID, h.now(c))
	if err != nil {
		return err
	}

	resp := dto.StatusResponse{
		Status:     string(result.Status),
		EntryCount: result.EntryCount,
	}
	if result.LastEntry != nil {
		kind := string(result.LastEntry.Kind)
		stamped := result.LastEntry.RecordedAt
		resp.LastKind = &kind
		resp.LastStamped = &stamped
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Summary handles GET /attendance/summary.
func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	includeOpen := c.QueryBool("as_of_now", false)
	report, err := h.attendance.Summarize(c.Context(), principal.User.ID, h.now(c), includeOpen)
	if err != nil {
		return err
	}

	resp := dto.SummaryResponse{
		Daily:     toSummaryBuckets(report.Daily),
		Weekly:    toSummaryBuckets(report.Weekly),
		Monthly:   toSummaryBuckets(report.Monthly),
		TotalMs:   report.Total.Milliseconds(),
		Anomalies: report.Anomalies,
	}
	return c.JSON(fiber.Map{"data": resp})
}

// now resolves the effective clock for the request. Outside production
// an explicit RFC3339 "at" query parameter overrides the wall clock,
// which keeps day-boundary behavior reproducible in tests.
func (h *AttendanceHandler) now(c *fiber.Ctx) time.Time {
	if h.env != "production" {
		if raw := c.Query("at"); raw != "" {
			if at, err := time.Parse(time.RFC3339, raw); err == nil {
				return at
			}
		}
	}
	return time.Now()
}

func toSummaryBuckets(buckets []attendance.Bucket) []dto.SummaryBucket {
	out := make([]dto.SummaryBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.SummaryBucket{
			Key:          b.Key,
			Milliseconds: b.Total.Milliseconds(),
			Pretty:       b.Total.String(),
		})
	}
	return out
}
