package api

import (
	"errors"

	"github.com/example/todo-backend/modules/auth"
	"github.com/example/todo-backend/modules/reports"
	"github.com/gofiber/fiber/v2"
)

// reportError maps report service failures. Account lookups can miss when a
// token outlives its user row.
func reportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "user does not exist"})
	}
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "report generation failed"})
}

// totalTasks handles GET /reports/total-tasks/.
func (m *Module) totalTasks(c *fiber.Ctx) error {
	claims := userClaims(c)

	report, err := m.reports.TotalTasks(c.UserContext(), claims.UserID)
	if err != nil {
		return reportError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// averageCompleted handles GET /reports/average-completed/.
func (m *Module) averageCompleted(c *fiber.Ctx) error {
	claims := userClaims(c)

	report, err := m.reports.AverageCompleted(c.UserContext(), claims.UserID)
	if err != nil {
		return reportError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// overdueTasks handles GET /reports/overdue-tasks/.
func (m *Module) overdueTasks(c *fiber.Ctx) error {
	claims := userClaims(c)

	report, err := m.reports.OverdueTasks(c.UserContext(), claims.UserID)
	if err != nil {
		return reportError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// maxDate handles GET /reports/max-date/.
func (m *Module) maxDate(c *fiber.Ctx) error {
	claims := userClaims(c)

	report, err := m.reports.MaxDate(c.UserContext(), claims.UserID)
	if err != nil {
		return reportError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// countOpened handles GET /reports/count-opened/. A user with no tasks gets
// a 200 with a null body instead of an empty histogram.
func (m *Module) countOpened(c *fiber.Ctx) error {
	claims := userClaims(c)

	report, err := m.reports.CountOpened(c.UserContext(), claims.UserID)
	if err != nil {
		return reportError(c, err)
	}
	if report == nil {
		return c.JSON(fiber.Map{"response": nil})
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// similarTasks handles GET /reports/similar-tasks/.
func (m *Module) similarTasks(c *fiber.Ctx) error {
	claims := userClaims(c)

	pairs, err := m.reports.SimilarTasks(c.UserContext(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrNoTasks):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
		case errors.Is(err, reports.ErrOnlyOneTask):
			return c.JSON(MessageResponse{Response: err.Error()})
		default:
			return reportError(c, err)
		}
	}

	if len(pairs) == 0 {
		return c.JSON(MessageResponse{Response: "no similar tasks found"})
	}
	return c.Status(fiber.StatusCreated).JSON(SimilarTasksResponse{SimilarTasks: pairs})
}
