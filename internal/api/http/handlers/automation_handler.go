package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/scheduler"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AutomationHandler exposes manual triggers for the scheduled jobs, mostly
// for operators and integration tests.
type AutomationHandler struct {
	automation *scheduler.Automation
}

// NewAutomationHandler constructs handler.
func NewAutomationHandler(automation *scheduler.Automation) *AutomationHandler {
	return &AutomationHandler{automation: automation}
}

// RunJob POST /automation/run/:job.
func (h *AutomationHandler) RunJob(c *fiber.Ctx) error {
	job := c.Params("job")
	var err error
	switch job {
	case scheduler.JobAutoClose:
		err = h.automation.RunAutoClose(c.Context())
	case scheduler.JobThirdPartyTimeout:
		err = h.automation.RunPendingThirdPartyTimeout(c.Context())
	case scheduler.JobEscalationSweep:
		err = h.automation.RunEscalationSweep(c.Context())
	default:
		return apperrors.NewValidationError("unknown job", map[string]any{
			"job": job,
			"known": []string{
				scheduler.JobAutoClose,
				scheduler.JobThirdPartyTimeout,
				scheduler.JobEscalationSweep,
			},
		})
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"job": job, "status": "completed"}})
}
