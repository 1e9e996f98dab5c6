package serverutils

import (
	"errors"

	"design-team-be/internal/errs"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so
// controllers can simply return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error(), validationErr.Fields))
		}

		var contributorErr *errs.ContributorError
		if errors.As(err, &contributorErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(contributorErr.Error(), fiber.Map{
				"stage_index": contributorErr.StageIndex,
				"role":        contributorErr.Role,
			}))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, nil))
		}

		status := statusFor(err)
		return ctx.Status(status).JSON(ErrorResponse(err.Error(), nil))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, errs.ErrSessionClosed),
		errors.Is(err, errs.ErrSessionPaused),
		errors.Is(err, errs.ErrPipelineFinished),
		errors.Is(err, errs.ErrGatePending),
		errors.Is(err, errs.ErrNoGatePending),
		errors.Is(err, errs.ErrStaleRun):
		return fiber.StatusConflict
	case errors.Is(err, errs.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
