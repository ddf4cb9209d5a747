package handlers

import (
	"errors"

	"roomflow/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindIllegalTransition, apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps an application error onto an HTTP response. Unclassified
// errors surface as 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	body := fiber.Map{
		"error": appErr.Message,
		"kind":  appErr.Kind,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	if appErr.Kind == apperrors.KindIllegalTransition {
		body["currentState"] = appErr.CurrentState
		body["action"] = appErr.Action
	}

	return c.Status(statusForKind(appErr.Kind)).JSON(body)
}

// parseBody parses and validates a JSON request body into dst.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make(map[string]string, len(invalid))
			for _, fieldErr := range invalid {
				fields[fieldErr.Field()] = "failed " + fieldErr.Tag() + " validation"
			}
			return apperrors.ValidationFields("request validation failed", fields)
		}
		return apperrors.Validation("request validation failed")
	}
	return nil
}
