package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Testing-de-software-2025/JWT/internal/errors"
)

// writeError maps service errors onto HTTP responses. Invalid credentials and
// account lockout both answer 401, but the bodies differ so clients can show
// the unlock time.
func writeError(c *fiber.Ctx, err error) error {
	var locked *apperrors.AccountLockedError
	var forbidden *apperrors.ForbiddenError

	switch {
	case errors.As(err, &locked):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":    "account locked",
			"unlockAt": locked.UnlockAt,
		})
	case errors.As(err, &forbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "insufficient permissions",
			"missing": forbidden.Missing,
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired):
		return unauthenticated(c)
	case errors.Is(err, apperrors.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "email already in use",
		})
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrRoleNotFound),
		errors.Is(err, apperrors.ErrPermissionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, apperrors.ErrCreationFailed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "creation failed",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
