package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
)

const userLocalsKey = "user"

// AuthMiddleware is the authorization guard: it verifies the bearer token,
// loads the user behind it and checks the route's declared permission codes.
type AuthMiddleware struct {
	tokenService service.TokenGenerator
	users        domain.UserRepository
}

func NewAuthMiddleware(tokenService service.TokenGenerator, users domain.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		users:        users,
	}
}

// RequirePermissions authenticates the request and requires the user to hold
// every given permission code. With no codes it only authenticates. Token
// failures are always reported as a plain 401; expired and tampered tokens
// are not distinguished to the caller.
func (m *AuthMiddleware) RequirePermissions(codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthenticated(c)
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := m.tokenService.Verify(token, service.TokenClassAccess)
		if err != nil {
			return unauthenticated(c)
		}

		user, err := m.users.GetByEmail(c.Context(), claims.Email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
		if user == nil {
			return unauthenticated(c)
		}

		if ok, missing := user.HasPermissions(codes); !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "insufficient permissions",
				"missing": missing,
			})
		}

		c.Locals(userLocalsKey, user)

		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthenticated",
	})
}

// UserFromContext returns the user stored by RequirePermissions.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*domain.User)
	return user, ok
}
