package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Testing-de-software-2025/JWT/internal/auth/domain"
	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
)

type AuthHandler struct {
	userService *service.UserService
	validate    *validator.Validate
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	if _, err := h.userService.Register(c.Context(), input); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterOutput{Status: "created"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tokenPair)
}

// Refresh exchanges the refresh-token header for a new token pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Get("refresh-token")
	if refreshToken == "" {
		return unauthenticated(c)
	}

	tokens, err := h.userService.Refresh(refreshToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := UserFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"email": user.Email,
	})
}

func (h *AuthHandler) CanDo(c *fiber.Ctx) error {
	user, ok := UserFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.userService.CanDo(user, c.Params("permission")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"allowed": true,
	})
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toUserOutput(user))
}

func (h *AuthHandler) AssignRoles(c *fiber.Ctx) error {
	var input dto.AssignRolesInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	user, err := h.userService.AssignRoles(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toUserOutput(user))
}

func (h *AuthHandler) RemoveRole(c *fiber.Ctx) error {
	if err := h.userService.RemoveRole(c.Context(), c.Params("id"), c.Params("roleId")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "role removed",
	})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid input",
	})
}

func toUserOutput(user *domain.User) dto.UserOutput {
	out := dto.UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, role := range user.Roles {
		out.Roles = append(out.Roles, toRoleOutput(role))
	}
	return out
}

func toRoleOutput(role domain.Role) dto.RoleOutput {
	out := dto.RoleOutput{
		ID:   role.ID,
		Name: role.Name,
	}
	for _, perm := range role.Permissions {
		out.Permissions = append(out.Permissions, dto.PermissionOutput{
			ID:   perm.ID,
			Code: perm.Code,
		})
	}
	return out
}
