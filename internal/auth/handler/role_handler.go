package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
)

type RoleHandler struct {
	roleService *service.RoleService
	validate    *validator.Validate
}

func NewRoleHandler(roleService *service.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		validate:    validator.New(),
	}
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	role, err := h.roleService.Create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toRoleOutput(*role))
}

func (h *RoleHandler) List(c *fiber.Ctx) error {
	roles, err := h.roleService.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.RoleOutput, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleOutput(role))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *RoleHandler) Get(c *fiber.Ctx) error {
	role, err := h.roleService.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toRoleOutput(*role))
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var input dto.CreateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	role, err := h.roleService.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toRoleOutput(*role))
}

func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	if err := h.roleService.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "role deleted",
	})
}

func (h *RoleHandler) AssignPermissions(c *fiber.Ctx) error {
	var input dto.AssignPermissionsInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	role, err := h.roleService.AssignPermissions(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toRoleOutput(*role))
}

func (h *RoleHandler) RemovePermission(c *fiber.Ctx) error {
	if err := h.roleService.RemovePermission(c.Context(), c.Params("id"), c.Params("permissionId")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "permission removed",
	})
}
