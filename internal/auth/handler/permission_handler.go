package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Testing-de-software-2025/JWT/internal/auth/dto"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
)

type PermissionHandler struct {
	permissionService *service.PermissionService
	validate          *validator.Validate
}

func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		validate:          validator.New(),
	}
}

func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var input dto.CreatePermissionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	permission, err := h.permissionService.Create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.PermissionOutput{
		ID:   permission.ID,
		Code: permission.Code,
	})
}

func (h *PermissionHandler) List(c *fiber.Ctx) error {
	permissions, err := h.permissionService.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.PermissionOutput, 0, len(permissions))
	for _, perm := range permissions {
		out = append(out, dto.PermissionOutput{ID: perm.ID, Code: perm.Code})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *PermissionHandler) Get(c *fiber.Ctx) error {
	permission, err := h.permissionService.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.PermissionOutput{
		ID:   permission.ID,
		Code: permission.Code,
	})
}

func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	var input dto.CreatePermissionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(input); err != nil {
		return badRequest(c)
	}

	permission, err := h.permissionService.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.PermissionOutput{
		ID:   permission.ID,
		Code: permission.Code,
	})
}

func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	if err := h.permissionService.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "permission deleted",
	})
}
