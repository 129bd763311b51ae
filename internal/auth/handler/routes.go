package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Permission codes declared per route. The guard requires every listed code
// (AND semantics); routes with an empty set only authenticate.
const (
	PermUserReader         = "user_reader"
	PermUserRoleAssignment = "user_role_assignment"
	PermRoleManage         = "role_manage"
	PermPermissionManage   = "permission_manage"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, rh *RoleHandler, ph *PermissionHandler, guard *AuthMiddleware) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("status:OK")
	})

	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Get("/refresh-token", h.Refresh)

	app.Get("/me", guard.RequirePermissions(), h.Me)
	app.Get("/can-do/:permission", guard.RequirePermissions(), h.CanDo)

	users := app.Group("/users")
	users.Get("/:id", guard.RequirePermissions(PermUserReader), h.GetUser)
	users.Post("/:id/assign-roles", guard.RequirePermissions(PermUserRoleAssignment), h.AssignRoles)
	users.Delete("/:id/remove-role/:roleId", guard.RequirePermissions(PermUserRoleAssignment), h.RemoveRole)

	roles := app.Group("/roles", guard.RequirePermissions(PermRoleManage))
	roles.Post("/", rh.Create)
	roles.Get("/", rh.List)
	roles.Get("/:id", rh.Get)
	roles.Put("/:id", rh.Update)
	roles.Delete("/:id", rh.Delete)
	roles.Post("/:id/assign-permissions", rh.AssignPermissions)
	roles.Delete("/:id/remove-permission/:permissionId", rh.RemovePermission)

	permissions := app.Group("/permissions", guard.RequirePermissions(PermPermissionManage))
	permissions.Post("/", ph.Create)
	permissions.Get("/", ph.List)
	permissions.Get("/:id", ph.Get)
	permissions.Put("/:id", ph.Update)
	permissions.Delete("/:id", ph.Delete)
}
