package dto

type CreateRoleInput struct {
	Name string `json:"name" validate:"required"`
}

type RoleOutput struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Permissions []PermissionOutput `json:"permissions"`
}

type AssignPermissionsInput struct {
	PermissionIDs []string `json:"permissionIds" validate:"required,min=1"`
}
