package dto

type CreatePermissionInput struct {
	Code string `json:"code" validate:"required"`
}

type PermissionOutput struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}
