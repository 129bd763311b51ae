package dto

import "time"

type UserOutput struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Roles     []RoleOutput `json:"roles"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type AssignRolesInput struct {
	RoleIDs []string `json:"roleIds" validate:"required,min=1"`
}
