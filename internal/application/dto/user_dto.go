package dto

// UpdateProfileRequest campos editables por el propio usuario.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateUserRequest campos editables por un admin sobre otro usuario.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	IsActive  *bool   `json:"is_active"`
}

// ChangeRoleRequest cambio de rol (solo admin).
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin staff auditor"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}

// UserStatsResponse conteo de usuarios por rol y estado.
type UserStatsResponse struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByRole   map[string]int64 `json:"by_role"`
}
