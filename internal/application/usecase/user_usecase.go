package usecase

import (
	"time"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios (listar, editar, cambiar rol, activar).
// El registro y la autenticación viven en el paquete auth.
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return toUserResponse(user), nil
}

// List lista usuarios con filtros y paginación.
func (uc *UserUseCase) List(filter repository.UserFilter, limit, offset int) (*dto.UserListResponse, error) {
	users, total, err := uc.userRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, u := range users {
		out.Users = append(out.Users, *toUserResponse(u))
	}
	return out, nil
}

// UpdateProfile edita el perfil del propio usuario.
func (uc *UserUseCase) UpdateProfile(userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Update edita un usuario (solo admin). Un admin no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(id string, in dto.UpdateUserRequest, actorID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if in.IsActive != nil && !*in.IsActive && id == actorID {
		return nil, domain.ErrForbidden
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ChangeRole cambia el rol de un usuario. Se rechaza degradar al último
// admin activo del sistema.
func (uc *UserUseCase) ChangeRole(id, role, actorID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin && role != entity.RoleAdmin {
		admins, err := uc.userRepo.ListActiveAdmins()
		if err != nil {
			return nil, err
		}
		if len(admins) <= 1 {
			return nil, domain.ErrConflict
		}
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Deactivate desactiva un usuario (soft delete). No permite autodesactivarse
// ni desactivar al último admin activo.
func (uc *UserUseCase) Deactivate(id, actorID string) error {
	if id == actorID {
		return domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin {
		admins, err := uc.userRepo.ListActiveAdmins()
		if err != nil {
			return err
		}
		if len(admins) <= 1 {
			return domain.ErrConflict
		}
	}
	user.IsActive = false
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(user)
}

// Stats conteo de usuarios por rol y estado.
func (uc *UserUseCase) Stats() (*dto.UserStatsResponse, error) {
	byRole, err := uc.userRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byRole {
		total += n
	}
	active := int64(0)
	isActive := true
	_, activeCount, err := uc.userRepo.List(repository.UserFilter{IsActive: &isActive}, 1, 0)
	if err == nil {
		active = activeCount
	}
	return &dto.UserStatsResponse{
		Total:    total,
		Active:   active,
		Inactive: total - active,
		ByRole:   byRole,
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
