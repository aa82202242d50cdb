package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

func seedUser(t *testing.T, repo *memUserRepo, role string, active bool) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:        uuid.New().String(),
		FirstName: "Ana",
		LastName:  "García",
		Email:     uuid.New().String() + "@tienda.co",
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(u))
	return u
}

func TestUserUpdateProfile(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	u := seedUser(t, repo, entity.RoleStaff, true)

	first := "Mariana"
	phone := "+57 300 555 0101"
	out, err := uc.UpdateProfile(u.ID, dto.UpdateProfileRequest{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Mariana", out.FirstName)
	assert.Equal(t, phone, out.Phone)
}

func TestUserUpdateProfile_NotFound(t *testing.T) {
	uc := NewUserUseCase(newMemUserRepo())

	_, err := uc.UpdateProfile(uuid.New().String(), dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserUpdate_SelfDeactivationForbidden(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)

	inactive := false
	_, err := uc.Update(admin.ID, dto.UpdateUserRequest{IsActive: &inactive}, admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// otro admin sí puede desactivarlo si no es el último
	other := seedUser(t, repo, entity.RoleAdmin, true)
	out, err := uc.Update(admin.ID, dto.UpdateUserRequest{IsActive: &inactive}, other.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)
}

func TestUserChangeRole(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)
	staff := seedUser(t, repo, entity.RoleStaff, true)

	out, err := uc.ChangeRole(staff.ID, entity.RoleAuditor, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAuditor, out.Role)
}

func TestUserChangeRole_LastAdmin(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)

	_, err := uc.ChangeRole(admin.ID, entity.RoleStaff, admin.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// con un segundo admin activo la degradación procede
	seedUser(t, repo, entity.RoleAdmin, true)
	out, err := uc.ChangeRole(admin.ID, entity.RoleStaff, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, out.Role)
}

func TestUserChangeRole_InactiveAdminDoesNotCount(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)
	seedUser(t, repo, entity.RoleAdmin, false)

	_, err := uc.ChangeRole(admin.ID, entity.RoleStaff, admin.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserDeactivate(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)
	staff := seedUser(t, repo, entity.RoleStaff, true)

	require.NoError(t, uc.Deactivate(staff.ID, admin.ID))

	stored, err := repo.GetByID(staff.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestUserDeactivate_Self(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)

	err := uc.Deactivate(admin.ID, admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserDeactivate_LastAdmin(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)
	other := seedUser(t, repo, entity.RoleStaff, true)

	err := uc.Deactivate(admin.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserDeactivate_NotFound(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	admin := seedUser(t, repo, entity.RoleAdmin, true)

	err := uc.Deactivate(uuid.New().String(), admin.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserStats(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)
	seedUser(t, repo, entity.RoleAdmin, true)
	seedUser(t, repo, entity.RoleStaff, true)
	seedUser(t, repo, entity.RoleStaff, false)

	stats, err := uc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Active)
	assert.Equal(t, int64(1), stats.Inactive)
	assert.Equal(t, int64(2), stats.ByRole[entity.RoleStaff])
}
