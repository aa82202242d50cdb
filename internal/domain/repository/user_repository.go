package repository

import "github.com/jhoicas/pos-inventario-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(filter UserFilter, limit, offset int) ([]*entity.User, int64, error)
	ListActiveAdmins() ([]*entity.User, error)
	CountByRole() (map[string]int64, error)
}

// UserFilter filtros opcionales para listar usuarios.
type UserFilter struct {
	Role     string
	IsActive *bool
	Search   string // nombre o email
}

// RefreshTokenRepository persistencia de refresh tokens (hash, nunca plano).
type RefreshTokenRepository interface {
	Create(token *entity.RefreshToken) error
	GetByHash(tokenHash string) (*entity.RefreshToken, error)
	DeleteByHash(tokenHash string) error
	DeleteByUser(userID string) error
	DeleteExpired() (int64, error)
}
