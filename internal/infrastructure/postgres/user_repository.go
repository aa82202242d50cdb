package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, first_name, last_name, email, password_hash, role, phone,
	profile_image_url, is_active, last_login, login_attempts, lock_until,
	reset_otp, reset_otp_exp, created_by, updated_by, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, phone,
			profile_image_url, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.FirstName, user.LastName, strings.ToLower(user.Email), user.PasswordHash,
		user.Role, nullIfEmpty(user.Phone), nullIfEmpty(user.ProfileImage.URL),
		user.IsActive, nullIfEmpty(user.CreatedBy), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get user by id")
}

// GetByEmail obtiene un usuario por email (case-insensitive).
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, strings.ToLower(email)), "get user by email")
}

// Update actualiza un usuario (incluye estado de lockout y OTP de reset).
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET first_name = $2, last_name = $3, email = $4, password_hash = $5,
			role = $6, phone = $7, profile_image_url = $8, is_active = $9,
			last_login = $10, login_attempts = $11, lock_until = $12,
			reset_otp = $13, reset_otp_exp = $14, updated_by = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.FirstName, user.LastName, strings.ToLower(user.Email), user.PasswordHash,
		user.Role, nullIfEmpty(user.Phone), nullIfEmpty(user.ProfileImage.URL), user.IsActive,
		user.LastLogin, user.LoginAttempts, user.LockUntil,
		nullIfEmpty(user.ResetOTP), user.ResetOTPExp, nullIfEmpty(user.UpdatedBy), user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List lista usuarios con filtros y paginación.
func (r *UserRepo) List(filter repository.UserFilter, limit, offset int) ([]*entity.User, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if filter.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", i))
		args = append(args, filter.Role)
		i++
	}
	if filter.IsActive != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", i))
		args = append(args, *filter.IsActive)
		i++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", i, i, i))
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT count(*) FROM users WHERE ` + cond
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, cond, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// ListActiveAdmins lista los admins activos (destinatarios de alertas de stock).
func (r *UserRepo) ListActiveAdmins() ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND is_active = true ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list active admins: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountByRole cuenta usuarios agrupados por rol.
func (r *UserRepo) CountByRole() (map[string]int64, error) {
	rows, err := r.q.Query(context.Background(), `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var role string
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepo) scanRow(rows pgx.Rows) (*entity.User, error) {
	u, err := scanUser(rows)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var phone, profileImage, resetOTP, createdBy, updatedBy *string
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &phone,
		&profileImage, &u.IsActive, &u.LastLogin, &u.LoginAttempts, &u.LockUntil,
		&resetOTP, &u.ResetOTPExp, &createdBy, &updatedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Phone = derefStr(phone)
	u.ProfileImage = entity.Image{URL: derefStr(profileImage)}
	u.ResetOTP = derefStr(resetOTP)
	u.CreatedBy = derefStr(createdBy)
	u.UpdatedBy = derefStr(updatedBy)
	return &u, nil
}
