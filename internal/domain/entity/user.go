package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleAuditor = "auditor"
)

// User representa un usuario del sistema (admin, staff o auditor).
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	Role          string // admin, staff, auditor
	Phone         string
	ProfileImage  Image
	IsActive      bool
	LastLogin     *time.Time
	LoginAttempts int
	LockUntil     *time.Time // nil = no bloqueado
	ResetOTP      string     // OTP de 6 dígitos para reset de contraseña
	ResetOTPExp   *time.Time
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName devuelve nombre y apellido concatenados.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsLocked indica si la cuenta está bloqueada por intentos fallidos de login.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RefreshToken representa un refresh token emitido a un usuario.
// Se persiste el hash SHA-256 del token, nunca el valor plano.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	Device    string
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}
