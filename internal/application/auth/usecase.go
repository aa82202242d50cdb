package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/application/ports"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/pkg/jwt"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

// Bloqueo de cuenta: 5 intentos fallidos bloquean 2 horas.
const (
	maxLoginAttempts = 5
	lockDuration     = 2 * time.Hour
	otpTTL           = 10 * time.Minute
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret         string
	ExpMinutes     int
	RefreshExpDays int
	Issuer         string
}

// AuthUseCase casos de uso de autenticación: registro, login con bloqueo por
// intentos, rotación de refresh tokens, logout y reset de contraseña por OTP.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	notifier  ports.Notifier
	jwtCfg    JWTConfig
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	notifier ports.Notifier,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenRepo: tokenRepo, notifier: notifier, jwtCfg: jwtCfg, log: log}
}

// Register crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe. El correo de
// bienvenida es best-effort.
func (uc *AuthUseCase) Register(in dto.RegisterRequest, createdBy string) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, _ := uc.userRepo.GetByEmail(email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStaff
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        in.Phone,
		IsActive:     true,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := uc.notifier.SendWelcomeEmail(context.Background(), user.Email, user.FirstName); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("no se pudo enviar el correo de bienvenida")
	}

	return ToUserResponse(user), nil
}

// Login verifica email/password con bloqueo por intentos fallidos, genera el
// par access/refresh y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest, device, ipAddress string) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	now := time.Now()
	if user.IsLocked(now) {
		return nil, domain.ErrAccountLocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.registerFailedAttempt(user, now)
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}

	// Login correcto: resetear intentos y registrar último acceso
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.issueRefreshToken(user.ID, device, ipAddress, now)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		User:         *ToUserResponse(user),
	}, nil
}

// Refresh rota el refresh token: valida el actual, lo revoca y emite un par nuevo.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest, device, ipAddress string) (*dto.RefreshResponse, error) {
	stored, err := uc.tokenRepo.GetByHash(jwt.HashToken(in.RefreshToken))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if stored == nil || stored.ExpiresAt.Before(now) {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidToken
	}

	// Rotación: el token usado se revoca siempre
	if err := uc.tokenRepo.DeleteByHash(stored.TokenHash); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.issueRefreshToken(user.ID, device, ipAddress, now)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Token: token, RefreshToken: refresh}, nil
}

// Logout revoca un refresh token concreto. Idempotente.
func (uc *AuthUseCase) Logout(refreshToken string) error {
	return uc.tokenRepo.DeleteByHash(jwt.HashToken(refreshToken))
}

// LogoutAll revoca todos los refresh tokens del usuario (todas las sesiones).
func (uc *AuthUseCase) LogoutAll(userID string) error {
	return uc.tokenRepo.DeleteByUser(userID)
}

// ChangePassword verifica la contraseña actual y guarda la nueva.
// Revoca todas las sesiones activas del usuario.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	return uc.tokenRepo.DeleteByUser(userID)
}

// RequestPasswordReset genera un OTP de 6 dígitos con vigencia de 10 minutos
// y lo envía por correo. Si el email no existe responde sin error (no se
// revela si la cuenta existe).
func (uc *AuthUseCase) RequestPasswordReset(email string) error {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	exp := time.Now().Add(otpTTL)
	user.ResetOTP = otp
	user.ResetOTPExp = &exp
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	if err := uc.notifier.SendPasswordResetOTP(context.Background(), user.Email, otp); err != nil {
		uc.log.Warn().Err(err).Str("email", user.Email).Msg("no se pudo enviar el OTP de reset")
	}
	return nil
}

// ResetPassword valida el OTP y guarda la nueva contraseña. Revoca sesiones.
func (uc *AuthUseCase) ResetPassword(email, otp, newPassword string) error {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	if user.ResetOTP == "" || user.ResetOTPExp == nil || user.ResetOTPExp.Before(now) || user.ResetOTP != otp {
		return domain.ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.ResetOTP = ""
	user.ResetOTPExp = nil
	user.UpdatedAt = now
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	return uc.tokenRepo.DeleteByUser(user.ID)
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) issueRefreshToken(userID, device, ipAddress string, now time.Time) (string, error) {
	plain, err := jwt.NewRefreshToken()
	if err != nil {
		return "", err
	}
	token := &entity.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: jwt.HashToken(plain),
		Device:    device,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(time.Duration(uc.jwtCfg.RefreshExpDays) * 24 * time.Hour),
		CreatedAt: now,
	}
	if err := uc.tokenRepo.Create(token); err != nil {
		return "", err
	}
	return plain, nil
}

func (uc *AuthUseCase) registerFailedAttempt(user *entity.User, now time.Time) {
	// Si el bloqueo venció, el contador arranca de nuevo
	if user.LockUntil != nil && user.LockUntil.Before(now) {
		user.LoginAttempts = 0
		user.LockUntil = nil
	}
	user.LoginAttempts++
	if user.LoginAttempts >= maxLoginAttempts && user.LockUntil == nil {
		until := now.Add(lockDuration)
		user.LockUntil = &until
	}
	user.UpdatedAt = now
	if err := uc.userRepo.Update(user); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo registrar el intento fallido de login")
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// ToUserResponse mapea la entidad a su DTO de salida (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
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
