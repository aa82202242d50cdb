package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario-api/internal/application/audit"
	"github.com/jhoicas/pos-inventario-api/internal/application/auth"
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// AuthHandler maneja registro, login, refresh y recuperación de contraseña.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	recorder *audit.Recorder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, recorder *audit.Recorder) *AuthHandler {
	return &AuthHandler{uc: uc, recorder: recorder}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	user, err := h.uc.Register(in, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionUserRegister,
		Resource:    "user",
		ResourceID:  user.ID,
		Actor:       GetUserID(c),
		Description: "registro de usuario " + user.Email,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Login(in, c.Get("User-Agent"), c.IP())
	if err != nil {
		h.recorder.Record(audit.Entry{
			Action:      entity.ActionLoginFailed,
			Resource:    "user",
			Description: "login fallido para " + in.Email,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Severity:    entity.AuditSeverityMedium,
			Status:      entity.AuditStatusFailed,
		})
		if errors.Is(err, domain.ErrAccountLocked) {
			return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "ACCOUNT_LOCKED", Message: "cuenta bloqueada temporalmente por intentos fallidos"})
		}
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionUserLogin,
		Resource:    "user",
		ResourceID:  out.User.ID,
		Actor:       out.User.ID,
		Description: "inicio de sesión",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotar tokens con un refresh token vigente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh_token"
// @Success      200   {object}  dto.RefreshResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	out, err := h.uc.Refresh(in, c.Get("User-Agent"), c.IP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "refresh token inválido o expirado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el refresh token)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogoutRequest  true  "refresh_token"
// @Success      204   "Sin contenido"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var in dto.LogoutRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	if err := h.uc.Logout(in.RefreshToken); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionUserLogout,
		Resource:    "user",
		Actor:       GetUserID(c),
		Description: "cierre de sesión",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// LogoutAll godoc
// @Summary      Cerrar todas las sesiones del usuario
// @Tags         auth
// @Security     Bearer
// @Success      204  "Sin contenido"
// @Router       /api/v1/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	if err := h.uc.LogoutAll(GetUserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña (revoca todas las sesiones)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      204   "Sin contenido"
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	userID := GetUserID(c)
	if err := h.uc.ChangePassword(userID, in); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "contraseña actual incorrecta"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.recorder.Record(audit.Entry{
		Action:      entity.ActionPasswordChange,
		Resource:    "user",
		ResourceID:  userID,
		Actor:       userID,
		Description: "cambio de contraseña",
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
		Severity:    entity.AuditSeverityMedium,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ForgotPassword godoc
// @Summary      Solicitar OTP de recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      202   "Aceptado"
// @Router       /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	// La respuesta no revela si la cuenta existe
	if err := h.uc.RequestPasswordReset(in.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "email, otp, nueva contraseña"
// @Success      204   "Sin contenido"
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if resp := parseBody(c, &in); resp != nil {
		return resp
	}
	if err := h.uc.ResetPassword(in.Email, in.OTP, in.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_OTP", Message: "código inválido o vencido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.Me(GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(user)
}
