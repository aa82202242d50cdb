package entity

import (
	"encoding/json"
	"time"
)

// Acciones de auditoría (verbo con punto: recurso.acción).
const (
	ActionUserLogin       = "user.login"
	ActionUserLogout      = "user.logout"
	ActionUserRegister    = "user.register"
	ActionUserUpdate      = "user.update"
	ActionUserDelete      = "user.delete"
	ActionUserRoleChange  = "user.role.change"
	ActionPasswordChange  = "user.password.change"
	ActionItemCreate      = "item.create"
	ActionItemUpdate      = "item.update"
	ActionItemDelete      = "item.delete"
	ActionItemRestock     = "item.restock"
	ActionCategoryCreate  = "category.create"
	ActionCategoryUpdate  = "category.update"
	ActionCategoryDelete  = "category.delete"
	ActionSaleCreate      = "sale.create"
	ActionSaleCancel      = "sale.cancel"
	ActionSalePayment     = "sale.payment"
	ActionAlertResolve    = "alert.resolve"
	ActionAlertDelete     = "alert.delete"
	ActionLoginFailed     = "security.login.failed"
	ActionAccessDenied    = "security.permission.denied"
)

// Severidad y estado de un registro de auditoría.
const (
	AuditSeverityLow      = "low"
	AuditSeverityMedium   = "medium"
	AuditSeverityHigh     = "high"
	AuditSeverityCritical = "critical"

	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

// AuditLog registro append-only de acciones de actores sobre recursos.
// Inmutable por política: el repositorio no expone mutación y rechaza
// Update/Delete con ErrAuditLogImmutable.
type AuditLog struct {
	ID          string
	Action      string
	Resource    string // user, item, category, sale, alert, system
	ResourceID  string
	Actor       string
	ActorName   string
	ActorRole   string
	Description string
	Before      json.RawMessage // estado previo (diff), puede ser nil
	After       json.RawMessage // estado posterior (diff), puede ser nil
	IPAddress   string
	UserAgent   string
	Severity    string
	Status      string
	CreatedAt   time.Time
}
