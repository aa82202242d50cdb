package entity

import "time"

// Tipos de alerta.
const (
	AlertTypeLowStock      = "low_stock"
	AlertTypeOutOfStock    = "out_of_stock"
	AlertTypeExpiryWarning = "expiry_warning"
	AlertTypeSystem        = "system"
	AlertTypeUserAction    = "user_action"
	AlertTypeSecurity      = "security"
)

// Severidades de alerta.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// AlertMetadata snapshot del estado del item al momento de crear la alerta.
type AlertMetadata struct {
	CurrentStock int64  `json:"currentStock,omitempty"`
	Threshold    int64  `json:"threshold,omitempty"`
	SKU          string `json:"sku,omitempty"`
}

// AlertRead registro de lectura por usuario.
type AlertRead struct {
	UserID string
	ReadAt time.Time
}

// Alert representa una alerta del sistema.
// Invariante: a lo sumo una alerta sin resolver por (item, tipo).
type Alert struct {
	ID              string
	Type            string
	Severity        string
	Title           string
	Message         string
	ItemID          string // vacío si no aplica a un item
	UserID          string // vacío si no aplica a un usuario
	Metadata        AlertMetadata
	IsRead          bool
	IsResolved      bool
	ReadBy          []AlertRead
	ResolvedBy      string
	ResolvedAt      *time.Time
	ResolutionNotes string
	ExpiresAt       *time.Time // limpieza blanda automática
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultTitle título por defecto según el tipo de alerta.
func DefaultTitle(alertType string) string {
	switch alertType {
	case AlertTypeLowStock:
		return "Alerta de stock bajo"
	case AlertTypeOutOfStock:
		return "Alerta de stock agotado"
	case AlertTypeExpiryWarning:
		return "Aviso de vencimiento"
	case AlertTypeSystem:
		return "Notificación del sistema"
	case AlertTypeUserAction:
		return "Acción de usuario requerida"
	case AlertTypeSecurity:
		return "Alerta de seguridad"
	default:
		return "Notificación"
	}
}

// DefaultExpiry vencimiento por defecto: 7 días para info, 30 para el resto.
// Las alertas de seguridad no expiran.
func DefaultExpiry(alertType, severity string, now time.Time) *time.Time {
	if alertType == AlertTypeSecurity {
		return nil
	}
	days := 30
	if severity == SeverityInfo {
		days = 7
	}
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	return &exp
}
