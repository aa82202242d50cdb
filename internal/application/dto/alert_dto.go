package dto

import "time"

// CreateAlertRequest creación manual de alertas (system, user_action, security).
type CreateAlertRequest struct {
	Type     string `json:"type" validate:"required,oneof=low_stock out_of_stock expiry_warning system user_action security"`
	Severity string `json:"severity" validate:"omitempty,oneof=info warning critical"`
	Title    string `json:"title" validate:"omitempty,max=200"`
	Message  string `json:"message" validate:"required,min=1,max=1000"`
	ItemID   string `json:"item_id" validate:"omitempty,uuid"`
	UserID   string `json:"user_id" validate:"omitempty,uuid"`
}

// ResolveAlertRequest resolución manual de una alerta.
type ResolveAlertRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=500"`
}

// MarkReadRequest marca varias alertas como leídas.
type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// CleanupRequest borra alertas resueltas más viejas que DaysOld días.
type CleanupRequest struct {
	DaysOld int `json:"days_old" validate:"omitempty,min=1"`
}

// AlertMetadataDTO snapshot del item al crear la alerta.
type AlertMetadataDTO struct {
	CurrentStock int64  `json:"current_stock,omitempty"`
	Threshold    int64  `json:"threshold,omitempty"`
	SKU          string `json:"sku,omitempty"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID              string           `json:"id"`
	Type            string           `json:"type"`
	Severity        string           `json:"severity"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	ItemID          string           `json:"item_id,omitempty"`
	UserID          string           `json:"user_id,omitempty"`
	Metadata        AlertMetadataDTO `json:"metadata,omitempty"`
	IsRead          bool             `json:"is_read"`
	IsResolved      bool             `json:"is_resolved"`
	ResolvedBy      string           `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	ResolutionNotes string           `json:"resolution_notes,omitempty"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Page   PageResponse    `json:"page"`
}

// AlertStatsResponse conteos de alertas.
type AlertStatsResponse struct {
	Total      int64            `json:"total"`
	Unread     int64            `json:"unread"`
	Unresolved int64            `json:"unresolved"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByType     map[string]int64 `json:"by_type"`
}
