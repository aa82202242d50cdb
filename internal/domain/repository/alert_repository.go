package repository

import (
	"time"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para Alert (DIP).
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	// FindOpenByItemAndType devuelve la alerta sin resolver del (item, tipo),
	// o nil si no existe. Soporta la invariante de a-lo-sumo-una-abierta.
	FindOpenByItemAndType(itemID, alertType string) (*entity.Alert, error)
	// ResolveAllForItem resuelve todas las alertas abiertas de los tipos dados
	// para el item (auto-resolución al reponer stock). Devuelve cuántas resolvió.
	ResolveAllForItem(itemID string, types []string, notes string, resolvedAt time.Time) (int64, error)
	Update(alert *entity.Alert) error
	List(filter AlertFilter, limit, offset int) ([]*entity.Alert, int64, error)
	MarkAllRead(userID string, readAt time.Time) (int64, error)
	Delete(id string) error
	DeleteResolvedBefore(cutoff time.Time) (int64, error)
	Stats() (*AlertStats, error)
}

// AlertFilter filtros opcionales para listar alertas.
type AlertFilter struct {
	Type       string
	Severity   string
	IsRead     *bool
	IsResolved *bool
	ItemID     string
}

// AlertStats conteos de alertas para el dashboard.
type AlertStats struct {
	Total      int64
	Unread     int64
	Unresolved int64
	BySeverity map[string]int64
	ByType     map[string]int64
}
