package repository

import (
	"time"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

// AuditLogRepository define el puerto de persistencia para AuditLog.
// El log es append-only: Update y Delete existen en el contrato solo para
// hacer explícita la política de inmutabilidad; toda implementación debe
// rechazarlos con domain.ErrAuditLogImmutable.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
	GetByID(id string) (*entity.AuditLog, error)
	List(filter AuditFilter, limit, offset int) ([]*entity.AuditLog, int64, error)
	Update(log *entity.AuditLog) error
	Delete(id string) error
}

// AuditFilter filtros opcionales para consultar el log de auditoría.
type AuditFilter struct {
	Action    string
	Resource  string
	Actor     string
	StartDate *time.Time
	EndDate   *time.Time
}
