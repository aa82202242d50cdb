package audit

import (
	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// Query consultas de solo lectura sobre el log de auditoría.
type Query struct {
	auditRepo repository.AuditLogRepository
}

// NewQuery construye el servicio de consulta.
func NewQuery(auditRepo repository.AuditLogRepository) *Query {
	return &Query{auditRepo: auditRepo}
}

// GetByID obtiene una entrada del log.
func (q *Query) GetByID(id string) (*dto.AuditLogResponse, error) {
	log, err := q.auditRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, nil
	}
	return toAuditLogResponse(log), nil
}

// List lista entradas del log con filtros y paginación.
func (q *Query) List(filter repository.AuditFilter, limit, offset int) (*dto.AuditLogListResponse, error) {
	logs, total, err := q.auditRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AuditLogListResponse{
		Logs: make([]dto.AuditLogResponse, 0, len(logs)),
		Page: dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, *toAuditLogResponse(l))
	}
	return out, nil
}

func toAuditLogResponse(l *entity.AuditLog) *dto.AuditLogResponse {
	return &dto.AuditLogResponse{
		ID:          l.ID,
		Action:      l.Action,
		Resource:    l.Resource,
		ResourceID:  l.ResourceID,
		Actor:       l.Actor,
		ActorName:   l.ActorName,
		ActorRole:   l.ActorRole,
		Description: l.Description,
		Severity:    l.Severity,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
}
