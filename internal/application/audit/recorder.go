// Package audit registra acciones de actores en el log de auditoría.
// El registro es best-effort: un fallo al escribir el log se loguea y no
// afecta la operación que lo originó.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

// Entry datos de una acción a auditar.
type Entry struct {
	Action      string
	Resource    string
	ResourceID  string
	Actor       string
	Description string
	Before      interface{}
	After       interface{}
	IPAddress   string
	UserAgent   string
	Severity    string
	Status      string
}

// Recorder escribe entradas en el log de auditoría resolviendo el actor.
type Recorder struct {
	auditRepo repository.AuditLogRepository
	userRepo  repository.UserRepository
	log       *logger.Logger
}

// NewRecorder construye el recorder.
func NewRecorder(auditRepo repository.AuditLogRepository, userRepo repository.UserRepository, log *logger.Logger) *Recorder {
	return &Recorder{auditRepo: auditRepo, userRepo: userRepo, log: log}
}

// Record persiste la entrada. Nunca devuelve error: loguea y sigue.
func (r *Recorder) Record(e Entry) {
	actorName := "desconocido"
	actorRole := "system"
	if e.Actor != "" {
		if user, err := r.userRepo.GetByID(e.Actor); err == nil && user != nil {
			actorName = user.FullName()
			actorRole = user.Role
		}
	}

	severity := e.Severity
	if severity == "" {
		severity = entity.AuditSeverityLow
	}
	status := e.Status
	if status == "" {
		status = entity.AuditStatusSuccess
	}

	log := &entity.AuditLog{
		ID:          uuid.New().String(),
		Action:      e.Action,
		Resource:    e.Resource,
		ResourceID:  e.ResourceID,
		Actor:       e.Actor,
		ActorName:   actorName,
		ActorRole:   actorRole,
		Description: e.Description,
		Before:      marshalDiff(e.Before),
		After:       marshalDiff(e.After),
		IPAddress:   e.IPAddress,
		UserAgent:   e.UserAgent,
		Severity:    severity,
		Status:      status,
		CreatedAt:   time.Now(),
	}

	if err := r.auditRepo.Create(log); err != nil {
		r.log.Error().Err(err).
			Str("action", e.Action).
			Str("resource", e.Resource).
			Msg("no se pudo escribir el log de auditoría")
	}
}

func marshalDiff(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
