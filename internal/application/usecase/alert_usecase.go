package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

const defaultCleanupDays = 30

// AlertUseCase consultas y gestión manual de alertas. Las alertas de stock
// las crea y resuelve el motor de inventario; por aquí solo pasan las
// manuales (system, user_action, security) y las operaciones de lectura.
type AlertUseCase struct {
	alertRepo repository.AlertRepository
	log       *logger.Logger
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alertRepo repository.AlertRepository, log *logger.Logger) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo, log: log}
}

// Create crea una alerta manual. Para los tipos de stock respeta la
// invariante de a-lo-sumo-una-abierta por (item, tipo).
func (uc *AlertUseCase) Create(in dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if in.ItemID != "" && (in.Type == entity.AlertTypeLowStock || in.Type == entity.AlertTypeOutOfStock) {
		open, err := uc.alertRepo.FindOpenByItemAndType(in.ItemID, in.Type)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return nil, domain.ErrDuplicate
		}
	}

	severity := in.Severity
	if severity == "" {
		severity = entity.SeverityInfo
	}
	title := in.Title
	if title == "" {
		title = entity.DefaultTitle(in.Type)
	}

	now := time.Now()
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Severity:  severity,
		Title:     title,
		Message:   in.Message,
		ItemID:    in.ItemID,
		UserID:    in.UserID,
		ExpiresAt: entity.DefaultExpiry(in.Type, severity, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.alertRepo.Create(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// GetByID obtiene una alerta por ID.
func (uc *AlertUseCase) GetByID(id string) (*dto.AlertResponse, error) {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, nil
	}
	return toAlertResponse(alert), nil
}

// List lista alertas con filtros y paginación.
func (uc *AlertUseCase) List(filter repository.AlertFilter, limit, offset int) (*dto.AlertListResponse, error) {
	alerts, total, err := uc.alertRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.AlertListResponse{
		Alerts: make([]dto.AlertResponse, 0, len(alerts)),
		Page:   dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, *toAlertResponse(a))
	}
	return out, nil
}

// MarkRead marca una alerta como leída por el usuario. Idempotente.
func (uc *AlertUseCase) MarkRead(id, userID string) (*dto.AlertResponse, error) {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	for _, r := range alert.ReadBy {
		if r.UserID == userID {
			return toAlertResponse(alert), nil
		}
	}
	now := time.Now()
	alert.IsRead = true
	alert.ReadBy = append(alert.ReadBy, entity.AlertRead{UserID: userID, ReadAt: now})
	alert.UpdatedAt = now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// MarkAllRead marca todas las alertas como leídas por el usuario.
func (uc *AlertUseCase) MarkAllRead(userID string) (int64, error) {
	return uc.alertRepo.MarkAllRead(userID, time.Now())
}

// Resolve resuelve una alerta manualmente. Resolver dos veces es un error.
func (uc *AlertUseCase) Resolve(id, userID string, in dto.ResolveAlertRequest) (*dto.AlertResponse, error) {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.IsResolved {
		return nil, domain.ErrAlertResolved
	}
	now := time.Now()
	alert.IsResolved = true
	alert.ResolvedBy = userID
	alert.ResolvedAt = &now
	alert.ResolutionNotes = in.Notes
	alert.UpdatedAt = now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// Delete elimina una alerta.
func (uc *AlertUseCase) Delete(id string) error {
	alert, err := uc.alertRepo.GetByID(id)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	return uc.alertRepo.Delete(id)
}

// Cleanup borra alertas resueltas más viejas que daysOld días (30 por defecto).
func (uc *AlertUseCase) Cleanup(daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = defaultCleanupDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	deleted, err := uc.alertRepo.DeleteResolvedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("deleted", deleted).Int("days_old", daysOld).Msg("limpieza de alertas resueltas")
	return deleted, nil
}

// Stats conteos de alertas para el dashboard.
func (uc *AlertUseCase) Stats() (*dto.AlertStatsResponse, error) {
	stats, err := uc.alertRepo.Stats()
	if err != nil {
		return nil, err
	}
	return &dto.AlertStatsResponse{
		Total:      stats.Total,
		Unread:     stats.Unread,
		Unresolved: stats.Unresolved,
		BySeverity: stats.BySeverity,
		ByType:     stats.ByType,
	}, nil
}

func toAlertResponse(a *entity.Alert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:       a.ID,
		Type:     a.Type,
		Severity: a.Severity,
		Title:    a.Title,
		Message:  a.Message,
		ItemID:   a.ItemID,
		UserID:   a.UserID,
		Metadata: dto.AlertMetadataDTO{
			CurrentStock: a.Metadata.CurrentStock,
			Threshold:    a.Metadata.Threshold,
			SKU:          a.Metadata.SKU,
		},
		IsRead:          a.IsRead,
		IsResolved:      a.IsResolved,
		ResolvedBy:      a.ResolvedBy,
		ResolvedAt:      a.ResolvedAt,
		ResolutionNotes: a.ResolutionNotes,
		ExpiresAt:       a.ExpiresAt,
		CreatedAt:       a.CreatedAt,
	}
}
