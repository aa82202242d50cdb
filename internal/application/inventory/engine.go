package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario-api/internal/application/ports"
	"github.com/jhoicas/pos-inventario-api/internal/domain/alerting"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

// AlertEngine aplica los comandos del reconciliador de alertas y dispara las
// notificaciones a administradores. Todo el flujo es best-effort: el registro
// de inventario es la fuente de verdad y un fallo aquí nunca revierte la
// mutación del item que lo disparó.
type AlertEngine struct {
	alertRepo repository.AlertRepository
	userRepo  repository.UserRepository
	notifier  ports.Notifier
	log       *logger.Logger
}

// NewAlertEngine construye el motor de alertas.
func NewAlertEngine(
	alertRepo repository.AlertRepository,
	userRepo repository.UserRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *AlertEngine {
	return &AlertEngine{alertRepo: alertRepo, userRepo: userRepo, notifier: notifier, log: log}
}

// Apply reconcilia las alertas del item tras una transición de estado.
// No hace nada si el estado no cambió. Los errores se loguean y se tragan.
func (e *AlertEngine) Apply(ctx context.Context, t stock.Transition, item *entity.Item) {
	for _, cmd := range alerting.Reconcile(t, item) {
		switch cmd.Kind {
		case alerting.CommandResolveAll:
			e.resolveAll(item)
		case alerting.CommandCreate:
			e.createAndNotify(ctx, cmd, item)
		}
	}
}

func (e *AlertEngine) resolveAll(item *entity.Item) {
	types := []string{entity.AlertTypeLowStock, entity.AlertTypeOutOfStock}
	n, err := e.alertRepo.ResolveAllForItem(item.ID, types, alerting.ResolutionAuto, time.Now())
	if err != nil {
		e.log.Error().Err(err).Str("item_id", item.ID).Msg("no se pudieron auto-resolver las alertas")
		return
	}
	if n > 0 {
		e.log.Info().Str("item", item.Name).Int64("resueltas", n).Msg("stock repuesto, alertas auto-resueltas")
	}
}

func (e *AlertEngine) createAndNotify(ctx context.Context, cmd alerting.Command, item *entity.Item) {
	// Idempotencia: si ya hay una alerta sin resolver del mismo tipo, no se crea otra
	existing, err := e.alertRepo.FindOpenByItemAndType(item.ID, cmd.Type)
	if err != nil {
		e.log.Error().Err(err).Str("item_id", item.ID).Str("type", cmd.Type).Msg("no se pudo consultar alertas abiertas")
		return
	}
	if existing != nil {
		e.log.Debug().Str("item", item.Name).Str("type", cmd.Type).Msg("ya existe una alerta sin resolver, se omite")
		return
	}

	now := time.Now()
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		Type:      cmd.Type,
		Severity:  cmd.Severity,
		Title:     cmd.Title,
		Message:   cmd.Message,
		ItemID:    cmd.ItemID,
		Metadata:  cmd.Metadata,
		ExpiresAt: entity.DefaultExpiry(cmd.Type, cmd.Severity, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.alertRepo.Create(alert); err != nil {
		e.log.Error().Err(err).Str("item", item.Name).Str("type", cmd.Type).Msg("no se pudo crear la alerta")
		return
	}
	e.log.Info().Str("item", item.Name).Str("type", cmd.Type).Str("alert_id", alert.ID).Msg("alerta creada")

	e.notifyAdmins(ctx, cmd, item)
}

// notifyAdmins envía un correo por admin activo. Cada envío es independiente:
// el fallo de uno no bloquea a los demás. Sin reintentos.
func (e *AlertEngine) notifyAdmins(ctx context.Context, cmd alerting.Command, item *entity.Item) {
	admins, err := e.userRepo.ListActiveAdmins()
	if err != nil {
		e.log.Error().Err(err).Msg("no se pudieron resolver los admins para notificar")
		return
	}
	if len(admins) == 0 {
		e.log.Warn().Msg("no hay admins activos para notificar alertas de stock")
		return
	}

	for _, admin := range admins {
		var sendErr error
		if cmd.Type == entity.AlertTypeOutOfStock {
			sendErr = e.notifier.SendOutOfStockAlert(ctx, admin.Email, item.Name, item.SKU)
		} else {
			sendErr = e.notifier.SendLowStockAlert(ctx, admin.Email, item.Name, item.StockQuantity, item.LowStockThreshold)
		}
		if sendErr != nil {
			e.log.Warn().Err(sendErr).Str("email", admin.Email).Msg("fallo el envío de correo de alerta")
			continue
		}
		e.log.Debug().Str("email", admin.Email).Str("type", cmd.Type).Msg("correo de alerta enviado")
	}
}
