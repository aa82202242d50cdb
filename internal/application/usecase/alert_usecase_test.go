package usecase

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

func newAlertFixture() (*AlertUseCase, *memAlertRepo) {
	repo := newMemAlertRepo()
	return NewAlertUseCase(repo, logger.Nop()), repo
}

func TestAlertCreate_ManualSystem(t *testing.T) {
	uc, _ := newAlertFixture()

	out, err := uc.Create(dto.CreateAlertRequest{
		Type:    entity.AlertTypeSystem,
		Message: "mantenimiento programado esta noche",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, entity.SeverityInfo, out.Severity)
	assert.Equal(t, "Notificación del sistema", out.Title)
	require.NotNil(t, out.ExpiresAt)
	// info expira a los 7 días
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *out.ExpiresAt, time.Minute)
}

func TestAlertCreate_SecurityNoExpiry(t *testing.T) {
	uc, _ := newAlertFixture()

	out, err := uc.Create(dto.CreateAlertRequest{
		Type:     entity.AlertTypeSecurity,
		Severity: entity.SeverityCritical,
		Message:  "múltiples intentos de login fallidos",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SeverityCritical, out.Severity)
	assert.Equal(t, "Alerta de seguridad", out.Title)
	assert.Nil(t, out.ExpiresAt)
}

func TestAlertCreate_StockTypeRespectsOpenInvariant(t *testing.T) {
	uc, repo := newAlertFixture()
	itemID := uuid.New().String()

	require.NoError(t, repo.Create(&entity.Alert{
		ID:        uuid.New().String(),
		Type:      entity.AlertTypeLowStock,
		Severity:  entity.SeverityWarning,
		ItemID:    itemID,
		CreatedAt: time.Now(),
	}))

	_, err := uc.Create(dto.CreateAlertRequest{
		Type:    entity.AlertTypeLowStock,
		Message: "stock bajo",
		ItemID:  itemID,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// una alerta resuelta no bloquea la creación
	for _, a := range repo.alerts {
		a.IsResolved = true
	}
	out, err := uc.Create(dto.CreateAlertRequest{
		Type:    entity.AlertTypeLowStock,
		Message: "stock bajo de nuevo",
		ItemID:  itemID,
	})
	require.NoError(t, err)
	assert.False(t, out.IsResolved)
}

func TestAlertMarkRead_Idempotent(t *testing.T) {
	uc, _ := newAlertFixture()

	created, err := uc.Create(dto.CreateAlertRequest{
		Type:    entity.AlertTypeSystem,
		Message: "aviso",
	})
	require.NoError(t, err)

	out, err := uc.MarkRead(created.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, out.IsRead)

	// segunda lectura del mismo usuario no duplica el registro
	out, err = uc.MarkRead(created.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, out.IsRead)

	stored, err := uc.alertRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ReadBy, 1)
}

func TestAlertMarkRead_NotFound(t *testing.T) {
	uc, _ := newAlertFixture()

	_, err := uc.MarkRead(uuid.New().String(), "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertResolve(t *testing.T) {
	uc, _ := newAlertFixture()

	created, err := uc.Create(dto.CreateAlertRequest{
		Type:    entity.AlertTypeUserAction,
		Message: "revisar conteo físico",
	})
	require.NoError(t, err)

	out, err := uc.Resolve(created.ID, "admin-1", dto.ResolveAlertRequest{Notes: "conteo verificado"})
	require.NoError(t, err)
	assert.True(t, out.IsResolved)
	assert.Equal(t, "admin-1", out.ResolvedBy)
	assert.NotNil(t, out.ResolvedAt)
	assert.Equal(t, "conteo verificado", out.ResolutionNotes)

	// resolver dos veces es un error
	_, err = uc.Resolve(created.ID, "admin-1", dto.ResolveAlertRequest{})
	assert.ErrorIs(t, err, domain.ErrAlertResolved)
}

func TestAlertDelete_NotFound(t *testing.T) {
	uc, _ := newAlertFixture()

	err := uc.Delete(uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertCleanup(t *testing.T) {
	uc, repo := newAlertFixture()

	old := time.Now().AddDate(0, 0, -45)
	require.NoError(t, repo.Create(&entity.Alert{
		ID:         uuid.New().String(),
		Type:       entity.AlertTypeSystem,
		IsResolved: true,
		CreatedAt:  old,
	}))
	require.NoError(t, repo.Create(&entity.Alert{
		ID:         uuid.New().String(),
		Type:       entity.AlertTypeSystem,
		IsResolved: true,
		CreatedAt:  time.Now().AddDate(0, 0, -5),
	}))
	require.NoError(t, repo.Create(&entity.Alert{
		ID:        uuid.New().String(),
		Type:      entity.AlertTypeSystem,
		CreatedAt: old, // sin resolver: nunca se limpia
	}))

	// daysOld <= 0 usa los 30 días por defecto
	deleted, err := uc.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.alerts, 2)
}

func TestAlertStats(t *testing.T) {
	uc, _ := newAlertFixture()

	_, err := uc.Create(dto.CreateAlertRequest{Type: entity.AlertTypeSystem, Message: "a"})
	require.NoError(t, err)
	created, err := uc.Create(dto.CreateAlertRequest{
		Type:     entity.AlertTypeSecurity,
		Severity: entity.SeverityCritical,
		Message:  "b",
	})
	require.NoError(t, err)
	_, err = uc.Resolve(created.ID, "admin-1", dto.ResolveAlertRequest{})
	require.NoError(t, err)

	stats, err := uc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Unread)
	assert.Equal(t, int64(1), stats.Unresolved)
	assert.Equal(t, int64(1), stats.BySeverity[entity.SeverityCritical])
	assert.Equal(t, int64(1), stats.ByType[entity.AlertTypeSecurity])
}
