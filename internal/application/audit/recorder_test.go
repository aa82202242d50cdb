package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
	"github.com/jhoicas/pos-inventario-api/pkg/logger"
)

type memAuditRepo struct {
	logs      []*entity.AuditLog
	createErr error
}

func (r *memAuditRepo) Create(log *entity.AuditLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *memAuditRepo) GetByID(id string) (*entity.AuditLog, error) {
	for _, l := range r.logs {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAuditRepo) List(filter repository.AuditFilter, limit, offset int) ([]*entity.AuditLog, int64, error) {
	out := make([]*entity.AuditLog, 0, len(r.logs))
	for _, l := range r.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memAuditRepo) Update(*entity.AuditLog) error { return nil }
func (r *memAuditRepo) Delete(string) error           { return nil }

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(*entity.User) error { return nil }
func (r *stubUserRepo) GetByID(id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		cp := *r.user
		return &cp, nil
	}
	return nil, nil
}
func (r *stubUserRepo) GetByEmail(string) (*entity.User, error) { return nil, nil }
func (r *stubUserRepo) Update(*entity.User) error               { return nil }
func (r *stubUserRepo) List(repository.UserFilter, int, int) ([]*entity.User, int64, error) {
	return nil, 0, nil
}
func (r *stubUserRepo) ListActiveAdmins() ([]*entity.User, error) { return nil, nil }
func (r *stubUserRepo) CountByRole() (map[string]int64, error)    { return nil, nil }

func TestRecorderRecord(t *testing.T) {
	repo := &memAuditRepo{}
	users := &stubUserRepo{user: &entity.User{
		ID:        "admin-1",
		FirstName: "Carlos",
		LastName:  "Méndez",
		Role:      entity.RoleAdmin,
	}}
	rec := NewRecorder(repo, users, logger.Nop())

	rec.Record(Entry{
		Action:     entity.ActionItemCreate,
		Resource:   "item",
		ResourceID: "item-1",
		Actor:      "admin-1",
		After:      map[string]string{"name": "Gaseosa 500ml"},
		IPAddress:  "10.0.0.5",
	})

	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Carlos Méndez", got.ActorName)
	assert.Equal(t, entity.RoleAdmin, got.ActorRole)
	assert.Equal(t, entity.AuditSeverityLow, got.Severity)
	assert.Equal(t, entity.AuditStatusSuccess, got.Status)
	assert.JSONEq(t, `{"name":"Gaseosa 500ml"}`, string(got.After))
	assert.Nil(t, got.Before)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Second)
}

func TestRecorderRecord_UnknownActor(t *testing.T) {
	repo := &memAuditRepo{}
	rec := NewRecorder(repo, &stubUserRepo{}, logger.Nop())

	rec.Record(Entry{
		Action:   entity.ActionSaleCreate,
		Resource: "sale",
		Actor:    "no-existe",
	})

	require.Len(t, repo.logs, 1)
	assert.Equal(t, "desconocido", repo.logs[0].ActorName)
	assert.Equal(t, "system", repo.logs[0].ActorRole)
}

func TestRecorderRecord_RepoFailureIsSwallowed(t *testing.T) {
	repo := &memAuditRepo{createErr: errors.New("conexión caída")}
	rec := NewRecorder(repo, &stubUserRepo{}, logger.Nop())

	// best-effort: el fallo de escritura no se propaga
	rec.Record(Entry{Action: entity.ActionItemCreate, Resource: "item"})
	assert.Empty(t, repo.logs)
}

func TestQueryList(t *testing.T) {
	repo := &memAuditRepo{}
	rec := NewRecorder(repo, &stubUserRepo{}, logger.Nop())
	rec.Record(Entry{Action: entity.ActionItemCreate, Resource: "item"})
	rec.Record(Entry{Action: entity.ActionSaleCreate, Resource: "sale"})

	q := NewQuery(repo)
	out, err := q.List(repository.AuditFilter{Action: entity.ActionSaleCreate}, 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "sale", out.Logs[0].Resource)
	assert.Equal(t, int64(1), out.Page.Total)
}

func TestQueryGetByID_Missing(t *testing.T) {
	q := NewQuery(&memAuditRepo{})

	out, err := q.GetByID("no-existe")
	require.NoError(t, err)
	assert.Nil(t, out)
}
