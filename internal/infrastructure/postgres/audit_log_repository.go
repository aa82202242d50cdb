package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

const auditLogColumns = `id, action, resource, resource_id, actor, actor_name, actor_role,
	description, before_state, after_state, ip_address, user_agent, severity, status, created_at`

// AuditLogRepo implementación del puerto AuditLogRepository sobre PostgreSQL.
// El log es append-only: Update y Delete se rechazan siempre.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador del log de auditoría.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create persiste una entrada del log.
func (r *AuditLogRepo) Create(log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, action, resource, resource_id, actor, actor_name, actor_role,
			description, before_state, after_state, ip_address, user_agent, severity, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.Action, log.Resource, nullIfEmpty(log.ResourceID),
		nullIfEmpty(log.Actor), log.ActorName, log.ActorRole,
		nullIfEmpty(log.Description), []byte(log.Before), []byte(log.After),
		nullIfEmpty(log.IPAddress), nullIfEmpty(log.UserAgent),
		log.Severity, log.Status, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *AuditLogRepo) GetByID(id string) (*entity.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE id = $1`
	log, err := scanAuditLog(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit log: %w", err)
	}
	return log, nil
}

// List lista entradas del log con filtros y paginación.
func (r *AuditLogRepo) List(filter repository.AuditFilter, limit, offset int) ([]*entity.AuditLog, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1
	if filter.Action != "" {
		where = append(where, fmt.Sprintf("action = $%d", i))
		args = append(args, filter.Action)
		i++
	}
	if filter.Resource != "" {
		where = append(where, fmt.Sprintf("resource = $%d", i))
		args = append(args, filter.Resource)
		i++
	}
	if filter.Actor != "" {
		where = append(where, fmt.Sprintf("actor = $%d", i))
		args = append(args, filter.Actor)
		i++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", i))
		args = append(args, *filter.StartDate)
		i++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", i))
		args = append(args, *filter.EndDate)
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM audit_logs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM audit_logs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		auditLogColumns, cond, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

// Update rechazado: el log de auditoría es inmutable.
func (r *AuditLogRepo) Update(_ *entity.AuditLog) error {
	return domain.ErrAuditLogImmutable
}

// Delete rechazado: el log de auditoría es inmutable.
func (r *AuditLogRepo) Delete(_ string) error {
	return domain.ErrAuditLogImmutable
}

func scanAuditLog(row pgx.Row) (*entity.AuditLog, error) {
	var l entity.AuditLog
	var resourceID, actor, description, ipAddress, userAgent *string
	var before, after []byte
	err := row.Scan(
		&l.ID, &l.Action, &l.Resource, &resourceID, &actor, &l.ActorName, &l.ActorRole,
		&description, &before, &after, &ipAddress, &userAgent, &l.Severity, &l.Status, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ResourceID = derefStr(resourceID)
	l.Actor = derefStr(actor)
	l.Description = derefStr(description)
	l.IPAddress = derefStr(ipAddress)
	l.UserAgent = derefStr(userAgent)
	l.Before = before
	l.After = after
	return &l, nil
}
