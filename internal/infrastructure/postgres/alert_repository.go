package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, type, severity, title, message, item_id, user_id, metadata,
	is_read, is_resolved, read_by, resolved_by, resolved_at, resolution_notes,
	expires_at, created_at, updated_at`

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL.
// Metadata y read_by se guardan como JSONB.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una nueva alerta.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	metadata, err := json.Marshal(alert.Metadata)
	if err != nil {
		return fmt.Errorf("marshal alert metadata: %w", err)
	}
	readBy, err := json.Marshal(alert.ReadBy)
	if err != nil {
		return fmt.Errorf("marshal alert read_by: %w", err)
	}
	query := `
		INSERT INTO alerts (id, type, severity, title, message, item_id, user_id, metadata,
			is_read, is_resolved, read_by, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(context.Background(), query,
		alert.ID, alert.Type, alert.Severity, alert.Title, alert.Message,
		nullIfEmpty(alert.ItemID), nullIfEmpty(alert.UserID), metadata,
		alert.IsRead, alert.IsResolved, readBy, alert.ExpiresAt,
		alert.CreatedAt, alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	alert, err := scanAlert(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert by id: %w", err)
	}
	return alert, nil
}

// FindOpenByItemAndType devuelve la alerta sin resolver del (item, tipo), o nil.
func (r *AlertRepo) FindOpenByItemAndType(itemID, alertType string) (*entity.Alert, error) {
	query := `
		SELECT ` + alertColumns + ` FROM alerts
		WHERE item_id = $1 AND type = $2 AND is_resolved = false
		ORDER BY created_at DESC LIMIT 1`
	alert, err := scanAlert(r.q.QueryRow(context.Background(), query, itemID, alertType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open alert: %w", err)
	}
	return alert, nil
}

// ResolveAllForItem resuelve todas las alertas abiertas de los tipos dados
// para el item. Devuelve cuántas resolvió.
func (r *AlertRepo) ResolveAllForItem(itemID string, types []string, notes string, resolvedAt time.Time) (int64, error) {
	query := `
		UPDATE alerts SET is_resolved = true, resolution_notes = $3, resolved_at = $4, updated_at = $4
		WHERE item_id = $1 AND type = ANY($2) AND is_resolved = false`
	tag, err := r.q.Exec(context.Background(), query, itemID, types, notes, resolvedAt)
	if err != nil {
		return 0, fmt.Errorf("resolve alerts for item: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Update actualiza los campos mutables de una alerta (lectura y resolución).
func (r *AlertRepo) Update(alert *entity.Alert) error {
	readBy, err := json.Marshal(alert.ReadBy)
	if err != nil {
		return fmt.Errorf("marshal alert read_by: %w", err)
	}
	query := `
		UPDATE alerts SET is_read = $2, is_resolved = $3, read_by = $4,
			resolved_by = $5, resolved_at = $6, resolution_notes = $7, updated_at = $8
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		alert.ID, alert.IsRead, alert.IsResolved, readBy,
		nullIfEmpty(alert.ResolvedBy), alert.ResolvedAt, nullIfEmpty(alert.ResolutionNotes),
		alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// List lista alertas con filtros y paginación, excluyendo las ya expiradas.
func (r *AlertRepo) List(filter repository.AlertFilter, limit, offset int) ([]*entity.Alert, int64, error) {
	where := []string{"(expires_at IS NULL OR expires_at > now())"}
	args := []any{}
	i := 1
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", i))
		args = append(args, filter.Type)
		i++
	}
	if filter.Severity != "" {
		where = append(where, fmt.Sprintf("severity = $%d", i))
		args = append(args, filter.Severity)
		i++
	}
	if filter.IsRead != nil {
		where = append(where, fmt.Sprintf("is_read = $%d", i))
		args = append(args, *filter.IsRead)
		i++
	}
	if filter.IsResolved != nil {
		where = append(where, fmt.Sprintf("is_resolved = $%d", i))
		args = append(args, *filter.IsResolved)
		i++
	}
	if filter.ItemID != "" {
		where = append(where, fmt.Sprintf("item_id = $%d", i))
		args = append(args, filter.ItemID)
		i++
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM alerts WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		alertColumns, cond, i, i+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// MarkAllRead marca como leídas todas las alertas vigentes sin leer,
// registrando al usuario en read_by.
func (r *AlertRepo) MarkAllRead(userID string, readAt time.Time) (int64, error) {
	entry, err := json.Marshal([]entity.AlertRead{{UserID: userID, ReadAt: readAt}})
	if err != nil {
		return 0, fmt.Errorf("marshal read entry: %w", err)
	}
	query := `
		UPDATE alerts SET is_read = true, read_by = read_by || $1::jsonb, updated_at = $2
		WHERE is_read = false AND (expires_at IS NULL OR expires_at > now())`
	tag, err := r.q.Exec(context.Background(), query, entry, readAt)
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete elimina una alerta por ID.
func (r *AlertRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

// DeleteResolvedBefore borra alertas resueltas antes del corte. Devuelve cuántas borró.
func (r *AlertRepo) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM alerts WHERE is_resolved = true AND resolved_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete resolved alerts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats conteos de alertas vigentes para el dashboard.
func (r *AlertRepo) Stats() (*repository.AlertStats, error) {
	stats := &repository.AlertStats{
		BySeverity: make(map[string]int64),
		ByType:     make(map[string]int64),
	}
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE NOT is_read),
		       count(*) FILTER (WHERE NOT is_resolved)
		FROM alerts WHERE expires_at IS NULL OR expires_at > now()`
	if err := r.q.QueryRow(context.Background(), query).Scan(&stats.Total, &stats.Unread, &stats.Unresolved); err != nil {
		return nil, fmt.Errorf("alert stats: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT severity, count(*) FROM alerts
		WHERE expires_at IS NULL OR expires_at > now()
		GROUP BY severity`)
	if err != nil {
		return nil, fmt.Errorf("alert stats by severity: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var severity string
		var n int64
		if err := rows.Scan(&severity, &n); err != nil {
			return nil, fmt.Errorf("scan severity count: %w", err)
		}
		stats.BySeverity[severity] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	typeRows, err := r.q.Query(context.Background(), `
		SELECT type, count(*) FROM alerts
		WHERE expires_at IS NULL OR expires_at > now()
		GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("alert stats by type: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var alertType string
		var n int64
		if err := typeRows.Scan(&alertType, &n); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		stats.ByType[alertType] = n
	}
	return stats, typeRows.Err()
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var itemID, userID, resolvedBy, resolutionNotes *string
	var metadata, readBy []byte
	err := row.Scan(
		&a.ID, &a.Type, &a.Severity, &a.Title, &a.Message, &itemID, &userID, &metadata,
		&a.IsRead, &a.IsResolved, &readBy, &resolvedBy, &a.ResolvedAt, &resolutionNotes,
		&a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ItemID = derefStr(itemID)
	a.UserID = derefStr(userID)
	a.ResolvedBy = derefStr(resolvedBy)
	a.ResolutionNotes = derefStr(resolutionNotes)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal alert metadata: %w", err)
		}
	}
	if len(readBy) > 0 {
		if err := json.Unmarshal(readBy, &a.ReadBy); err != nil {
			return nil, fmt.Errorf("unmarshal alert read_by: %w", err)
		}
	}
	return &a, nil
}
