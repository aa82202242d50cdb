package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

var _ repository.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

// RefreshTokenRepo implementación del puerto RefreshTokenRepository sobre PostgreSQL.
// Solo se persisten hashes SHA-256, nunca el token plano.
type RefreshTokenRepo struct {
	q Querier
}

// NewRefreshTokenRepository construye el adaptador de refresh tokens.
func NewRefreshTokenRepository(q Querier) *RefreshTokenRepo {
	return &RefreshTokenRepo{q: q}
}

// Create persiste un refresh token (hasheado).
func (r *RefreshTokenRepo) Create(token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, device, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		token.ID, token.UserID, token.TokenHash,
		nullIfEmpty(token.Device), nullIfEmpty(token.IPAddress),
		token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// GetByHash obtiene un refresh token vigente por su hash.
func (r *RefreshTokenRepo) GetByHash(tokenHash string) (*entity.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, device, ip_address, expires_at, created_at
		FROM refresh_tokens WHERE token_hash = $1`
	var t entity.RefreshToken
	var device, ipAddress *string
	err := r.q.QueryRow(context.Background(), query, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &device, &ipAddress, &t.ExpiresAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	t.Device = derefStr(device)
	t.IPAddress = derefStr(ipAddress)
	return &t, nil
}

// DeleteByHash revoca un refresh token (rotación o logout).
func (r *RefreshTokenRepo) DeleteByHash(tokenHash string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// DeleteByUser revoca todas las sesiones de un usuario.
func (r *RefreshTokenRepo) DeleteByUser(userID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens by user: %w", err)
	}
	return nil
}

// DeleteExpired borra los tokens vencidos. Devuelve cuántos borró.
func (r *RefreshTokenRepo) DeleteExpired() (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM refresh_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
