package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad por item en las
// mutaciones de stock (GetForUpdate + Update en la misma transacción).
type TxRunner interface {
	Run(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error
}
