package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-inventario-api/internal/domain/stock"
)

func TestDeriveStatus_Fronteras(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int64
		threshold int64
		want      string
	}{
		{"cantidad cero es agotado", 0, 10, stock.StatusOutOfStock},
		{"cantidad negativa es agotado", -3, 10, stock.StatusOutOfStock},
		{"cantidad igual al umbral es stock bajo", 10, 10, stock.StatusLowStock},
		{"cantidad bajo el umbral es stock bajo", 1, 10, stock.StatusLowStock},
		{"cantidad sobre el umbral es disponible", 11, 10, stock.StatusAvailable},
		{"umbral cero con stock es disponible", 5, 0, stock.StatusAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.DeriveStatus(tc.quantity, tc.threshold))
		})
	}
}

func TestTransition_Changed(t *testing.T) {
	assert.False(t, stock.Transition{Previous: stock.StatusAvailable, Current: stock.StatusAvailable}.Changed())
	assert.True(t, stock.Transition{Previous: stock.StatusAvailable, Current: stock.StatusLowStock}.Changed())
}
