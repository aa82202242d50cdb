package usecase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario-api/internal/application/dto"
	"github.com/jhoicas/pos-inventario-api/internal/domain"
	"github.com/jhoicas/pos-inventario-api/internal/domain/entity"
)

func newCategoryFixture(itemCount int64) (*CategoryUseCase, *memCategoryRepo) {
	repo := newMemCategoryRepo()
	return NewCategoryUseCase(repo, &stubItemRepo{countByCategory: itemCount}), repo
}

func TestCategoryCreate(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	out, err := uc.Create(dto.CreateCategoryRequest{
		Name:        "  Bebidas  ",
		Description: "Gaseosas, jugos y agua",
		Color:       "#1E90FF",
	}, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "Bebidas", out.Name)
	assert.True(t, out.IsActive)
	assert.Zero(t, out.ItemCount)
}

func TestCategoryCreate_EmptyName(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	_, err := uc.Create(dto.CreateCategoryRequest{Name: "   "}, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryCreate_DuplicateName(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	_, err := uc.Create(dto.CreateCategoryRequest{Name: "Bebidas"}, "admin-1")
	require.NoError(t, err)

	// la unicidad ignora mayúsculas
	_, err = uc.Create(dto.CreateCategoryRequest{Name: "bebidas"}, "admin-1")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCategoryUpdate(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Snacks"}, "admin-1")
	require.NoError(t, err)

	name := "Snacks y dulces"
	inactive := false
	out, err := uc.Update(created.ID, dto.UpdateCategoryRequest{
		Name:     &name,
		IsActive: &inactive,
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Snacks y dulces", out.Name)
	assert.False(t, out.IsActive)
}

func TestCategoryUpdate_RenameToExisting(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	_, err := uc.Create(dto.CreateCategoryRequest{Name: "Bebidas"}, "admin-1")
	require.NoError(t, err)
	snacks, err := uc.Create(dto.CreateCategoryRequest{Name: "Snacks"}, "admin-1")
	require.NoError(t, err)

	name := "Bebidas"
	_, err = uc.Update(snacks.ID, dto.UpdateCategoryRequest{Name: &name}, "admin-1")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// renombrar a sí misma (cambio de mayúsculas) sí se permite
	self := "SNACKS"
	out, err := uc.Update(snacks.ID, dto.UpdateCategoryRequest{Name: &self}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "SNACKS", out.Name)
}

func TestCategoryUpdate_Missing(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	out, err := uc.Update(uuid.New().String(), dto.UpdateCategoryRequest{}, "admin-1")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCategoryDelete(t *testing.T) {
	uc, repo := newCategoryFixture(0)

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Temporal"}, "admin-1")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(created.ID))
	assert.Empty(t, repo.categories)
}

func TestCategoryDelete_WithItems(t *testing.T) {
	uc, _ := newCategoryFixture(3)

	created, err := uc.Create(dto.CreateCategoryRequest{Name: "Bebidas"}, "admin-1")
	require.NoError(t, err)

	err = uc.Delete(created.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryHasItems)
}

func TestCategoryDelete_Missing(t *testing.T) {
	uc, _ := newCategoryFixture(0)

	err := uc.Delete(uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryStats_CuentaYOrdenaTop(t *testing.T) {
	uc, repo := newCategoryFixture(0)
	repo.Create(&entity.Category{ID: "cat-1", Name: "Bebidas", ItemCount: 12, IsActive: true})
	repo.Create(&entity.Category{ID: "cat-2", Name: "Snacks", ItemCount: 7, IsActive: true})
	repo.Create(&entity.Category{ID: "cat-3", Name: "Aseo", ItemCount: 20, IsActive: true})
	repo.Create(&entity.Category{ID: "cat-4", Name: "Licores", ItemCount: 4, IsActive: false})

	out, err := uc.Stats(2)
	require.NoError(t, err)

	assert.Equal(t, int64(4), out.Total)
	assert.Equal(t, int64(3), out.Active)
	assert.Equal(t, int64(4), out.WithItems)

	require.Len(t, out.TopCategories, 2, "el top se recorta al límite pedido")
	assert.Equal(t, "Aseo", out.TopCategories[0].Name)
	assert.Equal(t, int64(20), out.TopCategories[0].ItemCount)
	assert.Equal(t, "Bebidas", out.TopCategories[1].Name)
}
