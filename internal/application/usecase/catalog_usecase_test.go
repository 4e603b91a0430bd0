package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeaGuevara01/node-sub001/internal/application/usecase"
	"github.com/LeaGuevara01/node-sub001/internal/infrastructure/memory"
)

func TestCatalogUseCase(t *testing.T) {
	store := memory.NewStore()
	supplier := store.AddSupplier("Agro Repuestos")
	part := store.AddPart("Rodamiento 6205", 30)
	uc := usecase.NewCatalogUseCase(store.Parts(), store.Suppliers())
	ctx := context.Background()

	p, err := uc.GetPart(ctx, part)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Rodamiento 6205", p.Name)
	assert.Equal(t, 30, p.Stock)

	s, err := uc.GetSupplier(ctx, supplier)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Agro Repuestos", s.Name)

	p, err = uc.GetPart(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, p)

	s, err = uc.GetSupplier(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, s)
}
