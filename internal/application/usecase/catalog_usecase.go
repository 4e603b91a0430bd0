package usecase

import (
	"context"

	"github.com/LeaGuevara01/node-sub001/internal/application/dto"
	"github.com/LeaGuevara01/node-sub001/internal/domain/repository"
)

// CatalogUseCase lecturas de piezas y proveedores referenciados por las compras.
// El alta/edición de estas entidades vive fuera de este servicio.
type CatalogUseCase struct {
	parts     repository.PartRepository
	suppliers repository.SupplierRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(parts repository.PartRepository, suppliers repository.SupplierRepository) *CatalogUseCase {
	return &CatalogUseCase{parts: parts, suppliers: suppliers}
}

// GetPart obtiene una pieza con su stock actual; nil si no existe.
func (uc *CatalogUseCase) GetPart(ctx context.Context, id int64) (*dto.PartResponse, error) {
	part, err := uc.parts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, nil
	}
	return &dto.PartResponse{ID: part.ID, Name: part.Name, Stock: part.Stock}, nil
}

// GetSupplier obtiene un proveedor; nil si no existe.
func (uc *CatalogUseCase) GetSupplier(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return &dto.SupplierResponse{ID: s.ID, Name: s.Name}, nil
}
