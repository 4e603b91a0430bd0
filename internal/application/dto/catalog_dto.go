package dto

// PartResponse pieza con su stock actual.
type PartResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
