package entity

// Supplier proveedor al que se le compra (solo lectura para este motor).
type Supplier struct {
	ID   int64
	Name string
}

// Part pieza o repuesto del inventario. Stock solo cambia vía incrementos atómicos.
type Part struct {
	ID    int64
	Name  string
	Stock int
}
