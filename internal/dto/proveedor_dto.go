package dto

// ─── Proveedores ─────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	RUC      *string `json:"ruc"`
	Telefono *string `json:"telefono"`
}

type ActualizarProveedorRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=120"`
	RUC      *string `json:"ruc"`
	Telefono *string `json:"telefono"`
}

type ProveedorResponse struct {
	ID            string  `json:"id"`
	Nombre        string  `json:"nombre"`
	RUC           *string `json:"ruc"`
	Telefono      *string `json:"telefono"`
	FechaCreacion string  `json:"fecha_creacion"`
}
