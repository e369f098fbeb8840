package dto

// ─── Clientes ────────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	Correo   *string `json:"correo"   validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ActualizarClienteRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=120"`
	Correo   *string `json:"correo"   validate:"omitempty,email"`
	Telefono *string `json:"telefono"`
}

type ClienteResponse struct {
	ID            string  `json:"id"`
	Nombre        string  `json:"nombre"`
	Correo        *string `json:"correo"`
	Telefono      *string `json:"telefono"`
	FechaCreacion string  `json:"fecha_creacion"`
}
