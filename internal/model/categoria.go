package model

// Product categories sold by the bodega. The "special" subset is not
// unit-tracked: those products are sold by weight or as loans/references,
// so their stock stays at the nil sentinel and sales never decrement it.
const (
	CategoriaPrestamo        = "Préstamo"
	CategoriaFrutasVerduras  = "Frutas y Verduras"
	CategoriaAlimentosGranel = "Alimentos a Granel"
	CategoriaNutricionAnimal = "Nutrición Animal"
)

var categoriasEspeciales = map[string]bool{
	CategoriaPrestamo:        true,
	CategoriaFrutasVerduras:  true,
	CategoriaAlimentosGranel: true,
	CategoriaNutricionAnimal: true,
}

// EsCategoriaEspecial reports whether products of the category are exempt
// from stock tracking and stock checks.
func EsCategoriaEspecial(categoria string) bool {
	return categoriasEspeciales[categoria]
}
