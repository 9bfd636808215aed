// Package normalize centraliza la normalización de texto de filtros de búsqueda.
// Todo valor que llega del exterior pasa por aquí antes de usarse como parámetro
// de consulta: trim, normalización Unicode NFC y case folding.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Filter normaliza un valor de filtro: recorta espacios, aplica NFC y case folding.
// "  ParaCETAMOL " -> "paracetamol". Devuelve "" si el valor queda vacío.
func Filter(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// LikePattern arma un patrón ILIKE de subcadena a partir de un valor ya
// normalizado, escapando los metacaracteres de LIKE para que el texto del
// usuario siempre se compare literal.
func LikePattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// EscapeLike escapa \, % y _ con el carácter de escape por defecto de LIKE.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
