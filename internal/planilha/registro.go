package planilha

import (
	"fmt"
	"strconv"
)

// String devolve o valor da coluna como texto ("" se ausente).
func (r Registro) String(coluna string) string {
	v, ok := r[coluna]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Float devolve o valor da coluna como float64 (0 se ausente ou inválido).
func (r Registro) Float(coluna string) float64 {
	v, ok := r[coluna]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
