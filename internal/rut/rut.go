// Package rut valida y formatea RUT chilenos con el algoritmo módulo 11.
package rut

import (
	"fmt"
	"regexp"
	"strings"
)

var rutPattern = regexp.MustCompile(`^\d{7,8}[0-9K]$`)

// Normalize deja el RUT en su forma canónica: mayúsculas, sin puntos ni
// guión. Devuelve "" para valores vacíos o centinelas de planilla.
func Normalize(raw string) string {
	r := strings.ToUpper(strings.TrimSpace(raw))
	r = strings.ReplaceAll(r, ".", "")
	r = strings.ReplaceAll(r, "-", "")
	switch r {
	case "", "NONE", "NAN":
		return ""
	}
	return r
}

// Valid reporta si el RUT (en cualquier formato aceptado) tiene el largo
// correcto y su dígito verificador coincide con el calculado.
func Valid(raw string) bool {
	r := Normalize(raw)
	if !rutPattern.MatchString(r) {
		return false
	}
	return CheckDigit(r[:len(r)-1]) == string(r[len(r)-1])
}

// CheckDigit calcula el dígito verificador para el cuerpo del RUT usando
// módulo 11 con factores cíclicos 2..7 de derecha a izquierda.
func CheckDigit(body string) string {
	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	res := (11 - sum%11) % 11
	if res == 10 {
		return "K"
	}
	return fmt.Sprintf("%d", res)
}

// Format devuelve el RUT con puntos y guión: 12.345.678-9. Si el valor no
// es válido lo devuelve tal cual llegó.
func Format(raw string) string {
	r := Normalize(raw)
	if !rutPattern.MatchString(r) {
		return raw
	}
	body, dv := r[:len(r)-1], r[len(r)-1:]

	var b strings.Builder
	for i, c := range body {
		left := len(body) - i
		if i > 0 && left%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String() + "-" + dv
}
