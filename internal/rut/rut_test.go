package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "with dots and dash", in: "12.345.678-5", want: "123456785"},
		{name: "lowercase k", in: "11111111-k", want: "11111111K"},
		{name: "surrounding spaces", in: "  76086428 ", want: "76086428"},
		{name: "empty", in: "", want: ""},
		{name: "sentinel none", in: "None", want: ""},
		{name: "sentinel nan", in: "nan", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "valid with format", in: "12.345.678-5", want: true},
		{name: "valid plain", in: "123456785", want: true},
		{name: "valid with K digit", in: "12345670-K", want: true},
		{name: "wrong check digit", in: "12.345.678-6", want: false},
		{name: "too short", in: "12345-5", want: false},
		{name: "letters in body", in: "12A45678-5", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}

// Para cualquier cuerpo de RUT existe exactamente un dígito verificador
// aceptado; los otros diez deben rechazarse.
func TestValid_ExactlyOneCheckDigitPerBody(t *testing.T) {
	bodies := []string{"12345678", "7608642", "99999999", "10000001"}
	digits := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "K"}

	for _, body := range bodies {
		accepted := 0
		for _, dv := range digits {
			if Valid(body + dv) {
				accepted++
				assert.Equal(t, dv, CheckDigit(body))
			}
		}
		assert.Equal(t, 1, accepted, "body %s", body)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.345.678-5", Format("123456785"))
	assert.Equal(t, "7.608.642-0", Format("76086420"))
	assert.Equal(t, "12.345.670-K", Format("12345670k"))
	// valores no reconocibles se devuelven sin tocar
	assert.Equal(t, "garbage", Format("garbage"))
}
