package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"basit ad", "Client Intake", "client-intake"},
		{"özel karakterler atılır", "Client Intake!!", "client-intake"},
		{"ardışık boşluklar", "Müşteri   Formu", "mteri-formu"},
		{"ardışık tireler teke iner", "a -- b", "a-b"},
		{"baş ve son tireler atılır", "-hello world-", "hello-world"},
		{"rakamlar korunur", "Survey 2024 v2", "survey-2024-v2"},
		{"tamamı geçersizse boş", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.in))
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	// Aynı ad her zaman aynı kimliği üretmeli; türetilmiş kimlik tekrar
	// türetildiğinde de değişmemeli.
	names := []string{"Client Intake!!", "  Foo  Bar  ", "survey-2024"}
	for _, name := range names {
		first := Derive(name)
		assert.Equal(t, first, Derive(name))
		assert.Equal(t, first, Derive(first))
		if first != "" {
			assert.True(t, IsValid(first), "türetilmiş kimlik geçerli olmalı: %q", first)
		}
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("client-intake"))
	assert.True(t, IsValid("a1"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Client"))
	assert.False(t, IsValid("../etc/passwd"))
	assert.False(t, IsValid("a b"))
	assert.False(t, IsValid("form.json"))
}
