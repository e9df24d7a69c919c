package empresa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	e, err := Get("imbel")
	require.NoError(t, err)
	assert.Equal(t, "https://www.imbel.gov.br/", e.URL)
	assert.Equal(t, "tbl_paginas_imbel", e.Tabela)
	assert.Equal(t, 10, e.MaxDepth)
	assert.False(t, e.IncludeExternal)
	assert.Equal(t, []string{"form", "header", "footer", "nav", "img-logo-imbel", "barra-brasil"}, e.ExcludedTags)

	// lookup é case-insensitive e ignora espaços
	e, err = Get("  CEITEC ")
	require.NoError(t, err)
	assert.Equal(t, "tbl_paginas_ceitec", e.Tabela)
	assert.True(t, e.IncludeExternal)
	assert.True(t, e.IgnoreSSLErrors)

	e, err = Get("telebras")
	require.NoError(t, err)
	assert.Contains(t, e.ExcludedTags, "barra-brasil")

	_, err = Get("petrobras")
	assert.Error(t, err)
}

func TestNomes(t *testing.T) {
	assert.Equal(t, []string{"ceitec", "imbel", "telebras"}, Nomes())
}

func TestParse(t *testing.T) {
	todas, err := Parse("todas")
	require.NoError(t, err)
	require.Len(t, todas, 3)

	vazio, err := Parse("")
	require.NoError(t, err)
	assert.Len(t, vazio, 3)

	duas, err := Parse("imbel, telebras")
	require.NoError(t, err)
	require.Len(t, duas, 2)
	assert.Equal(t, "imbel", duas[0].Nome)
	assert.Equal(t, "telebras", duas[1].Nome)

	_, err = Parse("imbel,desconhecida")
	assert.Error(t, err)
}

func TestRegistroConsistente(t *testing.T) {
	for _, nome := range Nomes() {
		e, err := Get(nome)
		require.NoError(t, err)
		assert.Equal(t, nome, e.Nome)
		assert.NotEmpty(t, e.URL)
		assert.NotEmpty(t, e.Tabela)
		assert.Greater(t, e.MaxDepth, 0)
	}
}
