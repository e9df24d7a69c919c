package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"remove protocolo e www", "https://www.imbel.gov.br/noticias", "imbel_gov_br_noticias"},
		{"http sem www", "http://ceitec-sa.com/pt", "ceitec-sa_com_pt"},
		{"caracteres inválidos", `https://x.com/a?b=c*d|e`, "x_com_a_b=c_d_e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.url))
		})
	}

	longo := "https://www.telebras.com.br/" + strings.Repeat("segmento/", 30)
	assert.LessOrEqual(t, len(SanitizeFilename(longo)), 100)
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	dirs := NewDirs(root, "imbel")

	html, err := dirs.HTML()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "imbel", "html"), html)
	assert.DirExists(t, html)

	docs, err := dirs.Documentos()
	require.NoError(t, err)
	assert.DirExists(t, docs)

	ext, err := dirs.Extraidos()
	require.NoError(t, err)
	assert.DirExists(t, ext)
}

func TestSaveHTML(t *testing.T) {
	root := t.TempDir()
	dirs := NewDirs(root, "telebras")

	rel, err := dirs.SaveHTML("https://www.telebras.com.br/sobre", "<html><body>Sobre</body></html>")
	require.NoError(t, err)

	// caminho relativo à raiz de saída, com extensão .html
	assert.Equal(t, filepath.Join("telebras", "html", "telebras_com_br_sobre.html"), rel)

	b, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "<html><body>Sobre</body></html>", string(b))
}
