package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPageContent(t *testing.T) {
	content := BuildPageContent("# Título\n\nCorpo.",
		[]string{"https://www.imbel.gov.br/img/a.png"},
		[]string{"https://www.imbel.gov.br/sobre"})

	assert.Contains(t, content, "# Título")
	assert.Contains(t, content, "## Imagens")
	assert.Contains(t, content, "![Imagem](https://www.imbel.gov.br/img/a.png)")
	assert.Contains(t, content, "## Links")
	assert.Contains(t, content, "- https://www.imbel.gov.br/sobre")
}

func TestBuildPageContentVazio(t *testing.T) {
	content := BuildPageContent("   ", nil, nil)
	assert.Equal(t, "Sem conteúdo disponível", content)
}

func TestBuildDocumentContent(t *testing.T) {
	content := BuildDocumentContent("edital.pdf", "pdf",
		"https://www.imbel.gov.br/anexos/edital.pdf", "imbel/documentos/edital.pdf")

	assert.Contains(t, content, "# Documento: edital.pdf")
	assert.Contains(t, content, "**Tipo:** pdf")
	assert.Contains(t, content, "**Link original:** https://www.imbel.gov.br/anexos/edital.pdf")
	assert.Contains(t, content, "**Arquivo local:** imbel/documentos/edital.pdf")
}

func TestBuildExtractedContent(t *testing.T) {
	content := BuildExtractedContent("docs/ata.pdf", "pdf", "pacote.zip",
		"https://www.telebras.com.br/arquivos/pacote.zip", "telebras/extraidos/x/docs/ata.pdf", 2048)

	assert.Contains(t, content, "# Arquivo extraído: ata.pdf")
	assert.Contains(t, content, "**Extraído de:** [pacote.zip](https://www.telebras.com.br/arquivos/pacote.zip)")
	assert.Contains(t, content, "**Caminho dentro do ZIP:** docs/ata.pdf")
	assert.Contains(t, content, "**Tamanho:** 2048 bytes")
}
