package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paginaExemplo = `<!DOCTYPE html>
<html>
<head><title>Notícias</title><script>var x = 1;</script></head>
<body>
<header><a href="/home">Home</a></header>
<nav><a href="/menu">Menu</a></nav>
<div class="cookies-eu-banner">Aceitar cookies</div>
<main>
  <h1>Notícias</h1>
  <a href="/noticias/nova-fabrica">Nova fábrica</a>
  <a href="https://www.gov.br/externo">Portal externo</a>
  <a href="relativo.html">Relativo</a>
  <a href="#ancora">Âncora</a>
  <a href="javascript:void(0)">JS</a>
  <a href="mailto:contato@imbel.gov.br">Contato</a>
  <a href="/noticias/nova-fabrica">Duplicado</a>
  <img src="/img/logo.png">
  <img src="data:image/png;base64,AAAA">
</main>
<footer><a href="/rodape">Rodapé</a></footer>
</body>
</html>`

func TestParsePage(t *testing.T) {
	pc, err := ParsePage(paginaExemplo, "https://www.imbel.gov.br/noticias/", []string{"header", "footer", "nav"}, ".cookies-eu-banner")
	require.NoError(t, err)

	// links absolutos, sem âncoras/javascript/mailto, sem duplicatas;
	// links das áreas excluídas ainda contam para a descoberta
	assert.Contains(t, pc.Links, "https://www.imbel.gov.br/noticias/nova-fabrica")
	assert.Contains(t, pc.Links, "https://www.gov.br/externo")
	assert.Contains(t, pc.Links, "https://www.imbel.gov.br/noticias/relativo.html")
	assert.Contains(t, pc.Links, "https://www.imbel.gov.br/home")

	count := 0
	for _, l := range pc.Links {
		if l == "https://www.imbel.gov.br/noticias/nova-fabrica" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	for _, l := range pc.Links {
		assert.NotContains(t, l, "javascript:")
		assert.NotContains(t, l, "mailto:")
		assert.NotContains(t, l, "#")
	}

	// imagens absolutas, data: ignorado
	assert.Equal(t, []string{"https://www.imbel.gov.br/img/logo.png"}, pc.Images)

	// HTML limpo sem as tags/seletores excluídos e sem script
	assert.NotContains(t, pc.HTML, "Rodapé")
	assert.NotContains(t, pc.HTML, "Aceitar cookies")
	assert.NotContains(t, pc.HTML, "var x = 1")
	assert.Contains(t, pc.HTML, "Nova fábrica")
}

func TestParsePageHTMLInvalido(t *testing.T) {
	// o parser de html tolera marcação quebrada
	pc, err := ParsePage("<p>solto<a href='/x'>x</a>", "https://www.imbel.gov.br/", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.imbel.gov.br/x"}, pc.Links)
}
