package crawler

import (
	"fmt"
	"path"
	"strings"
)

// BuildPageContent monta o conteúdo final salvo no banco: o markdown da
// página seguido das seções de imagens e links encontrados.
func BuildPageContent(markdown string, images, links []string) string {
	var sb strings.Builder

	if strings.TrimSpace(markdown) != "" {
		sb.WriteString(markdown)
	} else {
		sb.WriteString("Sem conteúdo disponível")
	}

	if len(images) > 0 {
		sb.WriteString("\n\n## Imagens\n\n")
		for _, img := range images {
			sb.WriteString(fmt.Sprintf("![Imagem](%s)\n\n", img))
		}
	}

	if len(links) > 0 {
		sb.WriteString("\n\n## Links\n\n")
		for _, link := range links {
			sb.WriteString(fmt.Sprintf("- %s\n", link))
		}
	}

	return sb.String()
}

// BuildDocumentContent monta o bloco markdown descritivo de um documento
// baixado.
func BuildDocumentContent(filename, fileType, link, localPath string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Documento: %s\n\n", filename))
	sb.WriteString(fmt.Sprintf("**Tipo:** %s\n\n", fileType))
	sb.WriteString(fmt.Sprintf("**Link original:** %s\n\n", link))
	sb.WriteString(fmt.Sprintf("**Arquivo local:** %s\n\n", localPath))
	return sb.String()
}

// BuildExtractedContent monta o bloco markdown de um arquivo extraído de
// um ZIP baixado.
func BuildExtractedContent(entryName, fileType, zipName, parentURL, localPath string, size int64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Arquivo extraído: %s\n\n", path.Base(entryName)))
	sb.WriteString(fmt.Sprintf("**Tipo:** %s\n\n", fileType))
	sb.WriteString(fmt.Sprintf("**Extraído de:** [%s](%s)\n\n", zipName, parentURL))
	sb.WriteString(fmt.Sprintf("**Caminho dentro do ZIP:** %s\n\n", entryName))
	sb.WriteString(fmt.Sprintf("**Arquivo local:** %s\n\n", localPath))
	sb.WriteString(fmt.Sprintf("**Tamanho:** %d bytes\n\n", size))
	return sb.String()
}
