package crawler

import (
	"net/url"
	"strings"
)

// Extensões de arquivos que serão baixados em vez de navegados.
var DocumentExtensions = []string{
	".pdf", ".docx", ".doc", ".xlsx", ".xls", ".pptx", ".ppt",
	".csv", ".zip", ".rar", ".7z", ".gz", ".tar", ".bz2", ".xz",
	".odt", ".ods", ".odp", ".txt", ".rtf", ".epub", ".mobi",
	".pub", ".vsd", ".msg", ".xml", ".json", ".jpg", ".jpeg",
	".png", ".gif", ".mp3", ".mp4", ".wav",
}

// Padrões de caminho que indicam arquivos (para URLs sem extensão).
var documentPathPatterns = []string{
	"/storage/", "/download/", "/arquivos/", "/documentos/",
	"/files/", "/attachments/", "/anexos/",
}

var webPageExtensions = []string{".html", ".htm", ".php", ".asp", ".aspx", ".jsp"}

var documentQueryParams = []string{"download=", "file=", "attachment=", "document=", "arquivo="}

var documentKeywords = []string{"download", "document", "file", "arquivo", "edital", "formulario", "anexo"}

// IsDocumentURL verifica se uma URL aponta para um documento que deve ser
// baixado. Checa extensão, padrões de caminho, parâmetros de query e
// keywords comuns de portais de transparência.
func IsDocumentURL(rawURL string) bool {
	if rawURL == "" || !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)

	for _, ext := range DocumentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	for _, pattern := range documentPathPatterns {
		if strings.Contains(path, pattern) {
			// Caminho de documento, desde que não termine em extensão de página
			if !hasAnySuffix(path, webPageExtensions) {
				return true
			}
		}
	}

	query := strings.ToLower(u.RawQuery)
	for _, p := range documentQueryParams {
		if strings.Contains(query, p) {
			return true
		}
	}

	for _, kw := range documentKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}

	return false
}

// IsDefinitelyDocumentURL é a verificação rigorosa usada para impedir que o
// crawler navegue para arquivos: só responde true com evidência forte.
func IsDefinitelyDocumentURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)

	for _, ext := range DocumentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	for _, pattern := range documentPathPatterns {
		if strings.Contains(path, pattern) {
			for _, ext := range DocumentExtensions {
				if strings.Contains(path, ext[1:]) {
					return true
				}
			}
		}
	}

	query := strings.ToLower(u.RawQuery)
	for _, p := range []string{"download=", "file=", "doc=", "document=", "attachment=", "filename="} {
		if strings.Contains(query, p) {
			return true
		}
	}

	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
