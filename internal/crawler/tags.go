package crawler

import (
	"regexp"
	"strings"
)

var (
	reProtocol = regexp.MustCompile(`https?://`)
	reDomain   = regexp.MustCompile(`https?://[^/]+/?`)
	reQuery    = regexp.MustCompile(`[?#].*$`)
	reDigit    = regexp.MustCompile(`\d`)
	reDigits   = regexp.MustCompile(`\d+`)
)

// ExtractPathTags deriva tags do caminho da URL. Segmentos com números
// herdam a tag textual anterior (/noticias/123 vira só "noticias").
func ExtractPathTags(rawURL string) []string {
	path := reDomain.ReplaceAllString(rawURL, "")
	path = reQuery.ReplaceAllString(path, "")

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	var tags []string
	for _, part := range parts {
		if reDigit.MatchString(part) {
			// Já existe uma tag de categoria textual? Então o segmento
			// numérico é só um id de registro.
			hasTextual := false
			for _, t := range tags {
				if !reDigit.MatchString(t) {
					hasTextual = true
					break
				}
			}
			if hasTextual {
				continue
			}
			nonNumeric := strings.Trim(reDigits.ReplaceAllString(part, ""), ",.-_")
			if nonNumeric != "" {
				tags = append(tags, nonNumeric)
			}
		} else {
			tags = append(tags, part)
		}
	}

	return tags
}

// ExtractSubdomain devolve o subdomínio de uma URL, ou vazio.
func ExtractSubdomain(rawURL string) string {
	host := reProtocol.ReplaceAllString(rawURL, "")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return ""
}

// TagsForURL combina as tags do caminho com o fallback de subdomínio,
// como o banco espera para páginas e documentos.
func TagsForURL(rawURL string) []string {
	tags := ExtractPathTags(rawURL)
	if len(tags) == 0 {
		if sub := ExtractSubdomain(rawURL); sub != "" && sub != "www" {
			tags = append(tags, sub)
		}
	}
	return tags
}
