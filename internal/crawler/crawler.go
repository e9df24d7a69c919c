package crawler

import (
	"context"
	"log"
	"net"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"raspagem/internal/empresa"
)

// Resultado é uma página rastreada entregue ao handler.
type Resultado struct {
	URL      string
	Depth    int
	HTML     string
	Markdown string
	Links    []string
	Images   []string
}

// Options controla um rastreamento.
type Options struct {
	// Skip devolve true para URLs que não devem ser buscadas de novo
	// (rastreamento incremental).
	Skip func(url string) bool
	// OnPage recebe cada página rastreada.
	OnPage func(Resultado)
	// OnDocument recebe URLs de documentos encontradas durante o
	// rastreamento; elas nunca entram na fronteira.
	OnDocument func(url string)
}

// Crawler faz o rastreamento BFS em largura de um site.
type Crawler struct {
	Fetcher *Fetcher
	Conv    *converter.Converter
}

type frontierItem struct {
	url   string
	depth int
}

// Crawl rastreia a empresa a partir da URL inicial até MaxDepth,
// devolvendo o número de páginas visitadas.
func (c *Crawler) Crawl(ctx context.Context, emp empresa.Empresa, opt Options) (int, error) {
	start, err := url.Parse(emp.URL)
	if err != nil {
		return 0, err
	}

	visited := make(map[string]bool)
	queue := []frontierItem{{url: emp.URL, depth: 0}}
	visited[emp.URL] = true
	paginas := 0

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return paginas, err
		}

		item := queue[0]
		queue = queue[1:]

		if opt.Skip != nil && opt.Skip(item.url) {
			continue
		}

		html, contentType, err := c.Fetcher.Fetch(ctx, item.url)
		if err != nil {
			log.Printf("[%s] Erro ao buscar %s: %v", emp.Nome, item.url, err)
			continue
		}

		// Algumas URLs de documento não têm extensão; o Content-Type decide
		if contentType != "" && !strings.Contains(contentType, "html") {
			if opt.OnDocument != nil {
				opt.OnDocument(item.url)
			}
			continue
		}

		pc, err := ParsePage(html, item.url, emp.ExcludedTags, emp.ExcludedSelector)
		if err != nil {
			log.Printf("[%s] Erro ao parsear %s: %v", emp.Nome, item.url, err)
			continue
		}

		markdown, err := ToMarkdown(c.Conv, pc.HTML, baseDomain(item.url))
		if err != nil {
			log.Printf("[%s] Erro ao converter %s: %v", emp.Nome, item.url, err)
			markdown = ""
		}

		paginas++
		if opt.OnPage != nil {
			opt.OnPage(Resultado{
				URL:      item.url,
				Depth:    item.depth,
				HTML:     html,
				Markdown: markdown,
				Links:    pc.Links,
				Images:   pc.Images,
			})
		}

		for _, link := range pc.Links {
			if visited[link] {
				continue
			}
			if IsDefinitelyDocumentURL(link) || IsDocumentURL(link) {
				visited[link] = true
				if opt.OnDocument != nil && sameScope(start, link, emp.IncludeExternal) {
					opt.OnDocument(link)
				}
				continue
			}
			if item.depth+1 > emp.MaxDepth {
				continue
			}
			if !sameScope(start, link, emp.IncludeExternal) {
				continue
			}
			visited[link] = true
			queue = append(queue, frontierItem{url: link, depth: item.depth + 1})
		}
	}

	return paginas, nil
}

// sameScope decide se um link pertence ao escopo do rastreamento:
// mesmo domínio registrável (subdomínios incluídos), ou qualquer
// http(s) quando a empresa inclui links externos.
func sameScope(start *url.URL, link string, includeExternal bool) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if includeExternal {
		return true
	}

	return registrableDomain(u.Host) == registrableDomain(start.Host)
}

// registrableDomain reduz um host ao domínio registrável; sufixos
// compostos brasileiros (gov.br, com.br) mantêm três rótulos.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	if net.ParseIP(host) != nil {
		return host
	}
	parts := strings.Split(host, ".")
	// domínios brasileiros usam sufixo composto (gov.br, com.br)
	if len(parts) >= 3 && len(parts[len(parts)-1]) == 2 && len(parts[len(parts)-2]) <= 3 {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

func baseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}
