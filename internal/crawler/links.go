package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageContent é o resultado do parse de uma página: links e imagens com
// URLs absolutas, e o HTML limpo (sem as tags/seletores excluídos da
// empresa) pronto para conversão em markdown.
type PageContent struct {
	Links  []string
	Images []string
	HTML   string
}

func ParsePage(html, baseURL string, excludedTags []string, excludedSelector string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	pc := &PageContent{}
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		abs := resolve(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		pc.Links = append(pc.Links, abs)
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if abs := resolve(base, src); abs != "" {
			pc.Images = append(pc.Images, abs)
		}
	})

	// As exclusões só afetam o conteúdo salvo, não a descoberta de links
	for _, tag := range excludedTags {
		doc.Find(tag).Remove()
	}
	if excludedSelector != "" {
		doc.Find(excludedSelector).Remove()
	}
	doc.Find("script, style, noscript").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return nil, err
	}
	pc.HTML = cleaned

	return pc, nil
}

// resolve transforma href relativo em URL absoluta e remove o fragmento.
func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}
