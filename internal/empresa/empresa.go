package empresa

import (
	"fmt"
	"sort"
	"strings"
)

// Empresa descreve a configuração de rastreamento de uma empresa alvo.
type Empresa struct {
	Nome             string
	URL              string
	Tabela           string
	MaxDepth         int
	IncludeExternal  bool
	ExcludedTags     []string
	ExcludedSelector string
	IgnoreSSLErrors  bool
}

var registro = map[string]Empresa{
	"imbel": {
		Nome:             "imbel",
		URL:              "https://www.imbel.gov.br/",
		Tabela:           "tbl_paginas_imbel",
		MaxDepth:         10,
		IncludeExternal:  false,
		ExcludedTags:     []string{"form", "header", "footer", "nav", "img-logo-imbel", "barra-brasil"},
		ExcludedSelector: ".blog-anteriores,.cookies-eu-banner,.header-logo-t,.conteudo-barra-brasil",
	},
	"ceitec": {
		Nome: "ceitec",
		// O URL sem https funcionou melhor no script antigo
		URL:             "http://www.ceitec-sa.com/",
		Tabela:          "tbl_paginas_ceitec",
		MaxDepth:        10,
		IncludeExternal: true,
		// Sem exclusões para rastrear todo o conteúdo
		IgnoreSSLErrors: true,
	},
	"telebras": {
		Nome:             "telebras",
		URL:              "https://www.telebras.com.br/",
		Tabela:           "tbl_paginas_telebras",
		MaxDepth:         10,
		IncludeExternal:  false,
		ExcludedTags:     []string{"form", "header", "footer", "nav", "barra-brasil"},
		ExcludedSelector: ".blog-anteriores,.cookies-eu-banner,.header-logo-t,.conteudo-barra-brasil",
	},
}

func Get(nome string) (Empresa, error) {
	e, ok := registro[strings.ToLower(strings.TrimSpace(nome))]
	if !ok {
		return Empresa{}, fmt.Errorf("empresa desconhecida: %q (válidas: %s)", nome, strings.Join(Nomes(), ", "))
	}
	return e, nil
}

func Nomes() []string {
	nomes := make([]string, 0, len(registro))
	for n := range registro {
		nomes = append(nomes, n)
	}
	sort.Strings(nomes)
	return nomes
}

// Parse resolve o argumento -empresas da CLI: lista separada por vírgula
// ou "todas".
func Parse(arg string) ([]Empresa, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || strings.EqualFold(arg, "todas") {
		var todas []Empresa
		for _, n := range Nomes() {
			e, _ := Get(n)
			todas = append(todas, e)
		}
		return todas, nil
	}

	var empresas []Empresa
	for _, nome := range strings.Split(arg, ",") {
		e, err := Get(nome)
		if err != nil {
			return nil, err
		}
		empresas = append(empresas, e)
	}
	return empresas, nil
}
