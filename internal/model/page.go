package model

// Pagina é uma página rastreada de uma empresa, pronta para persistência.
type Pagina struct {
	ID        string
	Link      string
	Content   string // markdown
	Images    []string
	Tags      []string
	LocalPath string
}

// Documento é um arquivo baixado (PDF, planilha, ZIP, ...) ou um
// arquivo extraído de um ZIP, caso em que ParentDocument aponta para
// a URL do arquivo compactado de origem.
type Documento struct {
	ID             string
	Link           string
	Content        string
	Tags           []string
	LocalPath      string
	ParentDocument string
}
