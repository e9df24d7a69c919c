package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	reProtoWWW = regexp.MustCompile(`https?://(www\.)?`)
	reInvalid  = regexp.MustCompile(`[\\/*?:"<>|]`)
)

// Dirs gerencia a árvore de saída de uma empresa:
// <root>/<empresa>/html, /documentos e /extraidos.
type Dirs struct {
	Root    string
	Empresa string
}

func NewDirs(root, empresa string) *Dirs {
	return &Dirs{Root: root, Empresa: empresa}
}

func (d *Dirs) base() string {
	return filepath.Join(d.Root, d.Empresa)
}

func (d *Dirs) HTML() (string, error) {
	return ensure(filepath.Join(d.base(), "html"))
}

func (d *Dirs) Documentos() (string, error) {
	return ensure(filepath.Join(d.base(), "documentos"))
}

func (d *Dirs) Extraidos() (string, error) {
	return ensure(filepath.Join(d.base(), "extraidos"))
}

func ensure(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("criar diretório %s: %w", dir, err)
	}
	return dir, nil
}

// SanitizeFilename converte uma URL em um nome de arquivo seguro:
// remove protocolo e www, troca caracteres inválidos por _ e limita
// a 100 caracteres.
func SanitizeFilename(rawURL string) string {
	name := reProtoWWW.ReplaceAllString(rawURL, "")
	name = reInvalid.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, ".", "_")
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

// SaveHTML grava o HTML original de uma página e devolve o caminho
// relativo ao diretório de saída.
func (d *Dirs) SaveHTML(pageURL, htmlContent string) (string, error) {
	dir, err := d.HTML()
	if err != nil {
		return "", err
	}

	filename := SanitizeFilename(pageURL)
	if !strings.HasSuffix(filename, ".html") {
		filename += ".html"
	}

	full := filepath.Join(dir, filename)
	if err := os.WriteFile(full, []byte(htmlContent), 0o644); err != nil {
		return "", fmt.Errorf("salvar HTML de %s: %w", pageURL, err)
	}

	rel, err := filepath.Rel(d.Root, full)
	if err != nil {
		return full, nil
	}
	return rel, nil
}
