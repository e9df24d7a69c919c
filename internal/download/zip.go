package download

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extraido descreve um arquivo retirado de um ZIP baixado.
type Extraido struct {
	EntryName string // caminho dentro do ZIP
	LocalPath string // caminho absoluto no disco
	FileType  string
	Size      int64
	ZipUUID   string
}

// ExtractZip expande um ZIP baixado para um subdiretório próprio (UUID)
// dentro de destDir e devolve a lista de arquivos extraídos. Entradas
// que escapam do diretório de destino são rejeitadas.
func ExtractZip(zipPath, destDir string) ([]Extraido, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("zip corrompido ou inválido %s: %w", zipPath, err)
	}
	defer r.Close()

	zipUUID := uuid.New().String()
	extractDir := filepath.Join(destDir, zipUUID)
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return nil, err
	}

	var extraidos []Extraido
	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		target := filepath.Join(extractDir, filepath.FromSlash(entry.Name))
		// proteção contra zip-slip
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(extractDir)+string(os.PathSeparator)) {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return extraidos, err
		}

		src, err := entry.Open()
		if err != nil {
			continue
		}
		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			continue
		}
		written, err := io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			os.Remove(target)
			continue
		}

		extraidos = append(extraidos, Extraido{
			EntryName: entry.Name,
			LocalPath: target,
			FileType:  FileType(entry.Name),
			Size:      written,
			ZipUUID:   zipUUID,
		})
	}

	return extraidos, nil
}
