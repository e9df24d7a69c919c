package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoDownloader() *Downloader {
	return New("raspagem-teste", 10*time.Second, false)
}

func TestDownload(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conteudo := []byte("%PDF-1.4 conteudo de teste")
	mux.HandleFunc("/docs/edital.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(conteudo)
	})

	dir := t.TempDir()
	res, err := novoDownloader().Download(context.Background(), srv.URL+"/docs/edital.pdf", dir)
	require.NoError(t, err)

	assert.Equal(t, "edital.pdf", res.Filename)
	assert.Equal(t, "pdf", res.FileType)

	b, err := os.ReadFile(res.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, conteudo, b)
}

func TestDownloadJaExistente(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/ata.pdf", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("pdf"))
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ata.pdf"), []byte("já baixado"), 0o644))

	res, err := novoDownloader().Download(context.Background(), srv.URL+"/ata.pdf", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ata.pdf"), res.LocalPath)
	assert.Zero(t, atomic.LoadInt32(&hits), "arquivo existente não deve ser baixado de novo")
}

func TestDownload404SemRetry(t *testing.T) {
	var gets int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sumiu.pdf", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&gets, 1)
		}
		http.NotFound(w, r)
	})

	_, err := novoDownloader().Download(context.Background(), srv.URL+"/sumiu.pdf", t.TempDir())
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&gets), int32(1), "404 não deve ser tentado de novo")
}

func TestDownloadRetryAposErro(t *testing.T) {
	var gets int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conteudo := []byte("%PDF-1.4 ok depois de insistir")
	mux.HandleFunc("/instavel.pdf", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			return
		}
		// falha nas duas primeiras tentativas, responde na terceira
		if atomic.AddInt32(&gets, 1) < 3 {
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(conteudo)
	})

	res, err := novoDownloader().Download(context.Background(), srv.URL+"/instavel.pdf", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&gets))

	b, err := os.ReadFile(res.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, conteudo, b)
}

func TestDownloadArquivoVazio(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/vazio.pdf", func(w http.ResponseWriter, r *http.Request) {
		// 200 sem corpo
		w.Header().Set("Content-Type", "application/pdf")
	})

	dir := t.TempDir()
	_, err := novoDownloader().Download(context.Background(), srv.URL+"/vazio.pdf", dir)
	require.Error(t, err)

	// o arquivo vazio não pode sobrar no disco
	assert.NoFileExists(t, filepath.Join(dir, "vazio.pdf"))
}

func TestDownloadHTMLDisfarcado(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/download/pagina", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>não sou um documento</body></html>")
	})

	_, err := novoDownloader().Download(context.Background(), srv.URL+"/download/pagina", t.TempDir())
	assert.Error(t, err)
}

func TestDownloadContentDisposition(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/serve", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="relatorio-anual.pdf"`)
		w.Write([]byte("pdf"))
	})

	res, err := novoDownloader().Download(context.Background(), srv.URL+"/serve", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "relatorio-anual.pdf", res.Filename)
}

func TestCleanDocumentURL(t *testing.T) {
	assert.Equal(t, "https://x.com/a.pdf", cleanDocumentURL("https://x.com/a.pdf#page=2"))
	// extensão duplicada observada nos portais
	assert.Equal(t, "https://x.com/a.pdf", cleanDocumentURL("https://x.com/a.pdf.pdf"))
	assert.Equal(t, "", cleanDocumentURL("#fragmento"))
}

func TestFilenameFor(t *testing.T) {
	assert.Equal(t, "edital.pdf", filenameFor("https://www.imbel.gov.br/anexos/edital.pdf"))
	// sem nome utilizável no caminho, cai no nome sanitizado
	name := filenameFor("https://www.imbel.gov.br/download")
	assert.Equal(t, "imbel_gov_br_download.bin", name)
}

func TestFileType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.pdf", "pdf"},
		{"b.docx", "word"},
		{"c.XLSX", "excel"},
		{"d.zip", "arquivo_compactado"},
		{"e.tar", "arquivo_compactado"},
		{"f.png", "imagem"},
		{"g.mp3", "audio"},
		{"h.txt", "texto"},
		{"i.qualquer", "documento"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileType(tt.filename), tt.filename)
	}
}

func TestRunWorkers(t *testing.T) {
	urls := make([]string, 50)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://x.com/%d", i)
	}

	var mu sync.Mutex
	seen := make(map[string]bool)
	RunWorkers(urls, 4, func(u string) {
		mu.Lock()
		seen[u] = true
		mu.Unlock()
	})

	assert.Len(t, seen, 50)
}
