package download

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"raspagem/internal/crawler"
	"raspagem/internal/storage"
)

const maxRetries = 3

var reInvalidChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// Resultado de um download bem sucedido.
type Resultado struct {
	LocalPath string // caminho absoluto do arquivo
	FileType  string
	Filename  string
}

// Downloader baixa documentos com retry e nomeação estável.
type Downloader struct {
	Client    *http.Client
	UserAgent string
}

func New(userAgent string, timeout time.Duration, insecureTLS bool) *Downloader {
	transport := &http.Transport{}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Downloader{
		Client:    &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: userAgent,
	}
}

// Download baixa um documento para destDir. URLs já presentes no disco
// não são baixadas de novo.
func (d *Downloader) Download(ctx context.Context, rawURL, destDir string) (Resultado, error) {
	cleanURL := cleanDocumentURL(rawURL)
	if cleanURL == "" {
		return Resultado{}, fmt.Errorf("url de documento inválida: %s", rawURL)
	}

	filename := filenameFor(cleanURL)
	localPath := filepath.Join(destDir, filename)

	if info, err := os.Stat(localPath); err == nil && info.Size() > 0 {
		return Resultado{LocalPath: localPath, FileType: FileType(filename), Filename: filename}, nil
	}

	// Checagem rápida com HEAD antes do download completo
	if status, err := d.head(ctx, cleanURL); err == nil && status >= 400 {
		return Resultado{}, fmt.Errorf("status %d para %s", status, cleanURL)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Resultado{}, ctx.Err()
			case <-time.After(time.Duration(2*attempt) * time.Second):
			}
		}

		res, final, err := d.tryDownload(ctx, cleanURL, destDir, filename)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if final {
			break
		}
	}

	return Resultado{}, lastErr
}

func (d *Downloader) head(ctx context.Context, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// tryDownload faz uma tentativa; final=true indica que não adianta repetir.
func (d *Downloader) tryDownload(ctx context.Context, rawURL, destDir, filename string) (Resultado, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Resultado{}, true, err
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := d.Client.Do(req)
	if err != nil {
		return Resultado{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		final := resp.StatusCode == http.StatusNotFound
		return Resultado{}, final, fmt.Errorf("status %d para %s", resp.StatusCode, rawURL)
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0]))

	// Página HTML disfarçada de documento: ignorar, a menos que o nome
	// tenha extensão de documento conhecida
	if contentType == "text/html" && !hasDocumentExtension(filename) {
		return Resultado{}, true, fmt.Errorf("conteúdo text/html ignorado: %s", rawURL)
	}

	// Content-Disposition pode trazer o nome verdadeiro do arquivo
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" && len(name) < 100 {
				filename = reInvalidChars.ReplaceAllString(name, "_")
			}
		}
	}

	// Sem extensão? Adivinhar pelo Content-Type
	if strings.HasSuffix(filename, ".bin") || !strings.Contains(filename, ".") {
		if ext := guessExtension(contentType, rawURL); ext != "" {
			filename = strings.TrimSuffix(filename, ".bin") + ext
		}
	}

	localPath := filepath.Join(destDir, filename)
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return Resultado{}, true, err
	}

	f, err := os.Create(localPath)
	if err != nil {
		return Resultado{}, true, err
	}

	written, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil || closeErr != nil || written == 0 {
		os.Remove(localPath)
		if err == nil {
			err = fmt.Errorf("arquivo vazio: %s", rawURL)
		}
		return Resultado{}, false, err
	}

	return Resultado{
		LocalPath: localPath,
		FileType:  FileType(filename),
		Filename:  filename,
	}, false, nil
}

// cleanDocumentURL remove fragmentos e extensões duplicadas (.pdf.pdf,
// problema observado nos portais).
func cleanDocumentURL(rawURL string) string {
	clean := strings.SplitN(rawURL, "#", 2)[0]
	if clean == "" {
		return ""
	}
	lower := strings.ToLower(clean)
	for _, ext := range crawler.DocumentExtensions {
		if strings.Contains(lower, ext+ext) {
			idx := strings.Index(lower, ext+ext)
			clean = clean[:idx+len(ext)] + clean[idx+2*len(ext):]
			lower = strings.ToLower(clean)
		}
	}
	return clean
}

// filenameFor deriva o nome local do arquivo a partir da URL.
func filenameFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return storage.SanitizeFilename(rawURL) + ".bin"
	}

	original := path.Base(u.Path)
	if original != "" && original != "." && original != "/" && len(original) < 100 && strings.Contains(original, ".") {
		return reInvalidChars.ReplaceAllString(original, "_")
	}

	filename := storage.SanitizeFilename(rawURL)
	if ext := path.Ext(u.Path); ext != "" && len(ext) < 10 {
		return filename + ext
	}
	return filename + ".bin"
}

func hasDocumentExtension(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range crawler.DocumentExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var mimeExtensions = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"application/vnd.ms-excel": ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.ms-powerpoint":                                     ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"text/csv":                 ".csv",
	"application/zip":          ".zip",
	"application/x-rar-compressed": ".rar",
	"application/x-7z-compressed":  ".7z",
	"application/gzip":             ".gz",
	"application/x-tar":            ".tar",
	"application/x-bzip2":          ".bz2",
	"application/x-xz":             ".xz",
}

func guessExtension(contentType, rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) < 10 {
			return ext
		}
	}
	if ext, ok := mimeExtensions[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// FileType classifica um arquivo pela extensão, para as tags do banco.
func FileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return "pdf"
	case ".docx", ".doc":
		return "word"
	case ".xlsx", ".xls":
		return "excel"
	case ".pptx", ".ppt":
		return "powerpoint"
	case ".csv":
		return "csv"
	case ".zip", ".rar", ".7z", ".gz", ".tar", ".bz2", ".xz":
		return "arquivo_compactado"
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg":
		return "imagem"
	case ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm":
		return "video"
	case ".mp3", ".wav", ".ogg", ".flac", ".aac":
		return "audio"
	case ".txt":
		return "texto"
	case ".html", ".htm":
		return "html"
	default:
		return "documento"
	}
}
