package crawler

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limite de leitura por página para não estourar memória em páginas anômalas
const maxBodyBytes = 10 * 1024 * 1024

// Fetcher busca páginas HTML com um limitador de requisições por host.
type Fetcher struct {
	Client    *http.Client
	UserAgent string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewFetcher(userAgent string, timeout time.Duration, insecureTLS bool) *Fetcher {
	transport := &http.Transport{}
	if insecureTLS {
		// ceitec serve uma cadeia de certificados quebrada
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Fetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		UserAgent: userAgent,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// hostLimiter devolve o limitador do host (2 req/s, burst 4).
func (f *Fetcher) hostLimiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(2), 4)
		f.limiters[host] = l
	}
	return l
}

// Fetch busca uma URL e devolve o corpo e o Content-Type da resposta.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("url inválida %s: %w", rawURL, err)
	}

	if err := f.hostLimiter(u.Host).Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d para %s", resp.StatusCode, rawURL)
	}

	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", err
	}

	return string(b), contentType, nil
}
