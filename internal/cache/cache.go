package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store persiste os conjuntos de URLs já processadas entre execuções,
// para o rastreamento incremental.
type Store interface {
	Load(ctx context.Context, empresa, kind string) (map[string]bool, error)
	Save(ctx context.Context, empresa, kind string, urls map[string]bool) error
}

const (
	KindPaginas    = "crawled_urls"
	KindDocumentos = "document_urls"
)

// FileStore guarda um arquivo texto por conjunto, uma URL por linha
// (cache/<empresa>_crawled_urls.txt).
type FileStore struct {
	Dir string
}

func (f *FileStore) path(empresa, kind string) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s_%s.txt", empresa, kind))
}

func (f *FileStore) Load(_ context.Context, empresa, kind string) (map[string]bool, error) {
	urls := make(map[string]bool)

	file, err := os.Open(f.path(empresa, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return urls, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls[line] = true
		}
	}
	return urls, scanner.Err()
}

func (f *FileStore) Save(_ context.Context, empresa, kind string, urls map[string]bool) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}

	sorted := make([]string, 0, len(urls))
	for u := range urls {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	for _, u := range sorted {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}
	return os.WriteFile(f.path(empresa, kind), []byte(sb.String()), 0o644)
}

// RedisStore guarda os conjuntos em sets do Redis quando REDIS_URL
// está configurado (chave raspagem:<empresa>:<kind>).
type RedisStore struct {
	Client *redis.Client
}

func (r *RedisStore) key(empresa, kind string) string {
	return fmt.Sprintf("raspagem:%s:%s", empresa, kind)
}

func (r *RedisStore) Load(ctx context.Context, empresa, kind string) (map[string]bool, error) {
	members, err := r.Client.SMembers(ctx, r.key(empresa, kind)).Result()
	if err != nil {
		return nil, err
	}
	urls := make(map[string]bool, len(members))
	for _, m := range members {
		urls[m] = true
	}
	return urls, nil
}

func (r *RedisStore) Save(ctx context.Context, empresa, kind string, urls map[string]bool) error {
	if len(urls) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(urls))
	for u := range urls {
		members = append(members, u)
	}
	return r.Client.SAdd(ctx, r.key(empresa, kind), members...).Err()
}
