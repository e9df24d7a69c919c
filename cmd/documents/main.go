package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"raspagem/internal/cache"
	"raspagem/internal/config"
	"raspagem/internal/db"
	"raspagem/internal/empresa"
	"raspagem/internal/observability"
	"raspagem/internal/runner"
)

// Retoma apenas o download dos documentos pendentes no cache, sem
// rastrear páginas de novo. Útil quando um rastreamento foi
// interrompido no meio da fila de downloads.
//
// go run cmd/documents/main.go -empresas=telebras -timeout=120
func main() {
	empresasArg := flag.String("empresas", "todas", "Empresas para processar (imbel, ceitec, telebras ou todas)")
	timeout := flag.Int("timeout", 0, "Timeout em segundos para downloads (padrão: DOWNLOAD_TIMEOUT)")
	flag.Parse()

	cfg := config.Load()

	if logFile, err := os.OpenFile("crawler.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}

	empresas, err := empresa.Parse(*empresasArg)
	if err != nil {
		log.Fatalf("Erro: %v", err)
	}

	if *timeout <= 0 {
		*timeout = cfg.DownloadTimeout
	}

	observability.Start(cfg.MetricsPort)

	ctx := context.Background()

	dbConn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no banco de dados (db): %v", err)
	}
	defer dbConn.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no Postgres (pgxpool): %v", err)
	}
	defer pool.Close()

	var store cache.Store
	if cfg.RedisURL != "" {
		store = &cache.RedisStore{Client: redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})}
	} else {
		store = &cache.FileStore{Dir: cfg.CacheDir}
	}

	r := &runner.Runner{
		Cfg:   cfg,
		DB:    dbConn,
		Pool:  pool,
		Cache: store,
	}

	opt := runner.Options{Timeout: time.Duration(*timeout) * time.Second}

	for _, emp := range empresas {
		pendentes, err := store.Load(ctx, emp.Nome, cache.KindDocumentos)
		if err != nil {
			log.Printf("[%s] Erro ao carregar cache de documentos: %v", emp.Nome, err)
			continue
		}
		if len(pendentes) == 0 {
			log.Printf("[%s] Nenhum documento pendente no cache", emp.Nome)
			continue
		}

		urls := make([]string, 0, len(pendentes))
		for u := range pendentes {
			urls = append(urls, u)
		}

		baixados, falhas := r.DownloadDocuments(ctx, emp, urls, opt)
		log.Printf("[%s] Documentos: %d baixados, %d falhas", emp.Nome, baixados, falhas)
	}

	log.Println("Processamento de documentos finalizado")
}
