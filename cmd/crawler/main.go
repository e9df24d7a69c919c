package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"raspagem/internal/cache"
	"raspagem/internal/config"
	"raspagem/internal/db"
	"raspagem/internal/empresa"
	"raspagem/internal/observability"
	"raspagem/internal/runner"
)

// go run cmd/crawler/main.go -empresas=imbel,ceitec
// go run cmd/crawler/main.go -empresas=todas -force -sequential
func main() {
	empresasArg := flag.String("empresas", "todas", "Empresas para processar (imbel, ceitec, telebras ou todas)")
	force := flag.Bool("force", false, "Forçar atualização de todas as páginas, mesmo as já processadas")
	sequential := flag.Bool("sequential", false, "Processar empresas sequencialmente em vez de em paralelo")
	noCache := flag.Bool("no-cache", false, "Desabilitar uso de cache para URLs já processadas")
	noSSLVerify := flag.Bool("no-ssl-verify", false, "Desabilitar verificação de certificados SSL")
	timeout := flag.Int("timeout", 0, "Timeout em segundos para downloads (padrão: DOWNLOAD_TIMEOUT)")
	flag.Parse()

	cfg := config.Load()

	// log na tela e em crawler.log
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

	opt := runner.Options{
		Force:       *force,
		NoCache:     *noCache,
		NoSSLVerify: *noSSLVerify,
		Timeout:     time.Duration(*timeout) * time.Second,
	}

	if *sequential {
		for _, emp := range empresas {
			if err := r.ProcessEmpresa(ctx, emp, opt); err != nil {
				log.Printf("Erro ao processar %s: %v", emp.Nome, err)
			}
		}
	} else {
		var wg sync.WaitGroup
		for _, emp := range empresas {
			wg.Add(1)
			go func(e empresa.Empresa) {
				defer wg.Done()
				if err := r.ProcessEmpresa(ctx, e, opt); err != nil {
					log.Printf("Erro ao processar %s: %v", e.Nome, err)
				}
			}(emp)
		}
		wg.Wait()
	}

	log.Println("Crawler finalizado")
}
