package runner

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"raspagem/internal/cache"
	"raspagem/internal/config"
	"raspagem/internal/crawler"
	"raspagem/internal/download"
	"raspagem/internal/empresa"
	"raspagem/internal/model"
	"raspagem/internal/observability"
	"raspagem/internal/repository"
	"raspagem/internal/storage"
)

// Options são as chaves da CLI que alteram uma execução.
type Options struct {
	Force       bool
	NoCache     bool
	NoSSLVerify bool
	Timeout     time.Duration
}

// Runner orquestra o pipeline de uma empresa: rastrear páginas, salvar
// no banco, baixar documentos e extrair ZIPs.
type Runner struct {
	Cfg   *config.Config
	DB    *sql.DB
	Pool  *pgxpool.Pool
	Cache cache.Store
}

// ProcessEmpresa executa o pipeline completo de uma empresa.
func (r *Runner) ProcessEmpresa(ctx context.Context, emp empresa.Empresa, opt Options) error {
	log.Printf("[%s] Iniciando processamento (url=%s, profundidade=%d)", emp.Nome, emp.URL, emp.MaxDepth)

	dirs := storage.NewDirs(r.Cfg.OutputDir, emp.Nome)
	pageRepo := &repository.PageRepository{DB: r.DB, Tabela: emp.Tabela}

	// URLs já no banco: o rastreamento incremental as pula
	existing, err := pageRepo.ExistingLinks()
	if err != nil {
		log.Printf("[%s] Erro ao obter URLs existentes: %v", emp.Nome, err)
		existing = make(map[string]bool)
	}

	crawledCache := make(map[string]bool)
	docCache := make(map[string]bool)
	if !opt.NoCache {
		if crawledCache, err = r.Cache.Load(ctx, emp.Nome, cache.KindPaginas); err != nil {
			log.Printf("[%s] Erro ao carregar cache de páginas: %v", emp.Nome, err)
			crawledCache = make(map[string]bool)
		}
		if docCache, err = r.Cache.Load(ctx, emp.Nome, cache.KindDocumentos); err != nil {
			log.Printf("[%s] Erro ao carregar cache de documentos: %v", emp.Nome, err)
			docCache = make(map[string]bool)
		}
	}

	insecure := emp.IgnoreSSLErrors || opt.NoSSLVerify
	c := &crawler.Crawler{
		Fetcher: crawler.NewFetcher(r.Cfg.UserAgent, opt.Timeout, insecure),
		Conv:    crawler.NewMarkdownConverter(),
	}

	var (
		mu      sync.Mutex
		docURLs []string
		novas   int
		crawled = make(map[string]bool)
		seenDoc = make(map[string]bool)
	)
	for u := range docCache {
		if !existing[u] {
			seenDoc[u] = true
			docURLs = append(docURLs, u)
		}
	}

	skip := func(u string) bool {
		if opt.Force {
			return false
		}
		return existing[u] || crawledCache[u]
	}

	onPage := func(res crawler.Resultado) {
		htmlPath, err := dirs.SaveHTML(res.URL, res.HTML)
		if err != nil {
			log.Printf("[%s] Erro ao salvar HTML de %s: %v", emp.Nome, res.URL, err)
		}

		p := model.Pagina{
			ID:        uuid.New().String(),
			Link:      res.URL,
			Content:   crawler.BuildPageContent(res.Markdown, res.Images, res.Links),
			Images:    res.Images,
			Tags:      crawler.TagsForURL(res.URL),
			LocalPath: htmlPath,
		}

		if err := pageRepo.Save(p); err != nil {
			log.Printf("[%s] Erro ao salvar no banco: %v", emp.Nome, err)
			return
		}

		observability.PaginasCrawled.WithLabelValues(emp.Nome).Inc()
		mu.Lock()
		novas++
		crawled[res.URL] = true
		mu.Unlock()
	}

	onDocument := func(u string) {
		mu.Lock()
		defer mu.Unlock()
		if seenDoc[u] || existing[u] {
			return
		}
		seenDoc[u] = true
		docURLs = append(docURLs, u)
		log.Printf("[%s] Documento encontrado: %s", emp.Nome, u)
	}

	paginas, err := c.Crawl(ctx, emp, crawler.Options{
		Skip:       skip,
		OnPage:     onPage,
		OnDocument: onDocument,
	})
	if err != nil {
		return fmt.Errorf("rastreamento de %s: %w", emp.Nome, err)
	}
	log.Printf("[%s] Rastreamento concluído: %d páginas visitadas, %d novas, %d documentos na fila",
		emp.Nome, paginas, novas, len(docURLs))

	baixados, falhas := r.DownloadDocuments(ctx, emp, docURLs, opt)
	log.Printf("[%s] Documentos: %d baixados, %d falhas", emp.Nome, baixados, falhas)

	if !opt.NoCache {
		for u := range crawledCache {
			crawled[u] = true
		}
		if err := r.Cache.Save(ctx, emp.Nome, cache.KindPaginas, crawled); err != nil {
			log.Printf("[%s] Erro ao salvar cache de páginas: %v", emp.Nome, err)
		}
		if err := r.Cache.Save(ctx, emp.Nome, cache.KindDocumentos, seenDoc); err != nil {
			log.Printf("[%s] Erro ao salvar cache de documentos: %v", emp.Nome, err)
		}
	}

	return nil
}

// DownloadDocuments baixa uma fila de documentos com o pool de workers,
// persiste cada um e expande os ZIPs.
func (r *Runner) DownloadDocuments(
	ctx context.Context,
	emp empresa.Empresa,
	docURLs []string,
	opt Options,
) (baixados, falhas int) {
	if len(docURLs) == 0 {
		return 0, 0
	}

	dirs := storage.NewDirs(r.Cfg.OutputDir, emp.Nome)
	docRepo := &repository.DocumentRepository{Pool: r.Pool, Tabela: emp.Tabela}

	docsDir, err := dirs.Documentos()
	if err != nil {
		log.Printf("[%s] Erro ao criar diretório de documentos: %v", emp.Nome, err)
		return 0, len(docURLs)
	}

	insecure := emp.IgnoreSSLErrors || opt.NoSSLVerify
	dl := download.New(r.Cfg.UserAgent, opt.Timeout, insecure)

	var mu sync.Mutex
	download.RunWorkers(docURLs, r.Cfg.WorkerCount, func(docURL string) {
		res, err := dl.Download(ctx, docURL, docsDir)
		if err != nil {
			log.Printf("[%s] Falha ao baixar documento %s: %v", emp.Nome, docURL, err)
			observability.ErrosDownload.WithLabelValues(emp.Nome).Inc()
			mu.Lock()
			falhas++
			mu.Unlock()
			return
		}

		relPath := relTo(r.Cfg.OutputDir, res.LocalPath)

		tags := crawler.TagsForURL(docURL)
		tags = append(tags, res.FileType, "documento")
		if strings.Contains(strings.ToLower(docURL), "transparencia") {
			tags = append(tags, "transparencia")
		}

		doc := model.Documento{
			ID:        uuid.New().String(),
			Link:      docURL,
			Content:   crawler.BuildDocumentContent(res.Filename, res.FileType, docURL, relPath),
			Tags:      tags,
			LocalPath: relPath,
		}
		if err := docRepo.Save(ctx, doc); err != nil {
			log.Printf("[%s] Erro ao salvar documento no banco: %v", emp.Nome, err)
			mu.Lock()
			falhas++
			mu.Unlock()
			return
		}

		observability.DocumentosBaixados.WithLabelValues(emp.Nome).Inc()
		mu.Lock()
		baixados++
		mu.Unlock()
		log.Printf("[%s] Documento salvo: %s -> %s", emp.Nome, docURL, relPath)

		if strings.HasSuffix(strings.ToLower(res.LocalPath), ".zip") {
			r.processZip(ctx, emp, dirs, docRepo, res.LocalPath, docURL, tags)
		}
	})

	return baixados, falhas
}

// processZip expande um ZIP baixado e salva cada arquivo extraído como
// um registro próprio, apontando para o documento pai.
func (r *Runner) processZip(
	ctx context.Context,
	emp empresa.Empresa,
	dirs *storage.Dirs,
	docRepo *repository.DocumentRepository,
	zipPath, parentURL string,
	parentTags []string,
) {
	extractDir, err := dirs.Extraidos()
	if err != nil {
		log.Printf("[%s] Erro ao criar diretório de extração: %v", emp.Nome, err)
		return
	}

	extraidos, err := download.ExtractZip(zipPath, extractDir)
	if err != nil {
		log.Printf("[%s] Erro ao extrair ZIP %s: %v", emp.Nome, zipPath, err)
		return
	}

	for _, ex := range extraidos {
		relPath := relTo(r.Cfg.OutputDir, ex.LocalPath)

		tags := append([]string{}, parentTags...)
		if !contains(tags, "arquivo_compactado") {
			tags = append(tags, "arquivo_compactado")
		}
		tags = append(tags, "extraido_de_zip", ex.FileType)

		doc := model.Documento{
			ID:   uuid.New().String(),
			Link: fmt.Sprintf("%s#extracted/%s/%s", parentURL, ex.ZipUUID, path.Base(ex.EntryName)),
			Content: crawler.BuildExtractedContent(
				ex.EntryName, ex.FileType, filepath.Base(zipPath), parentURL, relPath, ex.Size),
			Tags:           tags,
			LocalPath:      relPath,
			ParentDocument: parentURL,
		}
		if err := docRepo.SaveExtracted(ctx, doc); err != nil {
			log.Printf("[%s] Erro ao salvar arquivo extraído no banco: %v", emp.Nome, err)
			continue
		}
		log.Printf("[%s] Arquivo extraído salvo no banco: %s", emp.Nome, ex.EntryName)
	}
}

func relTo(root, full string) string {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return full
	}
	return rel
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
