package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"raspagem/internal/model"
)

// DocumentRepository persiste documentos baixados e arquivos extraídos
// de ZIPs, na mesma tabela de páginas da empresa.
type DocumentRepository struct {
	Pool   *pgxpool.Pool
	Tabela string
}

// Save insere um documento novo ou atualiza o existente pelo link.
func (r *DocumentRepository) Save(ctx context.Context, d model.Documento) error {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE link = $1)", r.Tabela), d.Link,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.Pool.Exec(ctx, fmt.Sprintf(`
			UPDATE %s
			SET content = $1, local_path = $2, tags = $3, dt_download = CURRENT_TIMESTAMP
			WHERE link = $4
		`, r.Tabela), d.Content, d.LocalPath, d.Tags, d.Link)
	} else {
		_, err = r.Pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, content, link, local_path, tags)
			VALUES ($1, $2, $3, $4, $5)
		`, r.Tabela), d.ID, d.Content, d.Link, d.LocalPath, d.Tags)
	}

	return err
}

// SaveExtracted insere um arquivo extraído de ZIP. Extraídos são sempre
// registros novos, com o link virtual <url-do-zip>#extracted/....
func (r *DocumentRepository) SaveExtracted(ctx context.Context, d model.Documento) error {
	_, err := r.Pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, content, link, local_path, tags, parent_document)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.Tabela), d.ID, d.Content, d.Link, d.LocalPath, d.Tags, d.ParentDocument)
	return err
}
